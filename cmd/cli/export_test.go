// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/types"
)

func sampleRecords() []leadsnake.LeadRecord {
	valid := true
	return []leadsnake.LeadRecord{
		{
			Title:        "Crumbs Bakery",
			Email:        "orders@crumbs.test",
			SourceURL:    "https://crumbs.test/contact",
			ScrapedAt:    time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
			SocialHandle: "crumbsbakery",
			Keyword:      "bakery",
			Domain:       "https://crumbs.test",
			EmailValid:   &valid,
		},
		{
			Title:     leadsnake.NoTitle,
			Email:     "hi@petal.test",
			SourceURL: "https://petal.test",
			Keyword:   "florist",
			Domain:    "https://petal.test",
		},
	}
}

func TestExporterCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter("csv").Write(&buf, sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "title" || rows[0][1] != "email" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	first := rows[1]
	if first[1] != "orders@crumbs.test" {
		t.Errorf("expected email, got %q", first[1])
	}
	if first[5] != "2025-03-04T05:06:07Z" {
		t.Errorf("expected RFC3339 time, got %q", first[5])
	}
	if first[7] != "true" || first[8] != "" {
		t.Errorf("unexpected validation columns: %v", first[7:])
	}
	if rows[2][0] != leadsnake.NoTitle {
		t.Errorf("expected title sentinel, got %q", rows[2][0])
	}
}

func TestExporterXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter("xlsx").Write(&buf, sampleRecords()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("invalid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(leadSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "email" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "orders@crumbs.test" || rows[2][1] != "hi@petal.test" {
		t.Errorf("unexpected emails: %q, %q", rows[1][1], rows[2][1])
	}
}

func TestExporterJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter("json").Write(&buf, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := bytes.TrimSpace(buf.Bytes()); string(got) != "[]" {
		t.Errorf("expected empty array, got %s", got)
	}
}

func TestExporterWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "leads.json")
	if err := NewExporter("json").WriteFile(path, sampleRecords()); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got []map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(got))
	}
	if got[0]["social_handle"] != "crumbsbakery" {
		t.Errorf("unexpected social handle: %v", got[0]["social_handle"])
	}
}

func TestExporterUnsupportedFormat(t *testing.T) {
	if err := NewExporter("xml").Write(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error for xml format")
	}
}

func TestLeadsFromResponse(t *testing.T) {
	recs := sampleRecords()
	resp := &types.SearchResponse{Results: []types.KeywordResult{
		{Keyword: "bakery", Leads: recs[:1]},
		{Keyword: "florist", Leads: recs[1:]},
		{Keyword: "empty"},
	}}
	if got := leadsFromResponse(resp); len(got) != 2 {
		t.Errorf("expected 2 leads, got %d", len(got))
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("Crumbs Bakery Berlin", 6); got != "Crumb…" {
		t.Errorf("got %q", got)
	}
}

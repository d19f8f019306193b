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
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/types"
)

var exportFormats = map[string]bool{"json": true, "csv": true, "xlsx": true}

// Exporter writes lead records as JSON, CSV or an Excel workbook
type Exporter struct {
	format string
}

func NewExporter(format string) *Exporter {
	return &Exporter{format: format}
}

// WriteFile writes records to path, creating parent directories
func (e *Exporter) WriteFile(path string, records []leadsnake.LeadRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	return e.Write(f, records)
}

func (e *Exporter) Write(w io.Writer, records []leadsnake.LeadRecord) error {
	switch e.format {
	case "csv":
		return writeCSV(w, records)
	case "xlsx":
		return writeXLSX(w, records)
	case "json", "":
		return writeJSON(w, records)
	default:
		return fmt.Errorf("unsupported format: %s", e.format)
	}
}

func writeJSON(w io.Writer, records []leadsnake.LeadRecord) error {
	if records == nil {
		records = []leadsnake.LeadRecord{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

var leadHeader = []string{
	"title", "email", "source_url", "domain", "keyword", "scraped_at",
	"social_handle", "email_valid", "social_valid", "valid",
}

func writeCSV(w io.Writer, records []leadsnake.LeadRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(leadHeader); err != nil {
		return err
	}
	for _, r := range records {
		if err := writer.Write(leadRow(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const leadSheet = "Leads"

func writeXLSX(w io.Writer, records []leadsnake.LeadRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leadSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(leadSheet, "A1", &leadHeader); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := leadRow(r)
		if err := f.SetSheetRow(leadSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func leadRow(r leadsnake.LeadRecord) []string {
	return []string{
		r.Title,
		r.Email,
		r.SourceURL,
		r.Domain,
		r.Keyword,
		r.ScrapedAt.UTC().Format(time.RFC3339),
		r.SocialHandle,
		formatFlag(r.EmailValid),
		formatFlag(r.SocialValid),
		formatFlag(r.Valid),
	}
}

func formatFlag(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func leadsFromResponse(resp *types.SearchResponse) []leadsnake.LeadRecord {
	var out []leadsnake.LeadRecord
	for _, r := range resp.Results {
		out = append(out, r.Leads...)
	}
	return out
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	var common commonFlags
	common.register(fs)

	keyword := fs.String("keyword", "", "Only export leads found for this keyword")
	fs.StringVar(keyword, "k", "", "Keyword (shorthand)")
	format := fs.String("format", "json", "Export format: json, csv or xlsx")
	fs.StringVar(format, "f", "json", "Export format (shorthand)")
	output := fs.String("output", "", "Output file (default stdout)")
	fs.StringVar(output, "o", "", "Output file (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: leadsnake export [flags]

Export stored leads as JSON or CSV.

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  leadsnake export -f csv -o leads.csv
  leadsnake export -f xlsx -o leads.xlsx
  leadsnake export --keyword "bakery berlin"
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if !exportFormats[*format] {
		return fmt.Errorf("invalid format %q: must be json, csv or xlsx", *format)
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	a, _, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.Leads(*keyword)
	if err != nil {
		return err
	}

	exp := NewExporter(*format)
	if *output == "" {
		return exp.Write(os.Stdout, records)
	}
	if err := exp.WriteFile(*output, records); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported %d leads to %s\n", len(records), *output)
	return nil
}

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

package store

import (
	"fmt"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/google/uuid"
)

// CreateRun records the start of a keyword search
func (s *Store) CreateRun(keyword string) (*Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Keyword:   keyword,
		State:     RunStateRunning,
		StartedAt: time.Now().Unix(),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to create run: %v", err)
	}
	return &run, nil
}

// FinishRun copies the outcome of a keyword search onto its run
func (s *Store) FinishRun(id string, report leadsnake.KeywordReport) error {
	state := RunStateCompleted
	errText := ""
	if report.Err != nil {
		state = RunStateFailed
		errText = report.Err.Error()
	}
	result := s.db.Model(&Run{}).Where("id = ?", id).Updates(map[string]interface{}{
		"state":        state,
		"finished_at":  time.Now().Unix(),
		"attempts":     report.Attempts,
		"seeds":        report.Seeds,
		"crawled":      report.Crawled,
		"skipped":      report.Skipped,
		"misses":       report.Misses,
		"duplicates":   report.Duplicates,
		"leads_found":  len(report.Leads),
		"leads_stored": report.Stored,
		"error":        errText,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to finish run: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %s", id)
	}
	return nil
}

// GetRun gets a run by ID
func (s *Store) GetRun(id string) (*Run, error) {
	var run Run
	if err := s.db.Where("id = ?", id).First(&run).Error; err != nil {
		return nil, fmt.Errorf("failed to get run: %v", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	q := s.db.Order("started_at DESC, rowid DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %v", err)
	}
	return runs, nil
}

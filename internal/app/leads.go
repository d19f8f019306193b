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

package app

import (
	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/types"
)

// Leads returns the stored leads, all of them when keyword is empty
func (a *App) Leads(keyword string) ([]leadsnake.LeadRecord, error) {
	if keyword == "" {
		rows, err := a.store.GetAllLeads()
		if err != nil {
			return nil, err
		}
		return recordsFromRows(rows), nil
	}
	rows, err := a.store.GetLeadsByKeyword(keyword)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// ClearLeads deletes every stored lead
func (a *App) ClearLeads() (int64, error) {
	return a.store.ClearLeads()
}

// Runs returns the most recent keyword runs
func (a *App) Runs(limit int) ([]types.RunInfo, error) {
	runs, err := a.store.ListRuns(limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.RunInfo, 0, len(runs))
	for _, r := range runs {
		out = append(out, types.RunInfo{
			ID:          r.ID,
			Keyword:     r.Keyword,
			State:       r.State,
			StartedAt:   r.StartedAt,
			FinishedAt:  r.FinishedAt,
			Attempts:    r.Attempts,
			Seeds:       r.Seeds,
			Misses:      r.Misses,
			LeadsFound:  r.LeadsFound,
			LeadsStored: r.LeadsStored,
			Error:       r.Error,
		})
	}
	return out, nil
}

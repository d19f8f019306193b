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

package types

import "github.com/agentberlin/leadsnake"

// SearchRequest is the body of a lead search
type SearchRequest struct {
	Keywords  []string `json:"keywords"`
	MaxVisits int      `json:"maxVisits,omitempty"`
	MaxDepth  int      `json:"maxDepth,omitempty"`
	MaxSeeds  int      `json:"maxSeeds,omitempty"`
	Workers   int      `json:"workers,omitempty"`
	// UseCache serves keywords that already have stored leads from the database
	UseCache *bool `json:"useCache,omitempty"`
}

// KeywordResult is the outcome of one keyword of a search
type KeywordResult struct {
	Keyword    string                 `json:"keyword"`
	RunID      string                 `json:"runId,omitempty"`
	Cached     bool                   `json:"cached"`
	Attempts   int                    `json:"attempts"`
	Seeds      int                    `json:"seeds"`
	Crawled    int                    `json:"crawled"`
	Skipped    int                    `json:"skipped"`
	Misses     int                    `json:"misses"`
	Duplicates int                    `json:"duplicates"`
	Stored     int                    `json:"stored"`
	Leads      []leadsnake.LeadRecord `json:"leads"`
	Error      string                 `json:"error,omitempty"`
}

// SearchResponse is the outcome of a whole search
type SearchResponse struct {
	Results    []KeywordResult `json:"results"`
	TotalLeads int             `json:"totalLeads"`
	DurationMs int64           `json:"durationMs"`
}

// RunInfo represents a keyword run for the frontend
type RunInfo struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	State       string `json:"state"`
	StartedAt   int64  `json:"startedAt"`
	FinishedAt  int64  `json:"finishedAt,omitempty"`
	Attempts    int    `json:"attempts"`
	Seeds       int    `json:"seeds"`
	Misses      int    `json:"misses"`
	LeadsFound  int    `json:"leadsFound"`
	LeadsStored int    `json:"leadsStored"`
	Error       string `json:"error,omitempty"`
}

// SearchProgress represents the progress of an active search
type SearchProgress struct {
	ID           string   `json:"id"`
	Keywords     []string `json:"keywords"`
	StartedAt    int64    `json:"startedAt"`
	PagesVisited int64    `json:"pagesVisited"`
	LeadsFound   int64    `json:"leadsFound"`
	CurrentURL   string   `json:"currentUrl,omitempty"`
}

// ProbeResult is a single-site crawl outside of any keyword run
type ProbeResult struct {
	Seed       string                `json:"seed"`
	State      string                `json:"state"`
	Visits     int                   `json:"visits"`
	Expanded   int                   `json:"expanded"`
	DepthSkips int                   `json:"depthSkips"`
	Lead       *leadsnake.LeadRecord `json:"lead,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// SystemHealthCheck represents the result of system health checks
type SystemHealthCheck struct {
	IsHealthy  bool   `json:"isHealthy"`
	ErrorTitle string `json:"errorTitle,omitempty"`
	ErrorMsg   string `json:"errorMsg,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

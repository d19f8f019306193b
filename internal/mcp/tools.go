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

package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all MCP tools
func (s *MCPServer) registerTools() {
	s.registerFindLeadsTool()
	s.registerListLeadsTool()
	s.registerClearLeadsTool()
	s.registerListRunsTool()
	s.registerProbeSiteTool()
	s.logger.Debug("MCP tools registered")
}

// LeadInfo is a lead as returned to MCP clients
type LeadInfo struct {
	Title        string `json:"title"`
	Email        string `json:"email"`
	SourceURL    string `json:"sourceUrl"`
	ScrapedAt    string `json:"scrapedAt"`
	SocialHandle string `json:"socialHandle,omitempty"`
	Keyword      string `json:"keyword,omitempty"`
	Domain       string `json:"domain,omitempty"`
	Valid        *bool  `json:"valid,omitempty"`
}

func leadInfo(r leadsnake.LeadRecord) LeadInfo {
	return LeadInfo{
		Title:        r.Title,
		Email:        r.Email,
		SourceURL:    r.SourceURL,
		ScrapedAt:    r.ScrapedAt.Format(time.RFC3339),
		SocialHandle: r.SocialHandle,
		Keyword:      r.Keyword,
		Domain:       r.Domain,
		Valid:        r.Valid,
	}
}

func leadInfos(records []leadsnake.LeadRecord) []LeadInfo {
	out := make([]LeadInfo, 0, len(records))
	for _, r := range records {
		out = append(out, leadInfo(r))
	}
	return out
}

// FindLeadsArgs defines the input schema for find_leads tool
type FindLeadsArgs struct {
	Keywords  []string `json:"keywords" jsonschema:"business keywords to search for, e.g. bakery berlin"`
	MaxVisits int      `json:"maxVisits,omitempty" jsonschema:"pages extracted per site (default 3)"`
	MaxDepth  int      `json:"maxDepth,omitempty" jsonschema:"link cost at which a site search stops expanding (default 2)"`
	MaxSeeds  int      `json:"maxSeeds,omitempty" jsonschema:"search results crawled per keyword (default 20)"`
	UseCache  *bool    `json:"useCache,omitempty" jsonschema:"answer keywords with stored leads from the database"`
}

// KeywordSummary is the per-keyword part of a find_leads result
type KeywordSummary struct {
	Keyword string     `json:"keyword"`
	Cached  bool       `json:"cached"`
	Seeds   int        `json:"seeds"`
	Misses  int        `json:"misses"`
	Stored  int        `json:"stored"`
	Leads   []LeadInfo `json:"leads"`
	Error   string     `json:"error,omitempty"`
}

// FindLeadsResult defines the output schema for find_leads tool
type FindLeadsResult struct {
	Success    bool             `json:"success"`
	TotalLeads int              `json:"totalLeads"`
	Keywords   []KeywordSummary `json:"keywords,omitempty"`
	Message    string           `json:"message"`
}

func (s *MCPServer) registerFindLeadsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_leads",
		Description: "Searches the web for businesses matching the keywords and returns one contact lead (title, email, social handle) per site",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FindLeadsArgs) (*mcp.CallToolResult, FindLeadsResult, error) {
		s.logger.Info("tool called", "tool", "find_leads", "keywords", args.Keywords)

		resp, err := s.app.Search(ctx, types.SearchRequest{
			Keywords:  args.Keywords,
			MaxVisits: args.MaxVisits,
			MaxDepth:  args.MaxDepth,
			MaxSeeds:  args.MaxSeeds,
			UseCache:  args.UseCache,
		})
		if err != nil {
			return nil, FindLeadsResult{Success: false, Message: fmt.Sprintf("Search failed: %v", err)}, nil
		}

		out := FindLeadsResult{Success: true, TotalLeads: resp.TotalLeads}
		for _, r := range resp.Results {
			out.Keywords = append(out.Keywords, KeywordSummary{
				Keyword: r.Keyword,
				Cached:  r.Cached,
				Seeds:   r.Seeds,
				Misses:  r.Misses,
				Stored:  r.Stored,
				Leads:   leadInfos(r.Leads),
				Error:   r.Error,
			})
		}
		out.Message = fmt.Sprintf("Found %d leads for %d keywords", resp.TotalLeads, len(resp.Results))
		return nil, out, nil
	})
}

// ListLeadsArgs defines the input schema for list_leads tool
type ListLeadsArgs struct {
	Keyword string `json:"keyword,omitempty" jsonschema:"only leads found for this keyword"`
}

// ListLeadsResult defines the output schema for list_leads tool
type ListLeadsResult struct {
	Count int        `json:"count"`
	Leads []LeadInfo `json:"leads"`
}

func (s *MCPServer) registerListLeadsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_leads",
		Description: "Lists the leads stored in the database, optionally filtered by keyword",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListLeadsArgs) (*mcp.CallToolResult, ListLeadsResult, error) {
		records, err := s.app.Leads(args.Keyword)
		if err != nil {
			return nil, ListLeadsResult{}, fmt.Errorf("failed to list leads: %w", err)
		}
		return nil, ListLeadsResult{Count: len(records), Leads: leadInfos(records)}, nil
	})
}

// ClearLeadsArgs defines the input schema for clear_leads tool
type ClearLeadsArgs struct{}

// ClearLeadsResult defines the output schema for clear_leads tool
type ClearLeadsResult struct {
	Removed int64 `json:"removed"`
}

func (s *MCPServer) registerClearLeadsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clear_leads",
		Description: "Deletes every stored lead",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ClearLeadsArgs) (*mcp.CallToolResult, ClearLeadsResult, error) {
		removed, err := s.app.ClearLeads()
		if err != nil {
			return nil, ClearLeadsResult{}, fmt.Errorf("failed to clear leads: %w", err)
		}
		s.logger.Info("leads cleared", "removed", removed)
		return nil, ClearLeadsResult{Removed: removed}, nil
	})
}

// ListRunsArgs defines the input schema for list_runs tool
type ListRunsArgs struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of runs, newest first (default 20)"`
}

// ListRunsResult defines the output schema for list_runs tool
type ListRunsResult struct {
	Runs []types.RunInfo `json:"runs"`
}

func (s *MCPServer) registerListRunsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_runs",
		Description: "Lists recent keyword searches with their seed, miss and lead counts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListRunsArgs) (*mcp.CallToolResult, ListRunsResult, error) {
		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}
		runs, err := s.app.Runs(limit)
		if err != nil {
			return nil, ListRunsResult{}, fmt.Errorf("failed to list runs: %w", err)
		}
		return nil, ListRunsResult{Runs: runs}, nil
	})
}

// ProbeSiteArgs defines the input schema for probe_site tool
type ProbeSiteArgs struct {
	URL string `json:"url" jsonschema:"site to search for a contact lead, e.g. example.com"`
}

// ProbeSiteResult defines the output schema for probe_site tool
type ProbeSiteResult struct {
	State  string    `json:"state"`
	Visits int       `json:"visits"`
	Lead   *LeadInfo `json:"lead,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func (s *MCPServer) registerProbeSiteTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "probe_site",
		Description: "Runs one best-first crawl on a single site and returns its lead without storing it",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ProbeSiteArgs) (*mcp.CallToolResult, ProbeSiteResult, error) {
		res, err := s.app.Probe(ctx, args.URL)
		if err != nil {
			return nil, ProbeSiteResult{}, fmt.Errorf("invalid site: %w", err)
		}
		out := ProbeSiteResult{State: res.State, Visits: res.Visits, Error: res.Error}
		if res.Lead != nil {
			info := leadInfo(*res.Lead)
			out.Lead = &info
		}
		return nil, out, nil
	})
}

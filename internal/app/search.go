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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/keywords"
	"github.com/agentberlin/leadsnake/internal/store"
	"github.com/agentberlin/leadsnake/internal/types"
)

// ErrNoKeywords is returned when a search has nothing left to search for
// after keyword cleaning.
var ErrNoKeywords = errors.New("no keywords to search")

// Search finds leads for every keyword of req. Keywords that already have
// stored leads are answered from the database when caching is on; the rest
// run concurrently on a keyword pool, each recorded as a Run.
func (a *App) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	kws := keywords.Normalize(req.Keywords)
	if len(kws) == 0 {
		return nil, ErrNoKeywords
	}
	start := time.Now()
	core := a.sessionConfig(req)
	useCache := a.cfg.Search.UseCache
	if req.UseCache != nil {
		useCache = *req.UseCache
	}
	workers := a.cfg.Search.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}

	search := a.beginSearch(kws)
	defer a.endSearch(search)
	a.emitter.Emit(EventSearchStarted, map[string]interface{}{"id": search.id, "keywords": kws})

	results := make([]types.KeywordResult, len(kws))
	var pending []string
	var pendingIdx []int
	for i, kw := range kws {
		if useCache {
			if cached, ok := a.cachedResult(kw); ok {
				results[i] = cached
				a.emitter.Emit(EventKeywordCompleted, cached)
				continue
			}
		}
		pending = append(pending, kw)
		pendingIdx = append(pendingIdx, i)
	}

	if len(pending) > 0 {
		runIDs := make([]string, len(pending))
		for i, kw := range pending {
			run, err := a.store.CreateRun(kw)
			if err != nil {
				return nil, err
			}
			runIDs[i] = run.ID
		}

		pool := leadsnake.NewKeywordPool(workers, a.orchestratorFactory(core, search.onNodeVisit))
		reports, err := pool.Run(ctx, pending)
		if err != nil {
			for _, id := range runIDs {
				a.store.FinishRun(id, leadsnake.KeywordReport{Err: err})
			}
			return nil, err
		}
		for i, report := range reports {
			if err := a.store.FinishRun(runIDs[i], report); err != nil {
				a.logger.Error("failed to finish run", "run", runIDs[i], "err", err)
			}
			search.leadsFound.Add(int64(len(report.Leads)))
			res := resultFromReport(report)
			res.RunID = runIDs[i]
			results[pendingIdx[i]] = res
			for _, l := range report.Leads {
				a.emitter.Emit(EventLeadFound, l.Record())
			}
			a.emitter.Emit(EventKeywordCompleted, res)
		}
	}

	resp := &types.SearchResponse{
		Results:    results,
		DurationMs: time.Since(start).Milliseconds(),
	}
	for _, r := range results {
		resp.TotalLeads += len(r.Leads)
	}
	a.emitter.Emit(EventSearchCompleted, resp)
	return resp, nil
}

// sessionConfig applies the per-request overrides to the file configuration.
func (a *App) sessionConfig(req types.SearchRequest) *leadsnake.Config {
	core := a.cfg.ToCore()
	if req.MaxVisits > 0 {
		core.Budgets.MaxVisits = req.MaxVisits
	}
	if req.MaxDepth > 0 {
		core.Budgets.MaxDepth = req.MaxDepth
	}
	if req.MaxSeeds > 0 {
		core.MaxSeeds = req.MaxSeeds
	}
	return core
}

func (a *App) cachedResult(kw string) (types.KeywordResult, bool) {
	rows, err := a.store.GetLeadsByKeyword(kw)
	if err != nil {
		a.logger.Warn("lead cache lookup failed", "keyword", kw, "err", err)
		return types.KeywordResult{}, false
	}
	if len(rows) == 0 {
		return types.KeywordResult{}, false
	}
	a.logger.Info("serving keyword from database", "keyword", kw, "leads", len(rows))
	return types.KeywordResult{
		Keyword: kw,
		Cached:  true,
		Leads:   recordsFromRows(rows),
	}, true
}

// newCrawler builds the fetch stack of one worker: its own fetcher and page
// cache, and its own browser when JS rendering is on.
func (a *App) newCrawler(core *leadsnake.Config, onVisit leadsnake.OnNodeVisitFunc) (*leadsnake.PriorityCrawler, error) {
	fetchOpts := []leadsnake.FetcherOption{leadsnake.WithFetchLogger(a.logger)}
	if a.httpClient != nil {
		fetchOpts = append(fetchOpts, leadsnake.WithHTTPClient(a.httpClient))
	}
	if core.RenderJS {
		r := a.renderer
		if r == nil {
			cr := leadsnake.NewChromeRenderer(core.Timeout * 3)
			a.ownedMutex.Lock()
			a.owned = append(a.owned, cr)
			a.ownedMutex.Unlock()
			r = cr
		}
		fetchOpts = append(fetchOpts, leadsnake.WithRenderer(r))
	}
	fetcher := leadsnake.NewPageFetcherFromConfig(core, fetchOpts...)

	crawlOpts := []leadsnake.CrawlerOption{
		leadsnake.WithBudgets(core.Budgets),
		leadsnake.WithBlacklist(a.cfg.Blacklist()),
		leadsnake.WithCrawlLogger(a.logger),
	}
	if onVisit != nil {
		crawlOpts = append(crawlOpts, leadsnake.WithOnNodeVisit(onVisit))
	}
	return leadsnake.NewPriorityCrawler(fetcher, crawlOpts...)
}

func (a *App) orchestratorFactory(core *leadsnake.Config, onVisit leadsnake.OnNodeVisitFunc) leadsnake.OrchestratorFactory {
	return func() (*leadsnake.CrawlOrchestrator, error) {
		crawler, err := a.newCrawler(core, onVisit)
		if err != nil {
			return nil, fmt.Errorf("failed to build crawler: %w", err)
		}
		opts := []leadsnake.OrchestratorOption{
			leadsnake.WithMaxSeeds(core.MaxSeeds),
			leadsnake.WithRetryPolicy(leadsnake.RetryPolicy{MaxRetries: core.MaxRetries, Backoff: core.RetryBackoff}),
			leadsnake.WithPersistence(a.store),
			leadsnake.WithOrchestratorLogger(a.logger),
		}
		if a.validator != nil {
			opts = append(opts, leadsnake.WithValidator(a.validator))
		}
		return leadsnake.NewCrawlOrchestrator(crawler, a.seeds, opts...), nil
	}
}

// Probe runs a single best-first crawl on one site without touching the
// database.
func (a *App) Probe(ctx context.Context, input string) (*types.ProbeResult, error) {
	root, _, err := normalizeSeedInput(input)
	if err != nil {
		return nil, err
	}
	crawler, err := a.newCrawler(a.cfg.ToCore(), nil)
	if err != nil {
		return nil, err
	}
	res := crawler.Crawl(ctx, root)
	out := &types.ProbeResult{
		Seed:       root,
		State:      res.State.String(),
		Visits:     res.Visits,
		Expanded:   res.Expanded,
		DepthSkips: res.DepthSkips,
	}
	if res.Lead != nil {
		domain, _ := leadsnake.DomainRoot(root)
		rec := leadsnake.Lead{CandidateLead: *res.Lead, Domain: domain}.Record()
		out.Lead = &rec
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out, nil
}

func resultFromReport(r leadsnake.KeywordReport) types.KeywordResult {
	res := types.KeywordResult{
		Keyword:    r.Keyword,
		Attempts:   r.Attempts,
		Seeds:      r.Seeds,
		Crawled:    r.Crawled,
		Skipped:    r.Skipped,
		Misses:     r.Misses,
		Duplicates: r.Duplicates,
		Stored:     r.Stored,
		Leads:      make([]leadsnake.LeadRecord, 0, len(r.Leads)),
	}
	for _, l := range r.Leads {
		res.Leads = append(res.Leads, l.Record())
	}
	if r.Err != nil {
		res.Error = r.Err.Error()
	}
	return res
}

func recordsFromRows(rows []store.Lead) []leadsnake.LeadRecord {
	out := make([]leadsnake.LeadRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToLead().Record())
	}
	return out
}

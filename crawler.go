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

package leadsnake

import (
	"context"
	"time"

	"github.com/agentberlin/leadsnake/storage"
	"github.com/charmbracelet/log"
)

// CrawlState is the lifecycle state of one seed search.
type CrawlState int

const (
	// StateReady is a crawl that has not started
	StateReady CrawlState = iota
	// StateSearching is a crawl popping frontier nodes
	StateSearching
	// StateFound means a complete lead was extracted
	StateFound
	// StateExhausted means the frontier emptied (or the context ended)
	// without a lead
	StateExhausted
	// StateBudgetExceeded means MaxVisits pages were extracted without a lead
	StateBudgetExceeded
)

func (s CrawlState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateSearching:
		return "searching"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	case StateBudgetExceeded:
		return "budget_exceeded"
	}
	return "unknown"
}

// Terminal reports whether s ends a crawl.
func (s CrawlState) Terminal() bool {
	return s == StateFound || s == StateExhausted || s == StateBudgetExceeded
}

// CrawlResult is the outcome of one seed search.
type CrawlResult struct {
	State CrawlState
	// Lead is set only when State is StateFound
	Lead *CandidateLead
	// Visits is the number of pages extracted
	Visits int
	// Expanded is the number of pages whose links were followed
	Expanded int
	// DepthSkips is the number of popped nodes discarded for depth
	DepthSkips int
	// Err is a seed-level failure or the context error that stopped the crawl
	Err error
}

// NodeVisit describes one extracted node. It is passed to the
// OnNodeVisitFunc callback.
type NodeVisit struct {
	URL   string
	F     int
	G     int
	Visit int
	Lead  CandidateLead
	Err   error
}

// OnNodeVisitFunc is called after each node extraction, in visit order.
type OnNodeVisitFunc func(NodeVisit)

type neighborSource interface {
	DiscoverNeighbors(ctx context.Context, pageURL string) []LinkEdge
}

type leadSource interface {
	Assemble(ctx context.Context, pageURL string) (CandidateLead, error)
}

// PriorityCrawler runs a best-first search over one domain's link graph and
// stops at the first page yielding a complete lead.
type PriorityCrawler struct {
	budgets   Budgets
	blacklist []string
	now       func() time.Time
	cost      func(url, anchorText string) int
	logger    *log.Logger
	onVisit   OnNodeVisitFunc

	links     neighborSource
	assembler leadSource
}

// CrawlerOption configures a PriorityCrawler.
type CrawlerOption func(*PriorityCrawler)

// WithBudgets sets the visit and depth budgets.
func WithBudgets(b Budgets) CrawlerOption {
	return func(c *PriorityCrawler) {
		c.budgets = b
	}
}

// WithBlacklist replaces the host blacklist patterns.
func WithBlacklist(patterns []string) CrawlerOption {
	return func(c *PriorityCrawler) {
		c.blacklist = patterns
	}
}

// WithClock sets the clock used for ScrapedAt.
func WithClock(now func() time.Time) CrawlerOption {
	return func(c *PriorityCrawler) {
		c.now = now
	}
}

// WithCrawlLogger sets the crawler logger.
func WithCrawlLogger(l *log.Logger) CrawlerOption {
	return func(c *PriorityCrawler) {
		c.logger = l
	}
}

// WithOnNodeVisit registers a callback run after every node extraction.
func WithOnNodeVisit(f OnNodeVisitFunc) CrawlerOption {
	return func(c *PriorityCrawler) {
		c.onVisit = f
	}
}

// NewPriorityCrawler builds a crawler whose link discovery and lead
// extraction share fetcher, and therefore its page cache.
func NewPriorityCrawler(fetcher Fetcher, options ...CrawlerOption) (*PriorityCrawler, error) {
	c := &PriorityCrawler{
		budgets: Budgets{MaxVisits: 3, MaxDepth: 2},
		cost:    Cost,
	}
	for _, o := range options {
		o(c)
	}
	c.logger = loggerOrDefault(c.logger)
	links, err := NewLinkGraphBuilder(fetcher, c.blacklist, c.logger)
	if err != nil {
		return nil, err
	}
	c.links = links
	c.assembler = NewLeadAssembler(fetcher, c.now)
	return c, nil
}

// Budgets returns the configured budgets.
func (c *PriorityCrawler) Budgets() Budgets {
	return c.budgets
}

// Crawl searches the domain of seed, starting at its root. It never returns
// an error value: failures are reported in the result. The context is
// checked between pops.
func (c *PriorityCrawler) Crawl(ctx context.Context, seed string) CrawlResult {
	res := CrawlResult{State: StateReady}
	root, err := DomainRoot(seed)
	if err != nil {
		res.State = StateExhausted
		res.Err = &SeedError{Seed: seed, Err: err}
		return res
	}

	frontier := NewFrontier()
	visited := storage.NewVisitedSet()
	frontier.Push(QueueEntry{F: c.cost(root, ""), G: 0, URL: root})
	visited.Add(root)
	res.State = StateSearching
	c.logger.Debug("crawl start", "root", root, "maxVisits", c.budgets.MaxVisits, "maxDepth", c.budgets.MaxDepth)

	visits := 0
	for {
		if err := ctx.Err(); err != nil {
			res.State = StateExhausted
			res.Err = err
			return res
		}
		entry, ok := frontier.Pop()
		if !ok {
			break
		}

		if entry.G >= c.budgets.MaxDepth {
			c.logger.Debug("depth skip", "url", entry.URL, "g", entry.G, "f", entry.F)
			res.DepthSkips++
			continue
		}

		visits++
		if visits > c.budgets.MaxVisits {
			c.logger.Info("visit budget exhausted", "root", root, "visits", res.Visits)
			res.State = StateBudgetExceeded
			return res
		}
		res.Visits = visits
		c.logger.Info("node visit", "url", entry.URL, "g", entry.G, "f", entry.F, "seq", entry.seq, "visit", visits)

		lead, err := c.assembler.Assemble(ctx, entry.URL)
		if c.onVisit != nil {
			c.onVisit(NodeVisit{URL: entry.URL, F: entry.F, G: entry.G, Visit: visits, Lead: lead, Err: err})
		}
		if err != nil {
			c.logger.Warn("fetch error", "url", entry.URL, "err", err)
			continue
		}
		if IsComplete(lead) {
			res.State = StateFound
			res.Lead = &lead
			c.logger.Info("lead found", "url", entry.URL, "email", *lead.Email)
			return res
		}

		res.Expanded++
		for _, edge := range c.links.DiscoverNeighbors(ctx, entry.URL) {
			if !visited.Add(edge.Target) {
				continue
			}
			g := entry.G + 1
			frontier.Push(QueueEntry{F: g + c.cost(edge.Target, edge.AnchorText), G: g, URL: edge.Target})
		}
	}

	res.State = StateExhausted
	c.logger.Info("frontier exhausted", "root", root, "visits", res.Visits)
	return res
}

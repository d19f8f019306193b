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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// SeedProvider returns candidate seed URLs for a keyword, best first.
type SeedProvider interface {
	Seeds(ctx context.Context, keyword string, max int) ([]string, error)
}

// Persistence stores the leads of a keyword run and returns how many were
// new. It applies its own URL-uniqueness rule.
type Persistence interface {
	StoreLeads(ctx context.Context, keyword string, leads []Lead) (int, error)
}

// Validator annotates a lead after the crawl. Validate is called
// concurrently for the leads of one keyword, each call with its own lead.
type Validator interface {
	Validate(ctx context.Context, lead *Lead)
}

// SeedCrawler searches one seed's domain. *PriorityCrawler implements it.
type SeedCrawler interface {
	Crawl(ctx context.Context, seed string) CrawlResult
}

// RetryPolicy bounds the from-scratch retries of a keyword.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// Backoff is the pause before each retry
	Backoff time.Duration
}

// KeywordReport summarizes one ProcessKeyword call.
type KeywordReport struct {
	Keyword  string
	Attempts int
	// Seeds is the number of seeds returned by the provider on the last attempt
	Seeds int
	// Crawled is the number of seeds actually crawled
	Crawled int
	// Skipped counts seeds whose domain already yielded a lead
	Skipped int
	// Misses counts seeds that produced no lead
	Misses int
	// Duplicates counts leads dropped for a repeated email
	Duplicates int
	Stored     int
	Leads      []Lead
	// Err is the reason the keyword produced nothing, if any
	Err error
}

// CrawlOrchestrator runs a SeedCrawler over every seed of a keyword with
// domain short-circuiting, email dedup and bounded retry. It is not safe
// for concurrent use; give each worker its own orchestrator.
type CrawlOrchestrator struct {
	crawler     SeedCrawler
	seeds       SeedProvider
	persistence Persistence
	validator   Validator
	retry       RetryPolicy
	maxSeeds    int
	logger      *log.Logger
}

// OrchestratorOption configures a CrawlOrchestrator.
type OrchestratorOption func(*CrawlOrchestrator)

// WithRetryPolicy sets the keyword retry policy.
func WithRetryPolicy(p RetryPolicy) OrchestratorOption {
	return func(o *CrawlOrchestrator) {
		o.retry = p
	}
}

// WithMaxSeeds sets the number of seeds requested per keyword.
func WithMaxSeeds(n int) OrchestratorOption {
	return func(o *CrawlOrchestrator) {
		o.maxSeeds = n
	}
}

// WithPersistence stores leads after each successful attempt.
func WithPersistence(p Persistence) OrchestratorOption {
	return func(o *CrawlOrchestrator) {
		o.persistence = p
	}
}

// WithValidator annotates leads before they are returned.
func WithValidator(v Validator) OrchestratorOption {
	return func(o *CrawlOrchestrator) {
		o.validator = v
	}
}

// WithOrchestratorLogger sets the orchestrator logger.
func WithOrchestratorLogger(l *log.Logger) OrchestratorOption {
	return func(o *CrawlOrchestrator) {
		o.logger = l
	}
}

// NewCrawlOrchestrator creates an orchestrator with 20 seeds per keyword and
// two retries.
func NewCrawlOrchestrator(crawler SeedCrawler, seeds SeedProvider, options ...OrchestratorOption) *CrawlOrchestrator {
	o := &CrawlOrchestrator{
		crawler:  crawler,
		seeds:    seeds,
		retry:    RetryPolicy{MaxRetries: 2},
		maxSeeds: 20,
	}
	for _, opt := range options {
		opt(o)
	}
	o.logger = loggerOrDefault(o.logger)
	return o
}

// ProcessKeyword returns the deduplicated leads found for keyword, in seed
// order. It never fails: errors are logged and shrink the result.
func (o *CrawlOrchestrator) ProcessKeyword(ctx context.Context, keyword string) []Lead {
	return o.ProcessKeywordReport(ctx, keyword).Leads
}

// ProcessKeywordReport is ProcessKeyword with run statistics.
func (o *CrawlOrchestrator) ProcessKeywordReport(ctx context.Context, keyword string) KeywordReport {
	var lastErr error
	attempts := o.retry.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	tried := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			o.logger.Warn("retry attempt", "keyword", keyword, "attempt", attempt, "err", lastErr)
			if !sleepContext(ctx, o.retry.Backoff) {
				break
			}
		}
		tried = attempt

		report, err := o.runAttempt(ctx, keyword, attempt)
		if err == nil {
			o.finish(ctx, &report)
			return report
		}
		lastErr = err
		if errors.Is(err, ErrNoSeeds) {
			o.logger.Warn("no seeds", "keyword", keyword)
			return report
		}
		if ctx.Err() != nil {
			break
		}
	}

	err := fmt.Errorf("%w: %w", ErrKeywordAbandoned, lastErr)
	o.logger.Error("keyword failed", "keyword", keyword, "err", err)
	return KeywordReport{Keyword: keyword, Attempts: tried, Err: err}
}

// runAttempt is one full discovery and crawl pass. Any panic inside it is
// turned into a *KeywordError.
func (o *CrawlOrchestrator) runAttempt(ctx context.Context, keyword string, attempt int) (report KeywordReport, err error) {
	report = KeywordReport{Keyword: keyword, Attempts: attempt}
	defer func() {
		if r := recover(); r != nil {
			err = &KeywordError{Keyword: keyword, Attempt: attempt, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	seeds, err := o.seeds.Seeds(ctx, keyword, o.maxSeeds)
	if err != nil {
		return report, &KeywordError{Keyword: keyword, Attempt: attempt, Err: err}
	}
	report.Seeds = len(seeds)
	if len(seeds) == 0 {
		report.Err = ErrNoSeeds
		return report, ErrNoSeeds
	}

	seenDomains := make(map[string]struct{})
	var leads []Lead
	for _, seed := range seeds {
		if ctx.Err() != nil {
			report.Err = ctx.Err()
			break
		}
		lead, outcome := o.crawlSeed(ctx, keyword, seed, seenDomains)
		switch outcome {
		case seedSkipped:
			report.Skipped++
		case seedMissed:
			report.Crawled++
			report.Misses++
		case seedFound:
			report.Crawled++
			leads = append(leads, lead)
		case seedFailed:
			report.Misses++
		}
	}

	report.Leads, report.Duplicates = dedupeByEmail(leads)
	return report, nil
}

type seedOutcome int

const (
	seedFound seedOutcome = iota
	seedMissed
	seedSkipped
	seedFailed
)

// crawlSeed crawls one seed. A failure is confined to the seed.
func (o *CrawlOrchestrator) crawlSeed(ctx context.Context, keyword, seed string, seenDomains map[string]struct{}) (lead Lead, outcome seedOutcome) {
	defer func() {
		if r := recover(); r != nil {
			err := &SeedError{Seed: seed, Err: fmt.Errorf("panic: %v", r)}
			o.logger.Error("seed failed", "keyword", keyword, "seed", seed, "err", err)
			outcome = seedFailed
		}
	}()

	root, err := DomainRoot(seed)
	if err != nil {
		o.logger.Warn("seed failed", "keyword", keyword, "err", &SeedError{Seed: seed, Err: err})
		return Lead{}, seedFailed
	}
	host := Hostname(root)
	if _, ok := seenDomains[host]; ok {
		o.logger.Info("duplicate skip", "keyword", keyword, "seed", seed, "domain", host)
		return Lead{}, seedSkipped
	}

	o.logger.Info("seed start", "keyword", keyword, "seed", seed, "root", root)
	res := o.crawler.Crawl(ctx, root)
	if res.State != StateFound || res.Lead == nil {
		o.logger.Info("seed miss", "keyword", keyword, "root", root, "state", res.State, "visits", res.Visits, "err", res.Err)
		return Lead{}, seedMissed
	}
	seenDomains[host] = struct{}{}
	return Lead{CandidateLead: *res.Lead, Keyword: keyword, Domain: root}, seedFound
}

// finish validates and persists a successful attempt's leads.
func (o *CrawlOrchestrator) finish(ctx context.Context, report *KeywordReport) {
	if o.validator != nil {
		var g errgroup.Group
		g.SetLimit(validationWorkers)
		for i := range report.Leads {
			lead := &report.Leads[i]
			g.Go(func() error {
				o.validate(ctx, lead)
				return nil
			})
		}
		g.Wait()
	}
	if o.persistence != nil && len(report.Leads) > 0 {
		stored, err := o.persist(context.WithoutCancel(ctx), report.Keyword, report.Leads)
		if err != nil {
			o.logger.Error("persist leads", "keyword", report.Keyword, "err", err)
		}
		report.Stored = stored
	}
	o.logger.Info("keyword done", "keyword", report.Keyword, "leads", len(report.Leads),
		"seeds", report.Seeds, "skipped", report.Skipped, "misses", report.Misses, "attempts", report.Attempts)
}

// validate runs the validator on lead. A panic leaves the lead unvalidated.
func (o *CrawlOrchestrator) validate(ctx context.Context, lead *Lead) {
	defer func() {
		if r := recover(); r != nil {
			lead.Validation = nil
			o.logger.Error("validation failed", "url", lead.SourceURL, "err", fmt.Errorf("panic: %v", r))
		}
	}()
	o.validator.Validate(ctx, lead)
}

func (o *CrawlOrchestrator) persist(ctx context.Context, keyword string, leads []Lead) (stored int, err error) {
	defer func() {
		if r := recover(); r != nil {
			stored, err = 0, fmt.Errorf("panic: %v", r)
		}
	}()
	return o.persistence.StoreLeads(ctx, keyword, leads)
}

// validationWorkers bounds the concurrent Validate calls of one keyword
const validationWorkers = 4

// dedupeByEmail keeps the first lead for each email. Leads without an email
// are always kept.
func dedupeByEmail(leads []Lead) ([]Lead, int) {
	seenEmails := make(map[string]struct{})
	kept := make([]Lead, 0, len(leads))
	dropped := 0
	for _, l := range leads {
		email := strings.ToLower(l.EmailAddress())
		if email == "" {
			kept = append(kept, l)
			continue
		}
		if _, ok := seenEmails[email]; ok {
			dropped++
			continue
		}
		seenEmails[email] = struct{}{}
		kept = append(kept, l)
	}
	return kept, dropped
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

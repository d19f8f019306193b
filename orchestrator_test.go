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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCrawler struct {
	results map[string]CrawlResult
	calls   []string
	panicOn string
}

func (c *fakeCrawler) Crawl(_ context.Context, seed string) CrawlResult {
	c.calls = append(c.calls, seed)
	if seed == c.panicOn {
		panic("boom")
	}
	if r, ok := c.results[seed]; ok {
		return r
	}
	return CrawlResult{State: StateExhausted}
}

func found(url, email string) CrawlResult {
	title := "Title of " + url
	lead := CandidateLead{Title: &title, SourceURL: url}
	if email != "" {
		lead.Email = &email
	}
	return CrawlResult{State: StateFound, Lead: &lead, Visits: 1}
}

type flakySeeds struct {
	failures int
	calls    int
	seeds    []string
}

func (s *flakySeeds) Seeds(context.Context, string, int) ([]string, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("search engine blocked us")
	}
	return s.seeds, nil
}

type memoryPersistence struct {
	stored []Lead
	err    error
}

func (p *memoryPersistence) StoreLeads(_ context.Context, _ string, leads []Lead) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.stored = append(p.stored, leads...)
	return len(leads), nil
}

type markValidator struct{}

func (markValidator) Validate(_ context.Context, l *Lead) {
	ok := l.Email != nil
	l.Validation = &Validation{EmailValid: ok, Valid: ok}
}

func newTestOrchestrator(c SeedCrawler, seeds SeedProvider, options ...OrchestratorOption) *CrawlOrchestrator {
	base := []OrchestratorOption{WithOrchestratorLogger(discardLogger())}
	return NewCrawlOrchestrator(c, seeds, append(base, options...)...)
}

func TestProcessKeywordDomainShortCircuit(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "hi@a.example"),
	}}
	seeds := staticSeeds{"shoes": {
		"https://a.example/products/1",
		"https://a.example/products/2",
		"https://www.b.example/",
		"https://a.example/",
	}}
	o := newTestOrchestrator(c, seeds)

	report := o.ProcessKeywordReport(context.Background(), "shoes")
	assert.Equal(t, []string{"https://a.example", "https://www.b.example"}, c.calls)
	require.Len(t, report.Leads, 1)
	assert.Equal(t, "hi@a.example", *report.Leads[0].Email)
	assert.Equal(t, "shoes", report.Leads[0].Keyword)
	assert.Equal(t, "https://a.example", report.Leads[0].Domain)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, report.Misses)
	assert.Equal(t, 2, report.Crawled)
	assert.Equal(t, 4, report.Seeds)
}

func TestProcessKeywordMissDoesNotShortCircuit(t *testing.T) {
	c := &fakeCrawler{}
	seeds := staticSeeds{"shoes": {"https://a.example/x", "https://a.example/y"}}
	o := newTestOrchestrator(c, seeds)

	assert.Empty(t, o.ProcessKeyword(context.Background(), "shoes"))
	assert.Len(t, c.calls, 2)
}

func TestProcessKeywordEmailDedup(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "sales@group.example"),
		"https://b.example": found("https://b.example/contact", "SALES@group.example"),
		"https://c.example": found("https://c.example/about", ""),
		"https://d.example": found("https://d.example/about", ""),
		"https://e.example": found("https://e.example/contact", "e@e.example"),
	}}
	seeds := staticSeeds{"kw": {
		"https://a.example", "https://b.example", "https://c.example",
		"https://d.example", "https://e.example",
	}}
	o := newTestOrchestrator(c, seeds)

	report := o.ProcessKeywordReport(context.Background(), "kw")
	var domains []string
	for _, l := range report.Leads {
		domains = append(domains, l.Domain)
	}
	assert.Equal(t, []string{"https://a.example", "https://c.example", "https://d.example", "https://e.example"}, domains)
	assert.Equal(t, 1, report.Duplicates)
}

func TestProcessKeywordSeedFailureIsolated(t *testing.T) {
	c := &fakeCrawler{
		panicOn: "https://bad.example",
		results: map[string]CrawlResult{
			"https://good.example": found("https://good.example/contact", "hi@good.example"),
		},
	}
	seeds := staticSeeds{"kw": {"::::", "https://bad.example", "https://good.example"}}
	o := newTestOrchestrator(c, seeds)

	report := o.ProcessKeywordReport(context.Background(), "kw")
	require.Len(t, report.Leads, 1)
	assert.Equal(t, "https://good.example", report.Leads[0].Domain)
	assert.Equal(t, 2, report.Misses)
	assert.Equal(t, 1, report.Attempts)
	assert.NoError(t, report.Err)
}

func TestProcessKeywordRetriesFromScratch(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "hi@a.example"),
	}}
	seeds := &flakySeeds{failures: 2, seeds: []string{"https://a.example"}}
	o := newTestOrchestrator(c, seeds, WithRetryPolicy(RetryPolicy{MaxRetries: 2}))

	report := o.ProcessKeywordReport(context.Background(), "kw")
	assert.Equal(t, 3, seeds.calls)
	assert.Equal(t, 3, report.Attempts)
	assert.Len(t, report.Leads, 1)
}

func TestProcessKeywordAbandoned(t *testing.T) {
	c := &fakeCrawler{}
	seeds := &flakySeeds{failures: 10, seeds: []string{"https://a.example"}}
	o := newTestOrchestrator(c, seeds, WithRetryPolicy(RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond}))

	report := o.ProcessKeywordReport(context.Background(), "kw")
	assert.Empty(t, report.Leads)
	assert.Equal(t, 3, seeds.calls)
	assert.Equal(t, 3, report.Attempts)
	assert.ErrorIs(t, report.Err, ErrKeywordAbandoned)
	var kwErr *KeywordError
	require.ErrorAs(t, report.Err, &kwErr)
	assert.Equal(t, 3, kwErr.Attempt)
	assert.Empty(t, c.calls)
}

type panickySeeds struct{ calls int }

func (s *panickySeeds) Seeds(context.Context, string, int) ([]string, error) {
	s.calls++
	panic("nil map")
}

func TestProcessKeywordRecoversPanics(t *testing.T) {
	seeds := &panickySeeds{}
	o := newTestOrchestrator(&fakeCrawler{}, seeds, WithRetryPolicy(RetryPolicy{MaxRetries: 1}))

	var leads []Lead
	assert.NotPanics(t, func() {
		leads = o.ProcessKeyword(context.Background(), "kw")
	})
	assert.Empty(t, leads)
	assert.Equal(t, 2, seeds.calls)
}

func TestProcessKeywordNoSeeds(t *testing.T) {
	c := &fakeCrawler{}
	o := newTestOrchestrator(c, staticSeeds{})

	report := o.ProcessKeywordReport(context.Background(), "nothing")
	assert.Empty(t, report.Leads)
	assert.ErrorIs(t, report.Err, ErrNoSeeds)
	assert.Equal(t, 1, report.Attempts)
	assert.Empty(t, c.calls)
}

func TestProcessKeywordMaxSeeds(t *testing.T) {
	c := &fakeCrawler{}
	seeds := staticSeeds{"kw": {"https://a.example", "https://b.example", "https://c.example"}}
	o := newTestOrchestrator(c, seeds, WithMaxSeeds(2))

	o.ProcessKeyword(context.Background(), "kw")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.calls)
}

func TestProcessKeywordPersistsAndValidates(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "hi@a.example"),
	}}
	store := &memoryPersistence{}
	o := newTestOrchestrator(c, staticSeeds{"kw": {"https://a.example"}},
		WithPersistence(store), WithValidator(markValidator{}))

	report := o.ProcessKeywordReport(context.Background(), "kw")
	require.Len(t, report.Leads, 1)
	require.NotNil(t, report.Leads[0].Validation)
	assert.True(t, report.Leads[0].Validation.Valid)
	assert.Equal(t, 1, report.Stored)
	require.Len(t, store.stored, 1)
	assert.NotNil(t, store.stored[0].Validation)
}

type slowValidator struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (v *slowValidator) Validate(_ context.Context, l *Lead) {
	n := v.inFlight.Add(1)
	for {
		p := v.peak.Load()
		if n <= p || v.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	v.inFlight.Add(-1)
	l.Validation = &Validation{Valid: true}
}

func TestProcessKeywordValidationIsBounded(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{}}
	var seedList []string
	for i := 0; i < 10; i++ {
		seed := fmt.Sprintf("https://s%d.example", i)
		seedList = append(seedList, seed)
		c.results[seed] = found(seed+"/contact", fmt.Sprintf("hi@s%d.example", i))
	}
	v := &slowValidator{}
	o := newTestOrchestrator(c, staticSeeds{"kw": seedList}, WithMaxSeeds(10), WithValidator(v))

	report := o.ProcessKeywordReport(context.Background(), "kw")
	require.Len(t, report.Leads, 10)
	for _, l := range report.Leads {
		require.NotNil(t, l.Validation)
	}
	assert.LessOrEqual(t, v.peak.Load(), int32(validationWorkers))
	assert.Greater(t, v.peak.Load(), int32(1))
}

type panickyValidator struct{}

func (panickyValidator) Validate(_ context.Context, l *Lead) {
	if l.EmailAddress() == "bad@b.example" {
		panic("resolver exploded")
	}
	l.Validation = &Validation{EmailValid: true, Valid: true}
}

type panickyPersistence struct{}

func (panickyPersistence) StoreLeads(context.Context, string, []Lead) (int, error) {
	panic("driver bug")
}

func TestProcessKeywordRecoversValidatorAndStorePanics(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "hi@a.example"),
		"https://b.example": found("https://b.example/contact", "bad@b.example"),
	}}
	o := newTestOrchestrator(c, staticSeeds{"kw": {"https://a.example", "https://b.example"}},
		WithValidator(panickyValidator{}), WithPersistence(panickyPersistence{}))

	var report KeywordReport
	assert.NotPanics(t, func() {
		report = o.ProcessKeywordReport(context.Background(), "kw")
	})
	require.Len(t, report.Leads, 2)
	require.NotNil(t, report.Leads[0].Validation)
	assert.True(t, report.Leads[0].Validation.Valid)
	assert.Nil(t, report.Leads[1].Validation)
	assert.Zero(t, report.Stored)
	assert.NoError(t, report.Err)
}

func TestProcessKeywordPersistenceFailureIsNotFatal(t *testing.T) {
	c := &fakeCrawler{results: map[string]CrawlResult{
		"https://a.example": found("https://a.example/contact", "hi@a.example"),
	}}
	store := &memoryPersistence{err: errors.New("disk full")}
	o := newTestOrchestrator(c, staticSeeds{"kw": {"https://a.example"}}, WithPersistence(store))

	report := o.ProcessKeywordReport(context.Background(), "kw")
	assert.Len(t, report.Leads, 1)
	assert.Zero(t, report.Stored)
	assert.Equal(t, 1, report.Attempts)
}

func TestProcessKeywordEndToEnd(t *testing.T) {
	mock := NewMockTransport()
	registerBizSite(mock)
	mock.RegisterHTML("https://other.example", `<title>Other</title><a href="/about-us">About us</a>`)
	mock.RegisterHTML("https://other.example/about-us", `<title>About Other</title>
		<p>Reach us: sales@biz.example or noreply@other.example</p>`)

	f := newTestFetcher(mock)
	c := newTestCrawler(f, Budgets{MaxVisits: 3, MaxDepth: 2})
	seeds := staticSeeds{"gifts": {
		"https://shop.biz.example/sale",
		"https://shop.biz.example/",
		"https://other.example/products",
	}}
	o := newTestOrchestrator(c, seeds)

	leads := o.ProcessKeyword(context.Background(), "gifts")
	require.Len(t, leads, 1)
	assert.Equal(t, testSite+"/contact", leads[0].SourceURL)
	assert.Equal(t, 1, mock.Hits(testSite))
	assert.Zero(t, mock.Hits(testSite+"/sale"))
	// other.example was crawled but its lead shares an email and is dropped
	assert.Equal(t, 1, mock.Hits("https://other.example/about-us"))
}

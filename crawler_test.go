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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrawlScenarioContactFirst(t *testing.T) {
	mock := NewMockTransport()
	registerBizSite(mock)

	var trace []NodeVisit
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2},
		WithOnNodeVisit(func(v NodeVisit) { trace = append(trace, v) }))

	res := c.Crawl(context.Background(), "https://shop.biz.example/")
	assert.Equal(t, StateFound, res.State)
	require.NotNil(t, res.Lead)
	assert.Equal(t, "sales@biz.example", *res.Lead.Email)
	assert.Equal(t, "Biz - Contact", *res.Lead.Title)
	assert.Equal(t, testSite+"/contact", res.Lead.SourceURL)
	assert.Equal(t, 2, res.Visits)
	assert.Equal(t, 1, res.Expanded)

	require.Len(t, trace, 2)
	assert.Equal(t, testSite, trace[0].URL)
	assert.Equal(t, 0, trace[0].G)
	assert.Nil(t, trace[0].Lead.Email)
	assert.Equal(t, testSite+"/contact", trace[1].URL)
	assert.Equal(t, 1, trace[1].G)
	assert.Equal(t, 1+CostContact, trace[1].F)

	assert.Zero(t, mock.Hits(testSite+"/sale"))
}

func TestCrawlStartsAtDomainRoot(t *testing.T) {
	mock := NewMockTransport()
	registerBizSite(mock)
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2})

	res := c.Crawl(context.Background(), testSite+"/sale?ref=ad")
	assert.Equal(t, StateFound, res.State)
	assert.Equal(t, testSite+"/contact", res.Lead.SourceURL)
	assert.Equal(t, []string{testSite, testSite + "/contact"}, mock.Requested())
}

func TestCrawlFoundOnRoot(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite, `<title>Biz</title><p>hello@biz.example</p><a href="/contact">Contact</a>`)
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2})

	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateFound, res.State)
	assert.Equal(t, 1, res.Visits)
	assert.Zero(t, res.Expanded)
	assert.Zero(t, mock.Hits(testSite+"/contact"))
}

// registerChain serves a site where page i links only to page i+1 and only
// the last page carries an email.
func registerChain(mock *MockTransport, n int) {
	for i := 0; i < n; i++ {
		url := testSite
		if i > 0 {
			url = fmt.Sprintf("%s/p%d", testSite, i)
		}
		body := fmt.Sprintf(`<title>Page %d</title><a href="/p%d">next</a>`, i, i+1)
		if i == n-1 {
			body = fmt.Sprintf(`<title>Page %d</title><p>found@biz.example</p>`, i)
		}
		mock.RegisterHTML(url, body)
	}
}

func TestCrawlVisitBudget(t *testing.T) {
	mock := NewMockTransport()
	registerChain(mock, 6)

	visits := 0
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 10},
		WithOnNodeVisit(func(NodeVisit) { visits++ }))

	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateBudgetExceeded, res.State)
	assert.Nil(t, res.Lead)
	assert.Equal(t, 3, visits)
	assert.Equal(t, 3, res.Visits)
	assert.Zero(t, mock.Hits(testSite+"/p3"))
}

func TestCrawlDepthBudget(t *testing.T) {
	mock := NewMockTransport()
	registerChain(mock, 4)

	var extracted []int
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 10, MaxDepth: 2},
		WithOnNodeVisit(func(v NodeVisit) { extracted = append(extracted, v.G) }))

	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateExhausted, res.State)
	assert.Nil(t, res.Lead)
	assert.Equal(t, []int{0, 1}, extracted)
	for _, g := range extracted {
		assert.Less(t, g, 2)
	}
	// /p2 is popped and discarded without a fetch and without using a visit
	assert.Equal(t, 1, res.DepthSkips)
	assert.Equal(t, 2, res.Visits)
	assert.Zero(t, mock.Hits(testSite+"/p2"))
}

func TestCrawlDepthSkipsAreFree(t *testing.T) {
	const site = "https://acme.example"
	mock := NewMockTransport()
	// the depth-2 pages sort ahead of the expensive /c-blog, so they are
	// popped and skipped before the lead is reached
	mock.RegisterHTML(site, `<title>Root</title>
		<a href="/a">A</a><a href="/b">B</a><a href="/c-blog">Blog</a>`)
	mock.RegisterHTML(site+"/a", `<title>A</title><a href="/a2">A2</a>`)
	mock.RegisterHTML(site+"/b", `<title>B</title><a href="/b2">B2</a>`)
	mock.RegisterHTML(site+"/c-blog", `<title>C</title><p>c@acme.example</p>`)

	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 4, MaxDepth: 2})
	res := c.Crawl(context.Background(), site)
	assert.Equal(t, StateFound, res.State)
	assert.Equal(t, 4, res.Visits)
	assert.Equal(t, 2, res.DepthSkips)
	assert.Zero(t, mock.Hits(site+"/a2"))
	assert.Zero(t, mock.Hits(site+"/b2"))
}

func TestCrawlExhausted(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite, `<title>Biz</title><a href="/about">About</a><a href="https://other.example/">x</a>`)
	mock.RegisterHTML(testSite+"/about", `<title>About</title><a href="/">Home</a>`)

	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 10, MaxDepth: 5})
	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateExhausted, res.State)
	assert.Nil(t, res.Lead)
	assert.Equal(t, 2, res.Visits)
	assert.NoError(t, res.Err)
}

func TestCrawlFetchErrorDegrades(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite, `<title>Biz</title><a href="/contact">Contact</a><a href="/team">Team</a>`)
	mock.RegisterStatus(testSite+"/contact", 503)
	mock.RegisterHTML(testSite+"/team", `<title>Team Biz</title><p>hi@biz.example</p>`)

	var errs int
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2},
		WithOnNodeVisit(func(v NodeVisit) {
			if v.Err != nil {
				errs++
			}
		}))
	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateFound, res.State)
	assert.Equal(t, "hi@biz.example", *res.Lead.Email)
	assert.Equal(t, 1, errs)
	// the failed node is not re-fetched for link discovery
	assert.Equal(t, 1, mock.Hits(testSite+"/contact"))
}

func TestCrawlSocialHandleAloneIsNotALead(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite, `<title>Biz</title><a href="https://instagram.com/bizshop">IG</a>`)

	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2})
	res := c.Crawl(context.Background(), testSite)
	assert.Equal(t, StateExhausted, res.State)
	assert.Nil(t, res.Lead)
}

func TestCrawlInvalidSeed(t *testing.T) {
	c := newTestCrawler(newTestFetcher(NewMockTransport()), Budgets{MaxVisits: 3, MaxDepth: 2})
	res := c.Crawl(context.Background(), "::not a url")
	assert.Equal(t, StateExhausted, res.State)
	var seedErr *SeedError
	assert.ErrorAs(t, res.Err, &seedErr)
	assert.ErrorIs(t, res.Err, ErrInvalidURL)
}

func TestCrawlContextCancelled(t *testing.T) {
	mock := NewMockTransport()
	registerBizSite(mock)
	c := newTestCrawler(newTestFetcher(mock), Budgets{MaxVisits: 3, MaxDepth: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := c.Crawl(ctx, testSite)
	assert.Equal(t, StateExhausted, res.State)
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Empty(t, mock.Requested())
}

func TestCrawlStateString(t *testing.T) {
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "searching", StateSearching.String())
	assert.Equal(t, "found", StateFound.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "budget_exceeded", StateBudgetExceeded.String())
	assert.True(t, StateFound.Terminal())
	assert.False(t, StateSearching.Terminal())
}

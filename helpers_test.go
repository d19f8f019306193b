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
	"net/http"
	"time"
)

const testSite = "https://shop.biz.example"

// newTestFetcher returns a fetcher on mock with no throttle and a silent
// logger.
func newTestFetcher(mock http.RoundTripper, options ...FetcherOption) *PageFetcher {
	base := []FetcherOption{
		WithHTTPClient(&http.Client{Transport: mock}),
		WithFetchLogger(discardLogger()),
	}
	return NewPageFetcher(append(base, options...)...)
}

func newTestCrawler(f Fetcher, budgets Budgets, options ...CrawlerOption) *PriorityCrawler {
	base := []CrawlerOption{
		WithBudgets(budgets),
		WithCrawlLogger(discardLogger()),
		WithClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }),
	}
	c, err := NewPriorityCrawler(f, append(base, options...)...)
	if err != nil {
		panic(err)
	}
	return c
}

// registerBizSite serves the shop.biz.example scenario: a homepage without
// an email linking to /contact and /sale.
func registerBizSite(mock *MockTransport) {
	mock.RegisterHTML(testSite, `<html><head><title>Biz</title></head><body>
		<h1>Welcome to Biz</h1>
		<a href="/contact">Contact Us</a>
		<a href="/sale">Summer Sale</a>
	</body></html>`)
	mock.RegisterHTML(testSite+"/contact", `<html><head><title>Biz - Contact</title></head><body>
		<p>Write to sales@biz.example</p>
		<a href="https://www.instagram.com/bizshop/">Instagram</a>
	</body></html>`)
	mock.RegisterHTML(testSite+"/sale", `<html><head><title>Sale</title></head><body>
		<p>deals@biz.example</p>
	</body></html>`)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type staticSeeds map[string][]string

func (s staticSeeds) Seeds(_ context.Context, keyword string, max int) ([]string, error) {
	seeds := s[keyword]
	if max > 0 && len(seeds) > max {
		seeds = seeds[:max]
	}
	return seeds, nil
}

type fakeRenderer struct {
	html   string
	status int
	calls  int
}

func (r *fakeRenderer) Render(_ context.Context, _ string) (string, int, error) {
	r.calls++
	return r.html, r.status, nil
}

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

package seeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/antchfx/htmlquery"
	"github.com/charmbracelet/log"
)

// DefaultDuckDuckGoURL is the JavaScript-free results endpoint
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

const resultLinkXPath = `//a[contains(@class,'result__a')]`

// DuckDuckGo fetches seeds from the HTML results page of DuckDuckGo.
type DuckDuckGo struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
	Logger    *log.Logger
}

// NewDuckDuckGo creates a provider with a 10s client and the first default identity.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		Client:    &http.Client{Timeout: 10 * time.Second},
		BaseURL:   DefaultDuckDuckGoURL,
		UserAgent: leadsnake.DefaultIdentities[0].UserAgent,
		Logger:    log.Default(),
	}
}

// Seeds implements leadsnake.SeedProvider.
func (d *DuckDuckGo) Seeds(ctx context.Context, keyword string, max int) ([]string, error) {
	endpoint := d.BaseURL + "?" + url.Values{"q": {keyword}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: unexpected status %d", keyword, resp.StatusCode)
	}

	doc, err := htmlquery.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	nodes, err := htmlquery.QueryAll(doc, resultLinkXPath)
	if err != nil {
		return nil, err
	}
	c := newCollector(max)
	for _, n := range nodes {
		c.add(htmlquery.SelectAttr(n, "href"))
	}
	if d.Logger != nil {
		d.Logger.Info("seed search", "keyword", keyword, "results", len(nodes), "seeds", len(c.urls))
	}
	return c.urls, nil
}

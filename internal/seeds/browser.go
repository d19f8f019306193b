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
	"net/url"
	"strings"

	"github.com/agentberlin/leadsnake"
	"github.com/antchfx/htmlquery"
	"github.com/charmbracelet/log"
)

// DefaultBrowserSearchURL is the interactive DuckDuckGo search page
const DefaultBrowserSearchURL = "https://duckduckgo.com/"

// Browser renders the interactive search page in headless Chrome and keeps
// every external link on it. It is slower than DuckDuckGo but sees results
// that only appear after scripts run.
type Browser struct {
	Renderer  leadsnake.Renderer
	SearchURL string
	Logger    *log.Logger
}

// NewBrowser creates a provider rendering through r.
func NewBrowser(r leadsnake.Renderer) *Browser {
	return &Browser{Renderer: r, SearchURL: DefaultBrowserSearchURL, Logger: log.Default()}
}

// Seeds implements leadsnake.SeedProvider.
func (b *Browser) Seeds(ctx context.Context, keyword string, max int) ([]string, error) {
	target := b.SearchURL + "?" + url.Values{"q": {keyword}}.Encode()
	body, status, err := b.Renderer.Render(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("render search %q: %w", keyword, err)
	}
	if status >= 400 {
		return nil, fmt.Errorf("render search %q: unexpected status %d", keyword, status)
	}

	doc, err := htmlquery.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("render search %q: %w", keyword, err)
	}
	c := newCollector(max)
	for _, n := range htmlquery.Find(doc, `//a[starts-with(@href,'http') or contains(@href,'uddg=')]`) {
		c.add(htmlquery.SelectAttr(n, "href"))
	}
	if b.Logger != nil {
		b.Logger.Info("seed search", "keyword", keyword, "mode", "browser", "seeds", len(c.urls))
	}
	return c.urls, nil
}

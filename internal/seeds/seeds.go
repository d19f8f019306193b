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

// Package seeds turns a keyword into the seed URLs a crawl starts from.
package seeds

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/agentberlin/leadsnake"
)

// searchHost is filtered out of every result list
const searchHost = "duckduckgo.com"

// collector accumulates result links in first-seen order up to max,
// keeping one link per registrable domain.
type collector struct {
	max  int
	seen map[string]bool
	urls []string
}

func newCollector(max int) *collector {
	return &collector{max: max, seen: make(map[string]bool)}
}

func (c *collector) full() bool {
	return c.max > 0 && len(c.urls) >= c.max
}

// add decodes a search-engine redirect and keeps href if it is an external
// http(s) link whose registrable domain was not seen before.
func (c *collector) add(href string) {
	if c.full() {
		return
	}
	href = unwrapRedirect(strings.TrimSpace(href))
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return
	}
	host := leadsnake.Hostname(href)
	if host == "" || host == searchHost || strings.HasSuffix(host, "."+searchHost) {
		return
	}
	key := registrableDomain(host)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.urls = append(c.urls, href)
}

// registrableDomain maps www.shop.example.co.uk to example.co.uk. IP
// addresses and hosts without a public suffix map to themselves.
func registrableDomain(host string) string {
	if net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// unwrapRedirect returns the uddg target of a DuckDuckGo redirect link, or
// href unchanged.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

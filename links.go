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
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
)

// LinkEdge is an accepted outbound link of a page. Target is normalized and
// always on the same host as the page it was found on.
type LinkEdge struct {
	Source     string
	Target     string
	AnchorText string
}

// DefaultBlacklist lists host patterns of social networks, marketplaces and
// reference sites that never yield a business lead.
var DefaultBlacklist = []string{
	"facebook.com", "*.facebook.com",
	"instagram.com", "*.instagram.com",
	"twitter.com", "*.twitter.com",
	"x.com", "*.x.com",
	"tiktok.com", "*.tiktok.com",
	"linkedin.com", "*.linkedin.com",
	"pinterest.*", "*.pinterest.*",
	"youtube.com", "*.youtube.com",
	"amazon.*", "*.amazon.*",
	"ebay.*", "*.ebay.*",
	"etsy.com", "*.etsy.com",
	"wikipedia.org", "*.wikipedia.org",
	"google.*", "*.google.*",
	"yelp.*", "*.yelp.*",
	"reddit.com", "*.reddit.com",
}

// staticAssetExtensions are path suffixes that never hold a contact page.
var staticAssetExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".ico": true, ".bmp": true, ".css": true, ".js": true,
	".mjs": true, ".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".pdf": true, ".zip": true, ".mp4": true, ".mp3": true,
}

// LinkGraphBuilder discovers the same-host neighbours of a page.
type LinkGraphBuilder struct {
	fetcher   Fetcher
	blacklist []glob.Glob
	logger    *log.Logger
}

// NewLinkGraphBuilder compiles the blacklist patterns. A nil blacklist
// means DefaultBlacklist.
func NewLinkGraphBuilder(fetcher Fetcher, blacklist []string, logger *log.Logger) (*LinkGraphBuilder, error) {
	if blacklist == nil {
		blacklist = DefaultBlacklist
	}
	b := &LinkGraphBuilder{fetcher: fetcher, logger: loggerOrDefault(logger)}
	for _, pattern := range blacklist {
		g, err := glob.Compile(strings.ToLower(pattern))
		if err != nil {
			return nil, err
		}
		b.blacklist = append(b.blacklist, g)
	}
	return b, nil
}

// IsBlacklisted reports whether host matches a blacklist pattern.
func (b *LinkGraphBuilder) IsBlacklisted(host string) bool {
	host = strings.ToLower(host)
	for _, g := range b.blacklist {
		if g.Match(host) {
			return true
		}
	}
	return false
}

// AcceptLink reports whether target passes every link filter for a crawl
// of seedHost: host not blacklisted, host equal to seedHost, http(s) scheme
// and no static-asset extension.
func (b *LinkGraphBuilder) AcceptLink(seedHost, target string) bool {
	u, err := parseURL(target)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if b.IsBlacklisted(host) {
		return false
	}
	if host != strings.ToLower(seedHost) {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return !staticAssetExtensions[strings.ToLower(path.Ext(u.Path))]
}

// DiscoverNeighbors fetches pageURL (through the cache) and returns its
// accepted links in document order. Duplicates are kept. A fetch failure
// yields no links.
func (b *LinkGraphBuilder) DiscoverNeighbors(ctx context.Context, pageURL string) []LinkEdge {
	page, err := b.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		b.logger.Debug("no neighbours", "url", pageURL, "err", err)
		return nil
	}
	doc, err := parseDocument(page.Body)
	if err != nil {
		return nil
	}
	return b.edgesFromDocument(page, doc)
}

// wwwVariant reports whether a and b name the same site and differ only by a
// leading "www." label.
func wwwVariant(a, b string) bool {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "" || b == "" || a == b {
		return false
	}
	return strings.TrimPrefix(a, "www.") == strings.TrimPrefix(b, "www.")
}

func (b *LinkGraphBuilder) edgesFromDocument(page *Page, doc *goquery.Document) []LinkEdge {
	source := page.URL
	seedHost := Hostname(source)
	if final := Hostname(page.FinalURL); wwwVariant(seedHost, final) {
		seedHost = final
	}

	base := page.FinalURL
	if base == "" {
		base = source
	}
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved := resolveReference(base, strings.TrimSpace(href)); resolved != "" {
			base = resolved
		}
	}

	var edges []LinkEdge
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		abs := resolveReference(base, href)
		if abs == "" || !b.AcceptLink(seedHost, abs) {
			return
		}
		target, err := NormalizeURL(abs)
		if err != nil {
			return
		}
		edges = append(edges, LinkEdge{
			Source:     source,
			Target:     target,
			AnchorText: anchorText(s),
		})
	})
	return edges
}

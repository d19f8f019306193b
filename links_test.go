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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLinkBuilder(t *testing.T, f Fetcher) *LinkGraphBuilder {
	t.Helper()
	b, err := NewLinkGraphBuilder(f, nil, discardLogger())
	require.NoError(t, err)
	return b
}

func TestAcceptLink(t *testing.T) {
	b := newTestLinkBuilder(t, nil)
	seed := "shop.biz.example"

	tests := []struct {
		name   string
		host   string
		target string
		want   bool
	}{
		{"same host page", seed, "https://shop.biz.example/contact", true},
		{"same host http", seed, "http://shop.biz.example/about", true},
		{"html extension", seed, "https://shop.biz.example/about.html", true},
		{"host case", seed, "https://SHOP.biz.example/team", true},
		{"cross domain", seed, "https://other.example/contact", false},
		{"subdomain is another host", seed, "https://blog.shop.biz.example/", false},
		{"blacklisted host", "www.facebook.com", "https://www.facebook.com/bizshop", false},
		{"blacklisted marketplace", "www.amazon.co.uk", "https://www.amazon.co.uk/shops/biz", false},
		{"ftp scheme", seed, "ftp://shop.biz.example/catalog", false},
		{"mailto", seed, "mailto:sales@biz.example", false},
		{"javascript", seed, "javascript:void(0)", false},
		{"image", seed, "https://shop.biz.example/img/logo.PNG", false},
		{"stylesheet", seed, "https://shop.biz.example/site.css", false},
		{"script", seed, "https://shop.biz.example/app.js", false},
		{"pdf", seed, "https://shop.biz.example/catalog.pdf", false},
		{"cross domain asset", seed, "https://cdn.other.example/logo.png", false},
		{"blacklisted and cross domain", seed, "https://twitter.com/biz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.AcceptLink(tt.host, tt.target))
		})
	}
}

func TestIsBlacklisted(t *testing.T) {
	b := newTestLinkBuilder(t, nil)
	assert.True(t, b.IsBlacklisted("facebook.com"))
	assert.True(t, b.IsBlacklisted("m.facebook.com"))
	assert.True(t, b.IsBlacklisted("en.wikipedia.org"))
	assert.True(t, b.IsBlacklisted("amazon.de"))
	assert.False(t, b.IsBlacklisted("fox.com"))
	assert.False(t, b.IsBlacklisted("shop.biz.example"))
}

func TestCustomBlacklist(t *testing.T) {
	b, err := NewLinkGraphBuilder(nil, []string{"*.biz.example"}, discardLogger())
	require.NoError(t, err)
	assert.False(t, b.AcceptLink("shop.biz.example", "https://shop.biz.example/contact"))
	assert.True(t, b.AcceptLink("facebook.com", "https://facebook.com/contact"))
}

func TestDiscoverNeighbors(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite, `<html><body>
		<a href="/contact">Contact
			Us</a>
		<a href="/sale?utm_source=x#deals">Summer Sale</a>
		<a href="https://shop.biz.example/contact/">Contact again</a>
		<a href="https://other.example/contact">Other shop</a>
		<a href="https://www.instagram.com/bizshop">Instagram</a>
		<a href="mailto:sales@biz.example">Mail us</a>
		<a href="/img/banner.jpg">Banner</a>
		<a href="#top">Top</a>
		<a href="javascript:void(0)">Menu</a>
		<a href="">Empty</a>
	</body></html>`)

	b := newTestLinkBuilder(t, newTestFetcher(mock))
	edges := b.DiscoverNeighbors(context.Background(), testSite+"/")

	assert.Equal(t, []LinkEdge{
		{Source: testSite, Target: testSite + "/contact", AnchorText: "Contact Us"},
		{Source: testSite, Target: testSite + "/sale", AnchorText: "Summer Sale"},
		{Source: testSite, Target: testSite + "/contact", AnchorText: "Contact again"},
	}, edges)
	for _, e := range edges {
		assert.Equal(t, Hostname(testSite), Hostname(e.Target))
	}
}

func TestEdgesFollowWWWRedirect(t *testing.T) {
	b := newTestLinkBuilder(t, nil)
	html := `<a href="https://www.kiln.example/contact">Contact</a>
		<a href="about">About</a>
		<a href="https://kiln.example/shop">Shop</a>
		<a href="https://evil.example/contact">Elsewhere</a>`
	doc, err := parseDocument([]byte(html))
	require.NoError(t, err)

	edges := b.edgesFromDocument(&Page{URL: "https://kiln.example", FinalURL: "https://www.kiln.example/"}, doc)
	assert.Equal(t, []LinkEdge{
		{Source: "https://kiln.example", Target: "https://www.kiln.example/contact", AnchorText: "Contact"},
		{Source: "https://kiln.example", Target: "https://www.kiln.example/about", AnchorText: "About"},
	}, edges)

	edges = b.edgesFromDocument(&Page{URL: "https://kiln.example", FinalURL: "https://evil.example/"}, doc)
	assert.Equal(t, []LinkEdge{
		{Source: "https://kiln.example", Target: "https://kiln.example/shop", AnchorText: "Shop"},
	}, edges)
}

func TestWWWVariant(t *testing.T) {
	assert.True(t, wwwVariant("kiln.example", "www.kiln.example"))
	assert.True(t, wwwVariant("WWW.kiln.example", "kiln.example"))
	assert.False(t, wwwVariant("kiln.example", "kiln.example"))
	assert.False(t, wwwVariant("kiln.example", "shop.kiln.example"))
	assert.False(t, wwwVariant("kiln.example", ""))
}

func TestDiscoverNeighborsBaseHref(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterHTML(testSite+"/shop/index.html", `<html><head>
		<base href="/pages/">
	</head><body><a href="about-us">About</a></body></html>`)

	b := newTestLinkBuilder(t, newTestFetcher(mock))
	edges := b.DiscoverNeighbors(context.Background(), testSite+"/shop/index.html")
	require.Len(t, edges, 1)
	assert.Equal(t, testSite+"/pages/about-us", edges[0].Target)
	assert.Equal(t, "About", edges[0].AnchorText)
}

func TestDiscoverNeighborsFetchFailure(t *testing.T) {
	mock := NewMockTransport()
	b := newTestLinkBuilder(t, newTestFetcher(mock))
	assert.Empty(t, b.DiscoverNeighbors(context.Background(), testSite+"/missing"))
}

func TestDiscoverNeighborsUsesCache(t *testing.T) {
	mock := NewMockTransport()
	registerBizSite(mock)
	f := newTestFetcher(mock)
	b := newTestLinkBuilder(t, f)

	first := b.DiscoverNeighbors(context.Background(), testSite)
	second := b.DiscoverNeighbors(context.Background(), testSite)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.Hits(testSite))
}

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

// Package testutil provides small business websites served over real HTTP
// for crawler tests and local experiments.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
)

// Site is a static website. Pages maps a path to its HTML; "/" is the
// homepage. Robots, when set, is served at /robots.txt.
type Site struct {
	Name   string
	Pages  map[string]string
	Robots string
}

// Test data shared across tests
var (
	// BakerySite keeps its email on the contact page, two clicks from the
	// homepage through the about page.
	BakerySite = Site{
		Name: "bakery",
		Pages: map[string]string{
			"/": `<!DOCTYPE html>
<html>
<head><title>Crumbs Bakery</title></head>
<body>
<nav><a href="/menu">Menu</a> <a href="/about">About us</a></nav>
<h1>Fresh bread every morning</h1>
</body>
</html>`,
			"/menu": `<!DOCTYPE html>
<html><head><title>Menu - Crumbs Bakery</title></head>
<body><p>Sourdough, rye, croissants.</p></body></html>`,
			"/about": `<!DOCTYPE html>
<html><head><title>About - Crumbs Bakery</title></head>
<body><p>Family run since 1972.</p><a href="/contact">Contact</a></body></html>`,
			"/contact": `<!DOCTYPE html>
<html><head><title>Contact - Crumbs Bakery</title></head>
<body>
<p>Orders: <a href="mailto:orders@crumbs.test">orders@crumbs.test</a></p>
<a href="https://www.instagram.com/crumbsbakery/">Instagram</a>
</body></html>`,
			"/private/staff": `<!DOCTYPE html>
<html><head><title>Staff</title></head>
<body><p>staff@crumbs.test</p></body></html>`,
		},
		Robots: "User-agent: *\nDisallow: /private\n",
	}

	// FloristSite shows its email on the homepage.
	FloristSite = Site{
		Name: "florist",
		Pages: map[string]string{
			"/": `<!DOCTYPE html>
<html>
<head><title>Petal &amp; Stem</title></head>
<body><footer>hello@petal.test</footer></body>
</html>`,
		},
	}

	// NoContactSite never exposes an email.
	NoContactSite = Site{
		Name: "nocontact",
		Pages: map[string]string{
			"/":      `<html><head><title>Quiet Shop</title></head><body><a href="/shop">Shop</a></body></html>`,
			"/shop":  `<html><head><title>Shop</title></head><body><a href="/">Home</a></body></html>`,
			"/terms": `<html><head><title>Terms</title></head><body></body></html>`,
		},
	}

	// BusinessSites is the default fixture set.
	BusinessSites = []Site{BakerySite, FloristSite, NoContactSite}
)

// Handler serves the site. Unknown paths answer 404; /slow waits two
// seconds and /500 always fails.
func (s Site) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" {
			path = strings.TrimRight(path, "/")
		}
		body, ok := s.Pages[path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		w.Write([]byte(body))
	})

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		if s.Robots == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(200)
		w.Write([]byte(s.Robots))
	})

	mux.HandleFunc("/500", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(500)
		w.Write([]byte("<p>internal server error</p>"))
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(2 * time.Second):
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><title>Slow</title></head><body>slow@slow.test</body></html>"))
	})

	return mux
}

// NewUnstartedSiteServer creates an unstarted HTTP test server for site
func NewUnstartedSiteServer(site Site) *httptest.Server {
	return httptest.NewUnstartedServer(site.Handler())
}

// NewSiteServer creates and starts an HTTP test server for site
func NewSiteServer(site Site) *httptest.Server {
	srv := NewUnstartedSiteServer(site)
	srv.Start()
	return srv
}

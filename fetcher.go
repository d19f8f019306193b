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
	"mime"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/agentberlin/leadsnake/storage"
	"github.com/charmbracelet/log"
	"github.com/saintfish/chardet"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"
)

// Identity is one client persona presented to remote sites.
type Identity struct {
	UserAgent      string
	AcceptLanguage string
}

// DefaultIdentities is the rotation pool used when none is configured.
var DefaultIdentities = []Identity{
	{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		AcceptLanguage: "en-US,en;q=0.9",
	},
	{
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
		AcceptLanguage: "en-GB,en;q=0.8",
	},
	{
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0",
		AcceptLanguage: "en-US,en;q=0.7",
	},
	{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.0.0",
		AcceptLanguage: "en-US,en;q=0.9,de;q=0.6",
	},
}

// Page is the decoded content fetched for one normalized URL.
type Page struct {
	// URL is the normalized URL the page was requested for
	URL string
	// FinalURL is the address after redirects
	FinalURL    string
	StatusCode  int
	Body        []byte
	ContentType string
}

// Fetcher retrieves page content. PageFetcher is the production
// implementation.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// PageFetcher fetches pages over HTTP (or through a Renderer), rotating
// identities per call, throttling after each network call and caching
// successful bodies by normalized URL.
//
// A PageFetcher is owned by one crawl session. Its cache must not be shared
// with another session.
type PageFetcher struct {
	backend       *httpBackend
	cache         storage.PageCache
	identities    []Identity
	next          atomic.Uint64
	renderer      Renderer
	respectRobots bool
	detectCharset bool
	maxBodySize   int
	logger        *log.Logger

	robotsLock sync.Mutex
	robotsMap  map[string]*robotstxt.RobotsData
}

// FetcherOption configures a PageFetcher.
type FetcherOption func(*PageFetcher)

// WithHTTPClient replaces the underlying HTTP client, e.g. to install a
// MockTransport.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *PageFetcher) {
		f.backend.Client = client
	}
}

// WithCache sets the page cache.
func WithCache(cache storage.PageCache) FetcherOption {
	return func(f *PageFetcher) {
		f.cache = cache
	}
}

// WithThrottle sets the post-request delay and optional rate limit.
func WithThrottle(t Throttle) FetcherOption {
	return func(f *PageFetcher) {
		f.backend.setThrottle(t)
	}
}

// WithIdentities sets the identity rotation pool.
func WithIdentities(ids []Identity) FetcherOption {
	return func(f *PageFetcher) {
		if len(ids) > 0 {
			f.identities = append([]Identity(nil), ids...)
		}
	}
}

// WithRenderer fetches pages through a browser renderer instead of HTTP.
func WithRenderer(r Renderer) FetcherOption {
	return func(f *PageFetcher) {
		f.renderer = r
	}
}

// WithRobotsTxt toggles robots.txt enforcement.
func WithRobotsTxt(respect bool) FetcherOption {
	return func(f *PageFetcher) {
		f.respectRobots = respect
	}
}

// WithCharsetDetection toggles charset sniffing for undeclared encodings.
func WithCharsetDetection(detect bool) FetcherOption {
	return func(f *PageFetcher) {
		f.detectCharset = detect
	}
}

// WithMaxBodySize caps the bytes read per response (0 = unlimited).
func WithMaxBodySize(n int) FetcherOption {
	return func(f *PageFetcher) {
		f.maxBodySize = n
	}
}

// WithFetchLogger sets the fetcher logger.
func WithFetchLogger(l *log.Logger) FetcherOption {
	return func(f *PageFetcher) {
		f.logger = l
	}
}

// NewPageFetcher creates a fetcher with a fresh in-memory cache, the default
// identity pool, a 10s timeout and no throttle.
func NewPageFetcher(options ...FetcherOption) *PageFetcher {
	f := &PageFetcher{
		backend:       newHTTPBackend(10*time.Second, Throttle{}),
		cache:         storage.NewInMemoryCache(),
		identities:    append([]Identity(nil), DefaultIdentities...),
		detectCharset: true,
		maxBodySize:   10 * 1024 * 1024,
		robotsMap:     make(map[string]*robotstxt.RobotsData),
	}
	for _, o := range options {
		o(f)
	}
	f.logger = loggerOrDefault(f.logger)
	return f
}

// NewPageFetcherFromConfig applies cfg before the explicit options.
func NewPageFetcherFromConfig(cfg *Config, options ...FetcherOption) *PageFetcher {
	base := []FetcherOption{
		WithThrottle(cfg.Throttle),
		WithIdentities(cfg.Identities),
		WithRobotsTxt(cfg.RespectRobotsTxt),
		WithCharsetDetection(cfg.DetectCharset),
		WithMaxBodySize(cfg.MaxBodySize),
		func(f *PageFetcher) {
			if cfg.Timeout > 0 {
				f.backend.Client.Timeout = cfg.Timeout
			}
		},
	}
	return NewPageFetcher(append(base, options...)...)
}

// Cache returns the session cache.
func (f *PageFetcher) Cache() storage.PageCache {
	return f.cache
}

func (f *PageFetcher) nextIdentity() Identity {
	if len(f.identities) == 0 {
		return Identity{}
	}
	n := f.next.Add(1) - 1
	return f.identities[n%uint64(len(f.identities))]
}

// Fetch returns the page for rawURL. A cache hit makes no network call and
// sleeps no throttle. Every failure is a *NodeFetchError; failures are never
// cached.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	key, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, &NodeFetchError{URL: rawURL, Err: err}
	}
	if cached, ok := f.cache.Get(key); ok {
		final := cached.FinalURL
		if final == "" {
			final = key
		}
		return &Page{
			URL:         key,
			FinalURL:    final,
			StatusCode:  http.StatusOK,
			Body:        cached.Body,
			ContentType: "text/html; charset=utf-8",
		}, nil
	}

	if f.respectRobots {
		if err := f.checkRobots(ctx, key); err != nil {
			return nil, err
		}
	}

	var page *Page
	if f.renderer != nil {
		page, err = f.render(ctx, key)
	} else {
		page, err = f.get(ctx, key)
	}
	if err != nil {
		f.logger.Warn("fetch error", "url", key, "err", err)
		return nil, err
	}
	f.cache.Put(key, storage.CachedPage{FinalURL: page.FinalURL, Body: page.Body})
	return page, nil
}

func (f *PageFetcher) get(ctx context.Context, key string) (*Page, error) {
	id := f.nextIdentity()
	f.logger.Debug("fetching", "url", key, "agent", id.UserAgent)
	res, err := f.backend.Do(ctx, key, id, f.maxBodySize)
	if err != nil {
		return nil, &NodeFetchError{URL: key, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &NodeFetchError{URL: key, StatusCode: res.StatusCode, Err: ErrNetwork}
	}
	return &Page{
		URL:         key,
		FinalURL:    res.FinalURL,
		StatusCode:  res.StatusCode,
		Body:        decodeBody(res.Body, res.ContentType, f.detectCharset),
		ContentType: res.ContentType,
	}, nil
}

func (f *PageFetcher) render(ctx context.Context, key string) (*Page, error) {
	if err := f.backend.wait(ctx); err != nil {
		return nil, &NodeFetchError{URL: key, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer f.backend.pause()
	html, status, err := f.renderer.Render(ctx, key)
	if err != nil {
		return nil, &NodeFetchError{URL: key, Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	if status != 0 && (status < 200 || status > 299) {
		return nil, &NodeFetchError{URL: key, StatusCode: status, Err: ErrNetwork}
	}
	if status == 0 {
		status = http.StatusOK
	}
	return &Page{
		URL:         key,
		FinalURL:    key,
		StatusCode:  status,
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
	}, nil
}

// checkRobots consults the host's robots.txt, fetching it once per host.
// An unreachable robots.txt allows everything.
func (f *PageFetcher) checkRobots(ctx context.Context, key string) error {
	u, err := parseURL(key)
	if err != nil {
		return &NodeFetchError{URL: key, Err: err}
	}
	host := u.Host

	f.robotsLock.Lock()
	robot, ok := f.robotsMap[host]
	f.robotsLock.Unlock()

	if !ok {
		robotsURL := u.Scheme + "://" + host + "/robots.txt"
		res, err := f.backend.Do(ctx, robotsURL, f.nextIdentity(), f.maxBodySize)
		if err != nil {
			f.logger.Debug("robots.txt unavailable", "host", host, "err", err)
			robot, _ = robotstxt.FromStatusAndBytes(http.StatusNotFound, nil)
		} else {
			robot, err = robotstxt.FromStatusAndBytes(res.StatusCode, res.Body)
			if err != nil {
				return &NodeFetchError{URL: key, Err: err}
			}
		}
		f.robotsLock.Lock()
		f.robotsMap[host] = robot
		f.robotsLock.Unlock()
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	agent := "leadsnake"
	if len(f.identities) > 0 {
		agent = f.identities[0].UserAgent
	}
	if !robot.TestAgent(path, agent) {
		return &NodeFetchError{URL: key, Err: ErrRobotsTxtBlocked}
	}
	return nil
}

// decodeBody converts body to UTF-8. A charset declared in contentType
// wins; otherwise the bytes are sniffed when detect is set and the body is
// not valid UTF-8 already.
func decodeBody(body []byte, contentType string, detect bool) []byte {
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		if cs := params["charset"]; cs != "" {
			return convertCharset(body, cs)
		}
	}
	if !detect || utf8.Valid(body) {
		return body
	}
	r, err := chardet.NewHtmlDetector().DetectBest(body)
	if err != nil {
		return body
	}
	return convertCharset(body, r.Charset)
}

func convertCharset(body []byte, label string) []byte {
	enc, name := charset.Lookup(label)
	if enc == nil || name == "utf-8" {
		return body
	}
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return out
}

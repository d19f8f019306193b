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

// Package storage holds the per-session state of a lead crawl: the page
// cache shared by all seeds of a run and the visited set of a single seed.
package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// CachedPage is a decoded body together with the address it was finally
// served from after redirects.
type CachedPage struct {
	FinalURL string
	Body     []byte
}

// PageCache maps a normalized URL to the page fetched for it.
// A PageCache belongs to one crawl session. It is never shared between
// sessions.
type PageCache interface {
	// Get returns the cached page for a normalized URL
	Get(url string) (CachedPage, bool)
	// Put stores the page fetched for a normalized URL
	Put(url string, page CachedPage)
	// Len returns the number of cached pages
	Len() int
}

// InMemoryCache is the default PageCache. Keys are xxhash sums of the
// normalized URL.
type InMemoryCache struct {
	pages map[uint64]CachedPage
	lock  sync.RWMutex
}

// NewInMemoryCache creates an empty cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{pages: make(map[uint64]CachedPage)}
}

// Get implements PageCache.Get()
func (c *InMemoryCache) Get(url string) (CachedPage, bool) {
	c.lock.RLock()
	page, ok := c.pages[xxhash.Sum64String(url)]
	c.lock.RUnlock()
	return page, ok
}

// Put implements PageCache.Put()
func (c *InMemoryCache) Put(url string, page CachedPage) {
	c.lock.Lock()
	c.pages[xxhash.Sum64String(url)] = page
	c.lock.Unlock()
}

// Len implements PageCache.Len()
func (c *InMemoryCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.pages)
}

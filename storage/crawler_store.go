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

package storage

import "github.com/cespare/xxhash/v2"

// VisitedSet records the normalized URLs already pushed onto one seed's
// frontier. It is created per seed and owned by a single crawl, so it is not
// synchronized.
type VisitedSet struct {
	visited map[uint64]struct{}
}

// NewVisitedSet creates an empty VisitedSet
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{visited: make(map[uint64]struct{})}
}

// Add marks url as visited. It returns false if url was already present.
func (s *VisitedSet) Add(url string) bool {
	key := xxhash.Sum64String(url)
	if _, ok := s.visited[key]; ok {
		return false
	}
	s.visited[key] = struct{}{}
	return true
}

// Has reports whether url has been visited
func (s *VisitedSet) Has(url string) bool {
	_, ok := s.visited[xxhash.Sum64String(url)]
	return ok
}

// Len returns the number of visited URLs
func (s *VisitedSet) Len() int {
	return len(s.visited)
}

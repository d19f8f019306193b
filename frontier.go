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

import "container/heap"

// QueueEntry is a frontier node: F is the estimated total cost, G the path
// cost from the domain root.
type QueueEntry struct {
	F   int
	G   int
	URL string
	// seq is the push order, kept for debug logging only
	seq uint64
}

// entryLess orders entries by F, then G, then URL.
func entryLess(a, b QueueEntry) bool {
	if a.F != b.F {
		return a.F < b.F
	}
	if a.G != b.G {
		return a.G < b.G
	}
	return a.URL < b.URL
}

type entryHeap []QueueEntry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return entryLess(h[i], h[j]) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(QueueEntry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Frontier is the min-priority queue of a single crawl.
type Frontier struct {
	entries entryHeap
	pushed  uint64
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{}
}

// Push adds e to the frontier
func (f *Frontier) Push(e QueueEntry) {
	f.pushed++
	e.seq = f.pushed
	heap.Push(&f.entries, e)
}

// Pop removes and returns the lowest entry. ok is false when the frontier
// is empty.
func (f *Frontier) Pop() (e QueueEntry, ok bool) {
	if len(f.entries) == 0 {
		return QueueEntry{}, false
	}
	return heap.Pop(&f.entries).(QueueEntry), true
}

// Len returns the number of queued entries
func (f *Frontier) Len() int {
	return len(f.entries)
}

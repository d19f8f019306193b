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

package app

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agentberlin/leadsnake"
	"github.com/agentberlin/leadsnake/internal/types"
	"github.com/google/uuid"
)

// activeSearch tracks one running Search call
type activeSearch struct {
	id        string
	keywords  []string
	startedAt time.Time

	pagesVisited atomic.Int64
	leadsFound   atomic.Int64

	statusMutex sync.RWMutex
	currentURL  string
}

func (s *activeSearch) onNodeVisit(v leadsnake.NodeVisit) {
	s.pagesVisited.Add(1)
	s.statusMutex.Lock()
	s.currentURL = v.URL
	s.statusMutex.Unlock()
}

func (a *App) beginSearch(keywords []string) *activeSearch {
	s := &activeSearch{
		id:        uuid.NewString(),
		keywords:  keywords,
		startedAt: time.Now(),
	}
	a.searchMutex.Lock()
	a.activeSearches[s.id] = s
	a.searchMutex.Unlock()
	return s
}

func (a *App) endSearch(s *activeSearch) {
	a.searchMutex.Lock()
	delete(a.activeSearches, s.id)
	a.searchMutex.Unlock()
}

// GetActiveSearches returns the progress of all running searches, oldest first
func (a *App) GetActiveSearches() []types.SearchProgress {
	a.searchMutex.RLock()
	defer a.searchMutex.RUnlock()

	progress := make([]types.SearchProgress, 0, len(a.activeSearches))
	for _, s := range a.activeSearches {
		s.statusMutex.RLock()
		progress = append(progress, types.SearchProgress{
			ID:           s.id,
			Keywords:     s.keywords,
			StartedAt:    s.startedAt.Unix(),
			PagesVisited: s.pagesVisited.Load(),
			LeadsFound:   s.leadsFound.Load(),
			CurrentURL:   s.currentURL,
		})
		s.statusMutex.RUnlock()
	}
	sort.Slice(progress, func(i, j int) bool {
		return progress[i].StartedAt < progress[j].StartedAt
	})
	return progress
}

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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsAllWork(t *testing.T) {
	pool := NewWorkerPool(context.Background(), 3, 10)
	var count atomic.Int32
	var mu sync.Mutex
	workers := map[int]bool{}
	for i := 0; i < 20; i++ {
		require.NoError(t, pool.Submit(func(worker int) {
			count.Add(1)
			mu.Lock()
			workers[worker] = true
			mu.Unlock()
		}))
	}
	pool.Close()
	assert.Equal(t, int32(20), count.Load())
	for w := range workers {
		assert.True(t, w >= 0 && w < 3)
	}
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, 0)
	cancel()
	pool.wg.Wait()
	assert.ErrorIs(t, pool.Submit(func(int) {}), context.Canceled)
	pool.Close()
}

func TestKeywordPool(t *testing.T) {
	mock := NewMockTransport()
	for i := 0; i < 4; i++ {
		site := fmt.Sprintf("https://site%d.example", i)
		mock.RegisterHTML(site, fmt.Sprintf(`<title>Site %d</title><p>owner@site%d.example</p>`, i, i))
	}

	var built atomic.Int32
	factory := func() (*CrawlOrchestrator, error) {
		built.Add(1)
		f := newTestFetcher(mock)
		c := newTestCrawler(f, Budgets{MaxVisits: 3, MaxDepth: 2})
		seeds := staticSeeds{}
		for i := 0; i < 4; i++ {
			seeds[fmt.Sprintf("kw%d", i)] = []string{fmt.Sprintf("https://site%d.example/x", i)}
		}
		return newTestOrchestrator(c, seeds), nil
	}

	pool := NewKeywordPool(2, factory)
	reports, err := pool.Run(context.Background(), []string{"kw0", "kw1", "kw2", "kw3"})
	require.NoError(t, err)
	require.Len(t, reports, 4)
	assert.Equal(t, int32(2), built.Load())
	for i, r := range reports {
		assert.Equal(t, fmt.Sprintf("kw%d", i), r.Keyword)
		require.Len(t, r.Leads, 1)
		assert.Equal(t, fmt.Sprintf("owner@site%d.example", i), *r.Leads[0].Email)
	}
}

func TestKeywordPoolFactoryError(t *testing.T) {
	pool := NewKeywordPool(2, func() (*CrawlOrchestrator, error) {
		return nil, fmt.Errorf("no chrome")
	})
	_, err := pool.Run(context.Background(), []string{"a"})
	assert.Error(t, err)
}

func TestKeywordPoolEmpty(t *testing.T) {
	pool := NewKeywordPool(2, nil)
	reports, err := pool.Run(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, reports)
}

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
	"sync"
)

// WorkerPool manages a fixed number of worker goroutines that process work
// items from a queue. Each work item receives the index of the worker
// running it, so per-worker resources can be looked up without locking.
type WorkerPool struct {
	maxWorkers int
	workQueue  chan func(worker int)
	wg         *sync.WaitGroup
	ctx        context.Context
}

// NewWorkerPool creates a new worker pool with the specified number of workers and queue size.
// Parameters:
//   - ctx: Context for cancellation
//   - maxWorkers: Number of concurrent worker goroutines
//   - queueSize: Buffer size for the work queue (blocks when full)
func NewWorkerPool(ctx context.Context, maxWorkers int, queueSize int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	wp := &WorkerPool{
		maxWorkers: maxWorkers,
		workQueue:  make(chan func(int), queueSize),
		wg:         &sync.WaitGroup{},
		ctx:        ctx,
	}
	for i := 0; i < maxWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	return wp
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	for {
		select {
		case work, ok := <-wp.workQueue:
			if !ok {
				return
			}
			work(id)
		case <-wp.ctx.Done():
			return
		}
	}
}

// Submit submits a work item to the pool.
// This method BLOCKS if the work queue is full, providing backpressure.
// Returns an error if the context is cancelled.
func (wp *WorkerPool) Submit(work func(worker int)) error {
	select {
	case wp.workQueue <- work:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Close shuts down the worker pool gracefully.
// It closes the work queue and waits for all workers to finish their current tasks.
func (wp *WorkerPool) Close() {
	close(wp.workQueue)
	wp.wg.Wait()
}

// OrchestratorFactory builds an independent orchestrator, with its own
// fetcher and page cache, for one pool worker.
type OrchestratorFactory func() (*CrawlOrchestrator, error)

// KeywordPool processes independent keywords concurrently. Every worker
// owns one orchestrator, so no page cache is ever shared between workers.
type KeywordPool struct {
	workers int
	factory OrchestratorFactory
}

// NewKeywordPool creates a pool of workers goroutines.
func NewKeywordPool(workers int, factory OrchestratorFactory) *KeywordPool {
	if workers < 1 {
		workers = 1
	}
	return &KeywordPool{workers: workers, factory: factory}
}

// Run processes keywords and returns one report per keyword, in input
// order. Keywords not started before ctx ends get a report carrying the
// context error.
func (p *KeywordPool) Run(ctx context.Context, keywords []string) ([]KeywordReport, error) {
	workers := p.workers
	if workers > len(keywords) {
		workers = len(keywords)
	}
	if workers == 0 {
		return nil, nil
	}
	orchestrators := make([]*CrawlOrchestrator, workers)
	for i := range orchestrators {
		o, err := p.factory()
		if err != nil {
			return nil, err
		}
		orchestrators[i] = o
	}

	reports := make([]KeywordReport, len(keywords))
	done := make([]bool, len(keywords))
	pool := NewWorkerPool(ctx, workers, len(keywords))
	for i, kw := range keywords {
		i, kw := i, kw
		if err := pool.Submit(func(worker int) {
			reports[i] = orchestrators[worker].ProcessKeywordReport(ctx, kw)
			done[i] = true
		}); err != nil {
			break
		}
	}
	pool.Close()

	for i, kw := range keywords {
		if !done[i] {
			reports[i] = KeywordReport{Keyword: kw, Err: ctx.Err()}
		}
	}
	return reports, nil
}

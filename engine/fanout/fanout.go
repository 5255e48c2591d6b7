// Copyright 2023 The CubeFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package fanout splits a per-request work list across a fixed-size worker
// pool and joins the per-worker results back in worker-index order, so
// query engine replies are reproducible regardless of goroutine scheduling.
// The pool itself is a concurrency gate in the same spirit as the teacher's
// util/limiter count limit, generalized from "reject over budget" I/O
// admission control to "block until a slot frees" compute scheduling.
package fanout

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool runs work items across at most Size goroutines. A zero-value Pool
// (or one built with NewPool(0)) runs every item on the calling goroutine,
// which is the configuration used when fan-out is disabled.
type Pool struct {
	size int
	gate chan struct{}
}

// NewPool returns a pool with the given worker budget. size <= 1 disables
// concurrency: Run executes every item sequentially on the caller's
// goroutine.
func NewPool(size int) *Pool {
	if size <= 1 {
		return &Pool{size: 1}
	}
	return &Pool{size: size, gate: make(chan struct{}, size)}
}

// Size returns the configured worker budget: 1 for a pool built with
// NewPool(size <= 1), 0 for a zero-value Pool.
func (p *Pool) Size() int { return p.size }

// Run splits items across the pool and calls work(i) for each index,
// blocking until every call has returned. Results are the caller's
// responsibility to collect into index-ordered, not completion-ordered,
// storage (typically a pre-sized slice written at index i) so the join
// stays deterministic.
func (p *Pool) Run(items int, work func(i int)) {
	if items <= 0 {
		return
	}
	if p.gate == nil {
		for i := 0; i < items; i++ {
			work(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(items)
	for i := 0; i < items; i++ {
		i := i
		p.gate <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-p.gate }()
			work(i)
		}()
	}
	wg.Wait()
}

// RunErr is the error-propagating counterpart of Run, built on
// golang.org/x/sync/errgroup: it stops launching new items once one fails
// and returns the first error encountered. server.NewServer does not call
// it; it loads partitions with its own errgroup.Group.
func RunErr(ctx context.Context, concurrency int, items int, work func(ctx context.Context, i int) error) error {
	if items <= 0 {
		return nil
	}
	if concurrency <= 1 {
		for i := 0; i < items; i++ {
			if err := work(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := 0; i < items; i++ {
		if gctx.Err() != nil && ctx.Err() == nil {
			break // an item failed and errgroup cancelled gctx
		}
		i := i
		g.Go(func() error {
			return work(gctx, i)
		})
	}
	return g.Wait()
}

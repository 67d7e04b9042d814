// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var _ Runner = (*Pool)(nil)

// Pool is a [Runner] backed by a weighted semaphore.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

// NewPool returns a pool admitting size concurrent jobs. A size below one
// is treated as one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the number of concurrent jobs the pool admits.
func (p *Pool) Size() int {
	return p.size
}

// Do implements [Runner]. Only waiting for a slot is cancellable.
func (p *Pool) Do(ctx context.Context, job func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for derivation slot: %w", err)
	}
	defer p.sem.Release(1)

	return job()
}

// DoAll runs every job through the pool concurrently and returns the first
// error. Jobs not yet admitted when ctx is cancelled or another job fails
// are skipped.
func (p *Pool) DoAll(ctx context.Context, jobs ...func() error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			return p.Do(gctx, job)
		})
	}
	return g.Wait()
}

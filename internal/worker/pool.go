// Package worker provides a bounded task pool for fire-and-forget work.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool runs submitted tasks on up to size concurrent goroutines. When the
// pool is saturated the submitting goroutine runs the task itself, which
// keeps back-pressure on producers instead of growing an unbounded queue.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// New constructs a pool with the given concurrency limit.
func New(size int) *Pool {
	if size <= 0 {
		size = 4
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// Submit schedules the task, running it inline when no worker slot is free.
func (p *Pool) Submit(task func()) {
	if p.sem.TryAcquire(1) {
		go func() {
			defer p.sem.Release(1)
			task()
		}()
		return
	}

	task()
}

// Close blocks until all in-flight tasks have finished.
func (p *Pool) Close(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return err
	}
	p.sem.Release(p.size)
	return nil
}

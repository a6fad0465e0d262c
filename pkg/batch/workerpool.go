// Package batch runs independent lookups in parallel on a fixed set of
// goroutines. It never retries a job.
package batch

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Job is a unit of work submitted to the WorkerPool. Its error is handed to
// the pool's error handler, if any.
type Job func(ctx context.Context) error

// WorkerPool runs jobs using a fixed number of goroutines.
type WorkerPool struct {
	jobs    chan Job
	quit    chan struct{}
	wg      sync.WaitGroup
	workers int
	OnError func(error)

	// closeMu is held for reading by in-flight Submits and for writing
	// while Start records ctx or Close closes the queue.
	closeMu  sync.RWMutex
	ctx      context.Context
	closed   bool
	quitOnce sync.Once
}

// NewWorkerPool creates a pool with the given number of workers and job
// queue capacity.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &WorkerPool{
		jobs:    make(chan Job, queue),
		quit:    make(chan struct{}),
		workers: workers,
	}
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int { return p.workers }

// Start launches the workers. They run until ctx is done or Close has
// drained the queue.
func (p *WorkerPool) Start(ctx context.Context) {
	p.closeMu.Lock()
	p.ctx = ctx
	p.closeMu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					if err := job(ctx); err != nil && p.OnError != nil {
						p.OnError(err)
					}
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full. A Submit blocked
// when Close is called returns ErrPoolClosed; once the context passed to
// Start is done, Submit returns its error.
func (p *WorkerPool) Submit(job Job) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	var done <-chan struct{}
	if p.ctx != nil {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		done = p.ctx.Done()
	}
	select {
	case p.jobs <- job:
		return nil
	case <-p.quit:
		return ErrPoolClosed
	case <-done:
		return p.ctx.Err()
	}
}

// Close stops accepting new jobs and waits for the workers to finish the
// queued ones.
func (p *WorkerPool) Close() {
	p.quitOnce.Do(func() { close(p.quit) })

	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}

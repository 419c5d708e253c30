// Package parallel runs independent snapshot jobs on a bounded set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func() error
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu

	errMu sync.Mutex
	errs  []error
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrPoolClosed is returned when submitting to a closed pool
var ErrPoolClosed = errors.New("worker pool is closed")

// ErrTaskPanic wraps a panic recovered from a task
var ErrTaskPanic = errors.New("task panicked")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a new worker pool with specified number of workers.
// Returns an error if the worker count exceeds MaxWorkers.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	// Prevent overflow in buffer size calculation
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func() error, workers*2),
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if err := wp.run(task); err != nil {
			wp.errMu.Lock()
			wp.errs = append(wp.errs, err)
			wp.errMu.Unlock()
		}
	}
}

// run executes one task, turning a panic into an error so the worker survives
func (wp *WorkerPool) run(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
		}
	}()
	return task()
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func() error) bool {
	return wp.SubmitContext(context.Background(), task) == nil
}

// SubmitContext queues a task, waiting for room in the queue until ctx is
// done. It returns ErrPoolClosed after Close and ctx.Err() on cancellation.
func (wp *WorkerPool) SubmitContext(ctx context.Context, task func() error) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks, waits for the queued ones and returns the
// joined task errors.
func (wp *WorkerPool) Close() error {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()

	wp.errMu.Lock()
	defer wp.errMu.Unlock()
	return errors.Join(wp.errs...)
}

// ForEach calls fn for every index in [0, count). With workers <= 1 the
// calls run in order on the calling goroutine. Submission stops once ctx is
// done; the context error is returned alongside any task errors.
func ForEach(ctx context.Context, count, workers int, fn func(i int) error) error {
	if workers <= 1 {
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	pool, err := NewWorkerPool(workers)
	if err != nil {
		return err
	}

	var ctxErr error
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		idx := i
		if err := pool.SubmitContext(ctx, func() error { return fn(idx) }); err != nil {
			ctxErr = err
			break
		}
	}

	return errors.Join(ctxErr, pool.Close())
}

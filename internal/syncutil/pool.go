package syncutil

import (
	"errors"
	"sync"
)

// ErrClosed is returned when work is submitted to a pool that has already
// been closed.
var ErrClosed = errors.New("syncutil: pool is closed")

// Pool runs submitted work across at most n concurrent goroutines and lets
// callers block until everything submitted so far has finished.
type Pool struct {
	slots  Semaphore
	inproc sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewWorkerPool builds a Pool that runs at most maxWorkers tasks at once.
// Values below 1 are raised to 1 so the pool always makes progress.
func NewWorkerPool(maxWorkers int) *Pool {
	return &Pool{slots: NewSemaphore(maxWorkers)}
}

// Submit blocks until a worker slot frees up, then runs fn in its own
// goroutine, so tasks start in submission order. It returns ErrClosed
// without running fn if the pool has already been closed.
func (p *Pool) Submit(fn func()) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.inproc.Add(1)
	p.mu.Unlock()

	p.slots.Acquire()
	go func() {
		defer p.inproc.Done()
		defer p.slots.Release()
		fn()
	}()
	return nil
}

// Wait blocks until every task submitted so far has returned.
func (p *Pool) Wait() {
	p.inproc.Wait()
}

// Close stops the pool from accepting new work and waits for everything
// already submitted to finish. Submit always returns ErrClosed afterward.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.inproc.Wait()
}

// WorkerPool is an alias kept for call sites written against the older
// name; new code should refer to Pool directly.
type WorkerPool = Pool

// Group runs a batch of fallible tasks across a Pool and reports the
// first error encountered, the way a schema-validated parallel loader
// needs one bad file to fail the whole load without letting the other
// files serialize behind it.
type Group struct {
	pool     *Pool
	mu       sync.Mutex
	firstErr error
}

// NewGroup builds a Group backed by a pool of the given concurrency.
func NewGroup(concurrency int) *Group {
	return &Group{pool: NewWorkerPool(concurrency)}
}

// Go schedules fn. If fn returns a non-nil error and no earlier task has
// already failed, that error becomes the one Wait reports; later errors
// are dropped rather than overwriting it.
func (g *Group) Go(fn func() error) {
	_ = g.pool.Submit(func() {
		if err := fn(); err != nil {
			g.mu.Lock()
			if g.firstErr == nil {
				g.firstErr = err
			}
			g.mu.Unlock()
		}
	})
}

// Wait blocks until every task scheduled with Go has returned and reports
// the first error any of them produced, or nil if all succeeded.
func (g *Group) Wait() error {
	g.pool.Close()
	return g.firstErr
}

// Semaphore is a counting semaphore backed by a buffered channel; it caps
// the number of concurrent holders at its capacity.
type Semaphore chan struct{}

// NewSemaphore builds a Semaphore with room for capacity concurrent
// holders. Values below 1 are raised to 1.
func NewSemaphore(capacity int) Semaphore {
	if capacity < 1 {
		capacity = 1
	}
	return make(Semaphore, capacity)
}

// Acquire blocks until a slot is free, then claims it.
func (s Semaphore) Acquire() {
	s <- struct{}{}
}

// TryAcquire claims a slot without blocking, reporting whether it got one.
func (s Semaphore) TryAcquire() bool {
	select {
	case s <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release frees a slot previously claimed with Acquire or TryAcquire.
func (s Semaphore) Release() {
	<-s
}

// Len reports how many slots are currently held.
func (s Semaphore) Len() int {
	return len(s)
}

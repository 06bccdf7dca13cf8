// Package syncutil provides the bounded-concurrency helpers used by code
// that fans work out across goroutines but still needs to cap how many run
// at once: a worker pool, the semaphore it sits on, and an errgroup-style
// wrapper for fan-out work that can fail.
//
// This is an internal package and is not part of the public API. Donation
// loading is its main consumer today.
//
// # Pool
//
// [Pool] (constructed with [NewWorkerPool] for historical reasons) runs
// submitted work across at most n goroutines and blocks in Wait until it
// has all finished:
//
//	pool := syncutil.NewWorkerPool(4)
//	defer pool.Close()
//	for _, item := range items {
//	    item := item
//	    pool.Submit(func() { process(item) })
//	}
//	pool.Wait()
//
// Once closed via [Pool.Close], Submit returns [ErrClosed].
//
// # Group
//
// [Group] adds first-error tracking on top of a Pool, for fan-out work
// where any one task failing should fail the batch without serializing
// the rest behind a mutex at the call site:
//
//	g := syncutil.NewGroup(8)
//	for _, f := range files {
//	    f := f
//	    g.Go(func() error { return parse(f) })
//	}
//	if err := g.Wait(); err != nil {
//	    return err
//	}
//
// # Semaphore
//
// [Semaphore] is the counting semaphore Pool is built from, backed by a
// buffered channel:
//
//	sem := syncutil.NewSemaphore(10)
//	sem.Acquire()      // blocks until a slot is available
//	defer sem.Release()
//
// The non-blocking [Semaphore.TryAcquire] variant returns false immediately
// if the semaphore is at capacity, and [Semaphore.Len] reports how many
// slots are currently held.
package syncutil

package flock

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
)

// parallelThreshold is the minimum element count worth fanning out.
// Below this, single-threaded is faster due to dispatch overhead.
const parallelThreshold = 64

// chunk is one contiguous slice of an index range, handed to a worker.
type chunk struct {
	start, end int
	run        func(start, end int) error
}

// Pool is a fixed-size pool of persistent worker goroutines shared by every
// simulation phase. All phases use the same fan-out: split [0, n) into
// contiguous disjoint chunks, dispatch, and join. A dispatch returns only
// after every chunk has finished, so callers get a barrier for free.
type Pool struct {
	workers int

	work chan chunk
	done chan error
	quit chan struct{}
	wg   sync.WaitGroup

	running bool
	mu      sync.Mutex
}

// NewPool creates a pool. workers <= 0 selects runtime.GOMAXPROCS(0).
// Workers are started lazily on the first parallel dispatch.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// ForN runs fn over [0, n) split into per-worker chunks and waits for all of
// them. The first task error (including a recovered panic) is returned; a
// non-nil return means the tick must be treated as failed, never as a
// partially applied frame.
func (p *Pool) ForN(n int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if p.workers == 1 || n < parallelThreshold {
		return runChunk(chunk{start: 0, end: n, run: fn})
	}

	p.start()

	chunkSize := (n + p.workers - 1) / p.workers
	dispatched := 0
	for w := 0; w < p.workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.work <- chunk{start: start, end: end, run: fn}
		dispatched++
	}

	var errs []error
	for i := 0; i < dispatched; i++ {
		if err := <-p.done; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close stops the workers. The pool must not be used afterwards.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	close(p.quit)
	p.wg.Wait()
	p.running = false
}

func (p *Pool) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.work = make(chan chunk, p.workers)
	p.done = make(chan error, p.workers)
	p.quit = make(chan struct{})
	p.running = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case c := <-p.work:
			p.done <- runChunk(c)
		}
	}
}

// runChunk executes one chunk, converting a panic into an error so that a
// crashed task surfaces as a failed tick instead of killing the process
// with half-written buffers.
func runChunk(c chunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simulation task [%d:%d) panicked: %v", c.start, c.end, r)
		}
	}()
	return c.run(c.start, c.end)
}

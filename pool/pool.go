/*
Package pool implements a fixed-size worker pool that every parsed
request frame is dispatched onto.

================================================================================
DESIGN
================================================================================

A single unbounded FIFO queue of closures is guarded by a mutex and a
sync.Cond. N long-lived goroutines ("workers") pop from the front and
run to completion. Submit never blocks the caller and never drops
work: it appends to the backlog and signals one waiting worker.

================================================================================
FAILURE ISOLATION
================================================================================

A panicking closure is recovered inside the worker loop, logged with
a stack trace, and the worker returns to the queue for the next job.
A single bad request must never take the whole pool down.

================================================================================
LIFECYCLE
================================================================================

Init() launches the workers under an errgroup.Group. Shutdown closes
the backlog for new work, wakes every worker so it can drain what
remains, and waits for the group to return.
*/
package pool

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is a unit of work submitted to the pool: typically a closure
// capturing a request's bytes, its connection, and a store handle.
// The pool itself only needs to know how to run it.
type Job func()

// Pool is a fixed-size set of workers draining a single FIFO queue.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	backlog []Job
	closed  bool

	size   int
	group  *errgroup.Group
	logger *zap.Logger
}

// New constructs a Pool with the given number of workers. Call Init
// to actually spawn them.
func New(size int, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		size:   size,
		logger: logger,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Init spawns the pool's workers. Calling Init more than once is a
// no-op: the second call observes p.group already set and returns.
func (p *Pool) Init(ctx context.Context) {
	p.mu.Lock()
	if p.group != nil {
		p.mu.Unlock()
		return
	}
	g, _ := errgroup.WithContext(ctx)
	p.group = g
	p.mu.Unlock()

	for i := 0; i < p.size; i++ {
		id := i
		g.Go(func() error {
			p.runWorker(id)
			return nil
		})
	}
}

// Submit enqueues job for execution. It never blocks the caller and
// never drops work — the backlog grows as needed. Submitting after
// Shutdown has been called is a no-op.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("job submitted after shutdown, dropping")
		return
	}
	p.backlog = append(p.backlog, job)
	p.mu.Unlock()
	p.cond.Signal()
}

// Shutdown stops accepting new work, wakes every worker so it can
// drain the remaining backlog, and waits for all workers to exit or
// for ctx to be done, whichever comes first.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	group := p.group
	p.mu.Unlock()
	p.cond.Broadcast()

	if group == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runWorker(id int) {
	for {
		job, ok := p.next()
		if !ok {
			return
		}
		p.runSafely(id, job)
	}
}

// next pops the head of the backlog, blocking until work arrives or
// the pool is shut down with an empty backlog.
func (p *Pool) next() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.backlog) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.backlog) == 0 {
		return nil, false
	}

	job := p.backlog[0]
	p.backlog = p.backlog[1:]
	return job, true
}

func (p *Pool) runSafely(workerID int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker recovered from panic",
				zap.Int("worker", workerID),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	job()
}

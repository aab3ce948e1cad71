// Package dispatch runs persistence jobs off the caller's goroutine, one at
// a time, in submission order.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/arlab/arlab/internal/logging"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("dispatch queue closed")

// Job is a unit of deferred work.
type Job func(ctx context.Context) error

type task struct {
	job  Job
	done func(error)
}

// Queue is a single-worker FIFO job queue. Submit never blocks on the job
// itself. Jobs already queued are not cancelled; Close waits for them.
type Queue struct {
	ctx    context.Context
	logger *logging.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	pending []task
	running bool
	closed  bool

	stopped chan struct{}
}

// New starts a queue whose jobs run with ctx. Cancellation of ctx is not
// propagated to jobs; it only carries values.
func New(ctx context.Context, logger *logging.Logger) *Queue {
	q := &Queue{
		ctx:     context.WithoutCancel(ctx),
		logger:  logger.OrNop(),
		stopped: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Submit enqueues job. done, if non-nil, is called on the worker goroutine
// with the job's result after it runs.
func (q *Queue) Submit(job Job, done func(error)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.pending = append(q.pending, task{job: job, done: done})
	q.cond.Broadcast()
	return nil
}

// Wait blocks until every job submitted so far has finished.
func (q *Queue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) > 0 || q.running {
		q.cond.Wait()
	}
}

// Close stops accepting jobs, runs the ones already queued and stops the worker.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	<-q.stopped
}

func (q *Queue) loop() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		t := q.pending[0]
		q.pending = q.pending[1:]
		q.running = true
		q.mu.Unlock()

		q.run(t)

		q.mu.Lock()
		q.running = false
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// run calls the job and then its callback exactly once. A panic in either
// is logged and does not stop the worker.
func (q *Queue) run(t task) {
	err := q.runJob(t)
	if t.done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatch callback panicked", "panic", r)
		}
	}()
	t.done(err)
}

func (q *Queue) runJob(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatch job panicked", "panic", r)
			err = errors.New("dispatch job panicked")
		}
	}()

	if err = t.job(q.ctx); err != nil {
		q.logger.Warn("dispatch job failed", "error", err)
	}
	return err
}

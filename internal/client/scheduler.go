package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrSchedulerClosed is returned by Enqueue after Close.
var ErrSchedulerClosed = errors.New("scheduler closed")

// ErrQueueFull is returned by Enqueue when the pending queue is full.
var ErrQueueFull = errors.New("scheduler queue full")

// Task is a unit of work run by the scheduler. The context is
// cancelled when the scheduler closes.
type Task func(ctx context.Context)

// Scheduler runs tasks one at a time in submission order and enforces
// a minimum gap between one task's completion and the next task's
// start. It is the client's only path to the server, so request bursts
// collapse into a paced serial stream.
type Scheduler struct {
	clock  clockwork.Clock
	minGap time.Duration

	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewScheduler creates a scheduler with the given pacing gap. A
// non-positive gap disables pacing.
func NewScheduler(clock clockwork.Clock, minGap time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		clock:  clock,
		minGap: minGap,
		tasks:  make(chan Task, 16),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Enqueue adds a task to the queue. It never blocks: a full queue is
// an error the caller can surface or drop.
func (s *Scheduler) Enqueue(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSchedulerClosed
	}
	select {
	case s.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Do enqueues fn and waits for it to run, returning its error. Close
// during the wait yields ErrSchedulerClosed.
func (s *Scheduler) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	result := make(chan error, 1)
	err := s.Enqueue(func(taskCtx context.Context) {
		result <- fn(taskCtx)
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSchedulerClosed
	}
}

// Close stops the scheduler. The in-flight task finishes; queued tasks
// are discarded. Close blocks until the worker has exited.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	<-s.done
}

func (s *Scheduler) run() {
	defer close(s.done)
	var last time.Time
	for {
		select {
		case <-s.ctx.Done():
			return
		case task := <-s.tasks:
			if !last.IsZero() && s.minGap > 0 {
				wait := s.minGap - s.clock.Since(last)
				if wait > 0 {
					select {
					case <-s.clock.After(wait):
					case <-s.ctx.Done():
						return
					}
				}
			}
			task(s.ctx)
			last = s.clock.Now()
		}
	}
}

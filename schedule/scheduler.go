// Package schedule runs one-shot delayed tasks and self-rearming recurring
// announcements for the bot.
//
// A single dispatcher goroutine sleeps until the nearest due time and hands
// ready tasks to a single runner goroutine, so tasks never run concurrently
// with each other.
package schedule

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Task is the work run when a timer comes due.
type Task func(ctx context.Context)

// Scheduler holds pending timers keyed by id. Handles live only in memory;
// the owner of each id is responsible for persisting anything durable.
type Scheduler struct {
	mu         sync.Mutex
	queue      timerQueue
	pending    map[string]*timer
	wake       chan struct{}
	running    bool
	reconciled bool

	now    func() time.Time
	logger *slog.Logger
}

type timer struct {
	id    string
	due   time.Time
	task  Task
	index int
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// New creates an idle scheduler. Tasks may be scheduled before Run starts;
// they wait in the queue.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		pending: make(map[string]*timer),
		wake:    make(chan struct{}, 1),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Schedule arms task to run at due under id, replacing any pending timer
// with the same id. A due time that is not after now is logged and dropped;
// Schedule then reports false.
func (s *Scheduler) Schedule(id string, due time.Time, task Task) bool {
	now := s.now()
	if !due.After(now) {
		s.logger.Warn("ignoring scheduled event in the past", "id", id, "due", due)
		return false
	}

	s.mu.Lock()
	if old, ok := s.pending[id]; ok {
		heap.Remove(&s.queue, old.index)
	}
	t := &timer{id: id, due: due, task: task}
	heap.Push(&s.queue, t)
	s.pending[id] = t
	s.mu.Unlock()

	s.logger.Debug("timer armed", "id", id, "due", due, "delay", due.Sub(now).Round(time.Second))
	s.poke()
	return true
}

// Cancel drops the pending timer for id. It reports false when there is
// nothing to cancel, including when the timer has already fired.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	t, ok := s.pending[id]
	if ok {
		heap.Remove(&s.queue, t.index)
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if ok {
		s.poke()
	}
	return ok
}

// Pending reports whether a timer for id is waiting to fire.
func (s *Scheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// MarkReconciled flips the once-per-process startup guard. It returns true
// only for the first caller.
func (s *Scheduler) MarkReconciled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciled {
		return false
	}
	s.reconciled = true
	return true
}

// IsRunning reports whether Run is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Run dispatches due tasks until ctx is done. Calling Run while it is
// already running returns immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	s.logger.Info("scheduler started", "pending", s.Len())
	ready := make(chan *timer)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.dispatch(ctx, ready)
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case t := <-ready:
				t.task(ctx)
			}
		}
	})
	err := g.Wait()
	s.logger.Info("scheduler stopped")
	return err
}

func (s *Scheduler) dispatch(ctx context.Context, ready chan<- *timer) {
	sleep := time.NewTimer(time.Hour)
	defer sleep.Stop()

	for {
		due, wait := s.popDue()
		for _, t := range due {
			select {
			case ready <- t:
			case <-ctx.Done():
				return
			}
		}

		if !sleep.Stop() {
			select {
			case <-sleep.C:
			default:
			}
		}
		sleep.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-s.wake:
		case <-sleep.C:
		}
	}
}

// popDue removes every timer whose due time has passed and returns them
// along with how long to sleep before the next one.
func (s *Scheduler) popDue() ([]*timer, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var due []*timer
	for len(s.queue) > 0 && !s.queue[0].due.After(now) {
		t := heap.Pop(&s.queue).(*timer)
		delete(s.pending, t.id)
		due = append(due, t)
	}

	wait := time.Hour
	if len(s.queue) > 0 {
		if d := s.queue[0].due.Sub(now); d < wait {
			wait = d
		}
	}
	return due, wait
}

func (s *Scheduler) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// timerQueue is a min-heap on due time.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool { return q[i].due.Before(q[j].due) }

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Package scheduler coalesces bursts of edits into single persistence calls.
//
// Every entity key owns one debounce timer. A notification restarts the
// key's timer and replaces its snapshot, so only the latest snapshot is ever
// sent. At most one call per key is in flight; a timer that fires while its
// key is busy queues the call to run as soon as the in-flight one resolves.
// Keys are independent of each other.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/clock"
)

// DefaultDelay is the quiet period used when none is configured
const DefaultDelay = 4 * time.Second

// Op performs one persistence call. It captures the snapshot it sends.
type Op func(ctx context.Context) error

// Guard is checked when the timer fires. A false result suppresses the call.
type Guard func() bool

// Task is what a notification schedules
type Task struct {
	Op    Op
	Guard Guard
}

// ErrorHandler receives failures of scheduled calls. Failed calls are not retried.
type ErrorHandler func(key string, err error)

// Config holds the dependencies for the scheduler
type Config struct {
	Clock   clock.Clock
	Delay   time.Duration
	OnError ErrorHandler
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Delay < 0 {
		vb.Field("Delay", "must not be negative")
	}
	return vb.Build()
}

type pending struct {
	task  Task
	timer clock.Timer
	gen   uint64
}

type flight struct {
	done   chan struct{}
	queued *Task
}

// Scheduler is safe for concurrent use
type Scheduler struct {
	clock   clock.Clock
	delay   time.Duration
	onError ErrorHandler

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	gen      uint64
	closed   bool
	pending  map[string]*pending
	inFlight map[string]*flight
	wg       sync.WaitGroup
}

// New creates a new scheduler
func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		clock:    cfg.Clock,
		delay:    delay,
		onError:  cfg.OnError,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]*pending),
		inFlight: make(map[string]*flight),
	}, nil
}

// Notify (re)starts the debounce timer for key with the latest task.
// It is a no-op after Close.
func (s *Scheduler) Notify(key string, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
	}

	s.gen++
	gen := s.gen
	s.pending[key] = &pending{
		task:  task,
		gen:   gen,
		timer: s.clock.AfterFunc(s.delay, func() { s.fire(key, gen) }),
	}
}

func (s *Scheduler) fire(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[key]
	if !ok || p.gen != gen || s.closed {
		return
	}
	delete(s.pending, key)

	if f, busy := s.inFlight[key]; busy {
		task := p.task
		f.queued = &task
		slog.Debug("write queued behind in-flight call", "key", key)
		return
	}

	s.startLocked(key)
	go func() {
		defer s.wg.Done()
		_ = s.drain(key, p.task)
	}()
}

// startLocked marks key in flight. The caller owns one wg slot and must run drain.
func (s *Scheduler) startLocked(key string) {
	s.inFlight[key] = &flight{done: make(chan struct{})}
	s.wg.Add(1)
}

// drain runs task and then any task queued behind it for the same key.
// It returns the first failure.
func (s *Scheduler) drain(key string, task Task) error {
	var first error
	for {
		if err := s.run(key, task); err != nil && first == nil {
			first = err
		}

		s.mu.Lock()
		f := s.inFlight[key]
		if f.queued == nil || s.closed {
			delete(s.inFlight, key)
			close(f.done)
			s.mu.Unlock()
			return first
		}
		task = *f.queued
		f.queued = nil
		s.mu.Unlock()
	}
}

func (s *Scheduler) run(key string, task Task) error {
	if task.Guard != nil && !task.Guard() {
		slog.Debug("write suppressed by guard", "key", key)
		return nil
	}
	if task.Op == nil {
		return nil
	}

	err := task.Op(s.ctx)
	if err == nil {
		return nil
	}
	if s.ctx.Err() != nil {
		return errors.Canceled("scheduler closed")
	}
	if s.onError != nil {
		s.onError(key, err)
	}
	return err
}

// Flush fires every pending timer now and waits until those calls, and any
// call already in flight when Flush was called, have resolved. It returns
// the first failure among the calls it fired. When ctx ends first, Flush
// returns and the calls carry on in the background.
func (s *Scheduler) Flush(ctx context.Context) error {
	var g errgroup.Group
	var waits []chan struct{}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.FailedPrecondition("scheduler is closed")
	}
	for key, f := range s.inFlight {
		if p, ok := s.pending[key]; ok {
			p.timer.Stop()
			task := p.task
			f.queued = &task
			delete(s.pending, key)
		}
		waits = append(waits, f.done)
	}
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
		s.startLocked(key)
		task := p.task
		g.Go(func() error {
			defer s.wg.Done()
			return s.drain(key, task)
		})
	}
	s.mu.Unlock()

	fired := make(chan error, 1)
	go func() { fired <- g.Wait() }()

	var err error
	select {
	case err = <-fired:
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "flush interrupted")
	}

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "flush interrupted")
		}
	}
	return err
}

// Cancel drops the pending timer and any queued follow-up for key.
// A call already in flight is not interrupted.
func (s *Scheduler) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
		delete(s.pending, key)
	}
	if f, ok := s.inFlight[key]; ok {
		f.queued = nil
	}
}

// Close stops every timer, drops queued follow-ups and cancels the context
// handed to in-flight calls. Later notifications are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
	for _, f := range s.inFlight {
		f.queued = nil
	}
	s.mu.Unlock()

	s.cancel()
}

// Wait blocks until no call is in flight
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Busy reports whether key has a pending timer, an in-flight call or a queued follow-up
func (s *Scheduler) Busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, pending := s.pending[key]
	_, inFlight := s.inFlight[key]
	return pending || inFlight
}

// InFlight reports whether a call for key is running
func (s *Scheduler) InFlight(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.inFlight[key]
	return ok
}

// Saving reports whether any key has a pending or in-flight call
func (s *Scheduler) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending) > 0 || len(s.inFlight) > 0
}

// Pending returns the keys waiting on their debounce timer
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.pending))
	for key := range s.pending {
		keys = append(keys, key)
	}
	return keys
}

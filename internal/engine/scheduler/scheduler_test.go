package scheduler_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/scheduler"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/clock"
)

const window = 4000 * time.Millisecond

type recorder struct {
	mu     sync.Mutex
	calls  []string
	errs   []string
	active int32
	peak   int32
}

func (r *recorder) op(snapshot string, release <-chan struct{}, started chan<- string) scheduler.Op {
	return func(ctx context.Context) error {
		n := atomic.AddInt32(&r.active, 1)
		defer atomic.AddInt32(&r.active, -1)
		for {
			p := atomic.LoadInt32(&r.peak)
			if n <= p || atomic.CompareAndSwapInt32(&r.peak, p, n) {
				break
			}
		}

		r.mu.Lock()
		r.calls = append(r.calls, snapshot)
		r.mu.Unlock()

		if started != nil {
			started <- snapshot
		}
		if release != nil {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
}

func (r *recorder) onError(key string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, key)
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...), append([]string{}, r.errs...)
}

type SchedulerTestSuite struct {
	suite.Suite
	clock *clock.Manual
	rec   *recorder
	sched *scheduler.Scheduler
}

func (s *SchedulerTestSuite) SetupTest() {
	s.clock = clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	s.rec = &recorder{}

	var err error
	s.sched, err = scheduler.New(&scheduler.Config{
		Clock:   s.clock,
		Delay:   window,
		OnError: s.rec.onError,
	})
	s.Require().NoError(err)
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.sched.Close()
	s.sched.Wait()
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) TestNewRequiresClock() {
	_, err := scheduler.New(&scheduler.Config{})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = scheduler.New(nil)
	s.Error(err)
}

func (s *SchedulerTestSuite) TestRapidEditsCoalesce() {
	key := "npc-0-draft-1"
	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("first description", nil, nil)})
	s.clock.Advance(200 * time.Millisecond)
	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("second description", nil, nil)})

	s.clock.Advance(window - time.Millisecond)
	s.sched.Wait()
	calls, _ := s.rec.snapshot()
	s.Empty(calls)
	s.True(s.sched.Saving())

	s.clock.Advance(time.Millisecond)
	s.sched.Wait()
	calls, _ = s.rec.snapshot()
	s.Equal([]string{"second description"}, calls)
	s.False(s.sched.Saving())
}

func (s *SchedulerTestSuite) TestGuardSuppressesCall() {
	ready := false
	task := scheduler.Task{
		Op:    s.rec.op("location", nil, nil),
		Guard: func() bool { return ready },
	}

	s.sched.Notify("location-0-", task)
	s.clock.Advance(window)
	s.sched.Wait()
	calls, _ := s.rec.snapshot()
	s.Empty(calls)
	s.False(s.sched.Busy("location-0-"))

	ready = true
	s.sched.Notify("location-0-", task)
	s.clock.Advance(window)
	s.sched.Wait()
	calls, _ = s.rec.snapshot()
	s.Equal([]string{"location"}, calls)
}

func (s *SchedulerTestSuite) TestOneCallInFlightPerKey() {
	key := "location-1-draft-1"
	release := make(chan struct{})
	started := make(chan string, 3)

	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("A", release, started)})
	s.clock.Advance(window)
	s.Equal("A", <-started)
	s.True(s.sched.InFlight(key))
	s.False(s.sched.InFlight("location-2-draft-1"))

	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("B", release, started)})
	s.clock.Advance(window)
	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("C", release, started)})
	s.clock.Advance(window)

	calls, _ := s.rec.snapshot()
	s.Equal([]string{"A"}, calls)
	s.True(s.sched.Busy(key))

	close(release)
	s.Equal("C", <-started)
	s.sched.Wait()

	calls, _ = s.rec.snapshot()
	s.Equal([]string{"A", "C"}, calls)
	s.Equal(int32(1), atomic.LoadInt32(&s.rec.peak))
	s.False(s.sched.Busy(key))
	s.False(s.sched.InFlight(key))
}

func (s *SchedulerTestSuite) TestKeysAreIndependent() {
	release := make(chan struct{})
	started := make(chan string, 2)

	s.sched.Notify("location-0-d", scheduler.Task{Op: s.rec.op("loc", release, started)})
	s.clock.Advance(time.Second)
	s.sched.Notify("npc-0-d", scheduler.Task{Op: s.rec.op("npc", release, started)})
	s.clock.Advance(window)

	got := map[string]bool{<-started: true, <-started: true}
	s.Equal(map[string]bool{"loc": true, "npc": true}, got)
	s.Equal(int32(2), atomic.LoadInt32(&s.rec.peak))

	close(release)
	s.sched.Wait()
}

func (s *SchedulerTestSuite) TestFailureReportedWithoutRetry() {
	key := "npc-2-draft-1"
	attempts := 0
	s.sched.Notify(key, scheduler.Task{Op: func(context.Context) error {
		attempts++
		return errors.Unavailablef("service down")
	}})

	s.clock.Advance(window)
	s.sched.Wait()
	s.clock.Advance(10 * window)
	s.sched.Wait()

	_, errs := s.rec.snapshot()
	s.Equal([]string{key}, errs)
	s.Equal(1, attempts)
	s.False(s.sched.Saving())
}

func (s *SchedulerTestSuite) TestCancelDropsPendingTimer() {
	s.sched.Notify("npc-0-d", scheduler.Task{Op: s.rec.op("x", nil, nil)})
	s.sched.Cancel("npc-0-d")
	s.Equal(0, s.clock.Pending())

	s.clock.Advance(window)
	s.sched.Wait()
	calls, _ := s.rec.snapshot()
	s.Empty(calls)
}

func (s *SchedulerTestSuite) TestCloseCancelsEverything() {
	release := make(chan struct{})
	started := make(chan string, 1)
	var inFlightErr error
	done := make(chan struct{})

	s.sched.Notify("a", scheduler.Task{Op: func(ctx context.Context) error {
		started <- "a"
		<-ctx.Done()
		inFlightErr = ctx.Err()
		close(done)
		return ctx.Err()
	}})
	s.sched.Notify("b", scheduler.Task{Op: s.rec.op("b", release, nil)})
	s.clock.Advance(window - time.Second)
	s.sched.Notify("b", scheduler.Task{Op: s.rec.op("b", release, nil)})
	s.clock.Advance(time.Second)
	<-started

	s.sched.Close()
	<-done
	s.sched.Wait()
	s.ErrorIs(inFlightErr, context.Canceled)

	s.sched.Notify("c", scheduler.Task{Op: s.rec.op("c", nil, nil)})
	s.clock.Advance(10 * window)
	s.sched.Wait()

	calls, errs := s.rec.snapshot()
	s.Empty(calls)
	s.Empty(errs)
	s.False(s.sched.Saving())
}

func (s *SchedulerTestSuite) TestFlushFiresPendingNow() {
	s.sched.Notify("location-0-d", scheduler.Task{Op: s.rec.op("loc", nil, nil)})
	s.sched.Notify("npc-0-d", scheduler.Task{Op: func(context.Context) error {
		return errors.Internal("boom")
	}})

	err := s.sched.Flush(context.Background())
	s.Error(err)
	s.True(errors.IsInternal(err))

	calls, errs := s.rec.snapshot()
	s.Equal([]string{"loc"}, calls)
	s.Equal([]string{"npc-0-d"}, errs)
	s.Equal(0, s.clock.Pending())
	s.False(s.sched.Saving())
}

func (s *SchedulerTestSuite) TestFlushWaitsForInFlight() {
	key := "npc-0-d"
	release := make(chan struct{})
	started := make(chan string, 2)

	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("A", release, started)})
	s.clock.Advance(window)
	<-started
	s.sched.Notify(key, scheduler.Task{Op: s.rec.op("B", release, started)})

	flushed := make(chan error, 1)
	go func() { flushed <- s.sched.Flush(context.Background()) }()

	close(release)
	s.NoError(<-flushed)

	calls, _ := s.rec.snapshot()
	s.Equal([]string{"A", "B"}, calls)
	s.False(s.sched.Saving())
}

func (s *SchedulerTestSuite) TestFlushHonoursContext() {
	release := make(chan struct{})
	started := make(chan string, 1)
	s.sched.Notify("k", scheduler.Task{Op: s.rec.op("A", release, started)})
	s.clock.Advance(window)
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.sched.Flush(ctx)
	s.True(errors.IsCanceled(err))

	close(release)
	s.sched.Wait()
}

func (s *SchedulerTestSuite) TestFlushStopsWaitingOnCanceledContext() {
	release := make(chan struct{})
	started := make(chan string, 1)
	s.sched.Notify("k", scheduler.Task{Op: s.rec.op("A", release, started)})

	ctx, cancel := context.WithCancel(context.Background())
	flushed := make(chan error, 1)
	go func() { flushed <- s.sched.Flush(ctx) }()
	<-started

	cancel()
	s.True(errors.IsCanceled(<-flushed))
	s.True(s.sched.InFlight("k"))

	close(release)
	s.sched.Wait()
	calls, _ := s.rec.snapshot()
	s.Equal([]string{"A"}, calls)
	s.False(s.sched.Saving())
}

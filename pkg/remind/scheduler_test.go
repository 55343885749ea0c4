package remind

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduleFires(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Bool

	task := s.Schedule(context.Background(), "!room", 0, func(ctx context.Context) error {
		fired.Store(true)
		return nil
	})

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task never completed")
	}
	if !fired.Load() {
		t.Error("reminder did not fire")
	}
	if s.Pending("!room") {
		t.Error("fired task still pending")
	}
}

func TestCancelPreventsFiring(t *testing.T) {
	s := NewScheduler()
	var fired atomic.Bool

	task := s.Schedule(context.Background(), "!room", time.Hour, func(ctx context.Context) error {
		fired.Store(true)
		return nil
	})

	if !s.Cancel("!room") {
		t.Fatal("Cancel returned false for pending task")
	}
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled task never completed")
	}
	if fired.Load() {
		t.Error("cancelled reminder fired anyway")
	}
	if s.Cancel("!room") {
		t.Error("Cancel should return false once nothing is pending")
	}
}

func TestRescheduleReplacesPending(t *testing.T) {
	s := NewScheduler()
	var first, second atomic.Bool

	t1 := s.Schedule(context.Background(), "!room", time.Hour, func(ctx context.Context) error {
		first.Store(true)
		return nil
	})
	t2 := s.Schedule(context.Background(), "!room", 0, func(ctx context.Context) error {
		second.Store(true)
		return nil
	})

	<-t1.Done()
	<-t2.Done()
	if first.Load() {
		t.Error("replaced reminder fired")
	}
	if !second.Load() {
		t.Error("replacement reminder did not fire")
	}
}

func TestContextCancellationStopsTask(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())

	task := s.Schedule(ctx, "!room", time.Hour, func(ctx context.Context) error {
		t.Error("reminder fired after context cancellation")
		return nil
	})
	cancel()

	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not stop with its context")
	}
}

func TestReminderErrorIsSwallowed(t *testing.T) {
	s := NewScheduler()

	task := s.Schedule(context.Background(), "!room", 0, func(ctx context.Context) error {
		return errors.New("transport hiccup")
	})

	// Failure is logged, never surfaced — Done still closes normally.
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("failing task never completed")
	}
}

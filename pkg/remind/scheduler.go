// Package remind implements Aura's deferred follow-up scheduler.
//
// A reminder is a best-effort, delayed, one-shot task bound to a
// conversation. Scheduling a new reminder for a room replaces any
// pending one, and tasks can be cancelled — so the reminder path is
// deterministic under test instead of a bare uncoordinated timer.
package remind

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Func is the work a reminder performs when it fires. Errors are logged
// and swallowed; reminder delivery never fails the primary interaction.
type Func func(ctx context.Context) error

// Task is a handle to a scheduled reminder.
type Task struct {
	ID     string
	RoomID string
	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed when the task has fired or been cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Scheduler owns pending reminders, at most one per room.
type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*Task // roomID → pending task
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]*Task)}
}

// Schedule queues fn to run after delay, replacing any reminder already
// pending for the room. The returned handle can be cancelled; the task
// itself is fire-and-forget and survives only as long as ctx.
func (s *Scheduler) Schedule(ctx context.Context, roomID string, delay time.Duration, fn Func) *Task {
	taskCtx, cancel := context.WithCancel(ctx)
	task := &Task{
		ID:     uuid.NewString(),
		RoomID: roomID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	if old, ok := s.pending[roomID]; ok {
		old.cancel()
	}
	s.pending[roomID] = task
	s.mu.Unlock()

	go func() {
		defer close(task.done)
		defer s.remove(task)

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-taskCtx.Done():
			slog.Debug("reminder cancelled", "id", task.ID, "room", roomID)
			return
		case <-timer.C:
		}

		if err := fn(taskCtx); err != nil {
			slog.Warn("reminder failed", "id", task.ID, "room", roomID, "error", err)
		}
	}()

	slog.Debug("reminder scheduled", "id", task.ID, "room", roomID, "delay", delay)
	return task
}

// Cancel aborts the pending reminder for a room, if any.
// Returns true if a reminder was pending.
func (s *Scheduler) Cancel(roomID string) bool {
	s.mu.Lock()
	task, ok := s.pending[roomID]
	s.mu.Unlock()
	if !ok {
		return false
	}
	task.cancel()
	return true
}

// Pending reports whether a reminder is queued for the room.
func (s *Scheduler) Pending(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[roomID]
	return ok
}

func (s *Scheduler) remove(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[task.RoomID] == task {
		delete(s.pending, task.RoomID)
	}
}

// Package scheduler runs self-rescheduling tasks on one-shot timers.
//
// A task is re-armed only when its own Run reports that it wants to continue;
// there is no cancel handle. The next interval is measured from the end of the
// previous run, so run latency accumulates rather than being corrected.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crypto-notifier/internal/metrics"
)

var (
	ErrStopped         = errors.New("scheduler stopped")
	ErrInvalidInterval = errors.New("task interval must be positive")
)

// Task is a named unit of work fired every Interval.
// Run returns whether the task should be scheduled again. An error is logged;
// the continue flag that came with it still decides whether the task re-arms.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) (bool, error)
}

type entry struct {
	task  Task
	timer *time.Timer
}

// Scheduler is safe for concurrent use. Each firing runs on its own goroutine.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	entries map[*entry]struct{}
	stopped bool
	running sync.WaitGroup
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[*entry]struct{}),
	}
}

// Schedule arms task to first run after task.Interval.
func (s *Scheduler) Schedule(task Task) error {
	if task.Interval <= 0 {
		return fmt.Errorf("schedule %q: %w", task.Name, ErrInvalidInterval)
	}
	if err := s.arm(&entry{task: task}); err != nil {
		return fmt.Errorf("schedule %q: %w", task.Name, err)
	}
	return nil
}

// Len reports how many tasks are scheduled or running.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop prevents any further firings and waits for in-flight runs to finish
// or for ctx to expire. The context passed to running tasks is cancelled.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	for e := range s.entries {
		e.timer.Stop()
	}
	s.entries = make(map[*entry]struct{})
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) arm(e *entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		delete(s.entries, e)
		return ErrStopped
	}
	slog.Debug("scheduler: task armed", "task", e.task.Name, "interval", e.task.Interval)
	s.entries[e] = struct{}{}
	e.timer = time.AfterFunc(e.task.Interval, func() { s.fire(e) })
	return nil
}

func (s *Scheduler) fire(e *entry) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	if !s.run(e.task) {
		s.mu.Lock()
		delete(s.entries, e)
		s.mu.Unlock()
		slog.Info("scheduler: task terminated", "task", e.task.Name)
		return
	}
	if err := s.arm(e); err != nil {
		slog.Debug("scheduler: task not re-armed", "task", e.task.Name, "err", err)
	}
}

// run invokes the task, isolating panics to this firing.
func (s *Scheduler) run(task Task) (cont bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: task panicked", "task", task.Name, "panic", r)
			metrics.RecordTaskRun("panic")
			cont = false
		}
	}()

	cont, err := task.Run(s.ctx)
	switch {
	case err != nil:
		slog.Error("scheduler: task failed", "task", task.Name, "continue", cont, "err", err)
		metrics.RecordTaskRun("error")
	case cont:
		metrics.RecordTaskRun("continue")
	default:
		metrics.RecordTaskRun("stop")
	}
	return cont
}

// Package scheduler triggers eviction runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/timewarp/internal/logging"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/worker"
)

// Scheduler posts a job to the worker mailbox on every cron tick. Ticks that
// arrive while a run is still pending collapse into one job.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	expr    string
	entry   cron.EntryID
	mb      *mailbox.Mailbox[worker.Job]
	log     logging.Logger
	running bool
}

// New creates a scheduler for the standard five-field cron expression.
func New(expr string, mb *mailbox.Mailbox[worker.Job], log logging.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		expr: expr,
		mb:   mb,
		log:  log,
	}
}

// Start registers the schedule and starts the cron loop. It stops when ctx
// is done. An empty expr leaves the scheduler idle.
//
// Common specs:
//   - "0 * * * *"    hourly
//   - "30 3 * * *"   daily at 03:30
//   - "@every 15m"   every 15 minutes
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expr == "" {
		s.log.Info("no schedule configured, scheduler idle")
		return nil
	}

	id, err := s.add(s.expr)
	if err != nil {
		return err
	}
	s.entry = id

	s.cron.Start()
	s.running = true
	s.log.Info("scheduler started", "schedule", s.expr)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) add(expr string) (cron.EntryID, error) {
	if _, err := cron.ParseStandard(expr); err != nil {
		return 0, fmt.Errorf("invalid cron schedule %q: %w", expr, err)
	}

	id, err := s.cron.AddFunc(expr, s.fire)
	if err != nil {
		return 0, fmt.Errorf("scheduling runs: %w", err)
	}
	return id, nil
}

func (s *Scheduler) fire() {
	s.log.Debug("schedule fired")
	s.mb.Put(worker.Job{Reason: "cron", At: time.Now()})
}

// UpdateSchedule replaces the cron expression. The old schedule stays in effect if
// the new one does not parse.
func (s *Scheduler) UpdateSchedule(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expr == s.expr {
		return nil
	}

	if expr == "" {
		if s.entry != 0 {
			s.cron.Remove(s.entry)
			s.entry = 0
		}
		s.expr = ""
		s.log.Info("schedule cleared")
		return nil
	}

	id, err := s.add(expr)
	if err != nil {
		return err
	}
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = id
	s.expr = expr

	if !s.running {
		s.cron.Start()
		s.running = true
	}
	s.log.Info("schedule updated", "schedule", expr)
	return nil
}

// Stop stops the scheduler and waits for a firing tick to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.log.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled run, or nil when nothing is scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry == 0 {
		return nil
	}
	e := s.cron.Entry(s.entry)
	if !e.Valid() || e.Next.IsZero() {
		return nil
	}
	next := e.Next
	return &next
}

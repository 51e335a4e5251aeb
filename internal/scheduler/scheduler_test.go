package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/raoulx24/timewarp/internal/logging"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/worker"
)

func TestStart_InvalidSpec(t *testing.T) {
	s := New("not a cron", mailbox.New[worker.Job](), logging.Discard())
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid expr")
	}
	if s.IsRunning() {
		t.Error("scheduler running after failed start")
	}
}

func TestStart_EmptySpecIsIdle(t *testing.T) {
	s := New("", mailbox.New[worker.Job](), logging.Discard())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.IsRunning() {
		t.Error("expected idle scheduler")
	}
	if s.NextRun() != nil {
		t.Error("expected no next run")
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := New("0 * * * *", mailbox.New[worker.Job](), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("expected running scheduler")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("expected a next run")
	}
	if next.Minute() != 0 || !next.After(time.Now()) {
		t.Errorf("unexpected next run %v", next)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler still running after cancel")
	}
}

func TestFire_PostsCoalescedJob(t *testing.T) {
	mb := mailbox.New[worker.Job]()
	s := New("@every 1h", mb, logging.Discard())

	s.fire()
	s.fire()

	job := mb.TryTake()
	if job == nil {
		t.Fatal("expected a job")
	}
	if job.Reason != "cron" {
		t.Errorf("reason = %q", job.Reason)
	}
	if mb.TryTake() != nil {
		t.Error("ticks were not coalesced")
	}
}

func TestUpdateSchedule(t *testing.T) {
	s := New("0 * * * *", mailbox.New[worker.Job](), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := s.UpdateSchedule("bogus"); err == nil {
		t.Error("expected error for invalid update")
	}
	if s.expr != "0 * * * *" {
		t.Errorf("invalid update replaced schedule: %q", s.expr)
	}

	if err := s.UpdateSchedule("30 3 * * *"); err != nil {
		t.Fatalf("UpdateSchedule failed: %v", err)
	}
	next := s.NextRun()
	if next == nil || next.Hour() != 3 || next.Minute() != 30 {
		t.Errorf("unexpected next run %v", next)
	}

	if err := s.UpdateSchedule(""); err != nil {
		t.Fatalf("clearing schedule failed: %v", err)
	}
	if s.NextRun() != nil {
		t.Error("expected no next run after clearing")
	}
}

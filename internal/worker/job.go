package worker

import (
	"time"
)

// Job asks the worker for one eviction run.
type Job struct {
	Reason string // "cron", "manual", "reload"
	At     time.Time
}

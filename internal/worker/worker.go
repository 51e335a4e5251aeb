// Package worker coordinates eviction runs: scan, weigh, select, apply, record.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/errutil"
	"github.com/raoulx24/timewarp/internal/eviction"
	"github.com/raoulx24/timewarp/internal/fs"
	"github.com/raoulx24/timewarp/internal/journal"
	"github.com/raoulx24/timewarp/internal/logging"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/metrics"
	"github.com/raoulx24/timewarp/internal/selector"
	"github.com/raoulx24/timewarp/internal/snapshot"
	"github.com/raoulx24/timewarp/internal/weight"
)

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, out *eviction.RunOutcome) error
}

// Worker runs evictions against the configured volume.
type Worker struct {
	mu  sync.RWMutex
	cfg config.Config

	fs      fs.FS
	log     logging.Logger
	mb      *mailbox.Mailbox[Job]
	history Recorder
	metrics *metrics.Collector
	journal journal.Journal
	source  func() selector.Source
	newID   func() string
}

// New creates a worker for cfg. A nil filesystem uses the OS.
func New(cfg config.Config, log logging.Logger, mb *mailbox.Mailbox[Job], filesystem fs.FS) *Worker {
	log.Debug("creating worker")
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Worker{
		cfg:    cfg,
		fs:     filesystem,
		log:    log,
		mb:     mb,
		source: selector.NewEntropy,
		newID:  uuid.NewString,
	}
}

// WithHistory records every run in r.
func (w *Worker) WithHistory(r Recorder) *Worker {
	w.history = r
	return w
}

// WithMetrics observes every run in c.
func (w *Worker) WithMetrics(c *metrics.Collector) *Worker {
	w.metrics = c
	return w
}

// WithSource replaces the entropy source factory, one source per run.
func (w *Worker) WithSource(f func() selector.Source) *Worker {
	w.source = f
	return w
}

// WithJournal writes run records to j instead of the configured log file.
func (w *Worker) WithJournal(j journal.Journal) *Worker {
	w.journal = j
	return w
}

// Config returns a copy of the current configuration.
func (w *Worker) Config() config.Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// UpdateConfig hot-reloads the configuration. It takes effect on the next run.
func (w *Worker) UpdateConfig(cfg config.Config) {
	w.log.Debug("entering Worker.UpdateConfig()")
	w.mu.Lock()
	w.cfg = cfg
	w.mu.Unlock()
}

// Start runs the worker loop using mailbox semantics until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.TakeContext(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		w.log.Debug("job received", "reason", job.Reason, "at", job.At)
		if _, err := w.Run(ctx); err != nil {
			w.log.Error("worker: run failed", "error", err)
		}
	}
}

// Run performs one eviction run with the current configuration. Invalid
// configuration fails before the volume is scanned, and weight or selector
// errors fail before anything is removed. An empty volume is not an error.
func (w *Worker) Run(ctx context.Context) (*eviction.RunOutcome, error) {
	cfg := w.Config()
	runID := w.newID()

	out, err := w.run(ctx, cfg, runID)
	if err != nil {
		if w.metrics != nil {
			w.metrics.ObserveFailure(modeLabel(cfg.Mode))
		}
		return nil, err
	}

	w.finish(ctx, cfg, out)
	return out, nil
}

func (w *Worker) run(ctx context.Context, cfg config.Config, runID string) (*eviction.RunOutcome, error) {
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}
	mode, _ := cfg.RunMode()

	fn, err := weight.Get(cfg.Weight.Policy)
	if err != nil {
		return nil, &config.ConfigError{Field: "weight.policy", Reason: err.Error()}
	}

	w.log.Info("run started", "run_id", runID, "mode", mode, "volume", cfg.Volume, "policy", fn.Name())

	entries, err := snapshot.Scan(ctx, w.fs, cfg.Volume, w.log)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", cfg.Volume, err)
	}

	inv, err := snapshot.Build(entries)
	if errors.Is(err, snapshot.ErrEmptyInventory) {
		w.log.Info("no snapshots found, nothing to do", "run_id", runID, "volume", cfg.Volume)
		return &eviction.RunOutcome{
			RunID:     runID,
			Mode:      mode,
			Decision:  selector.Decision{Threshold: cfg.ThresholdBytes()},
			StartedAt: time.Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	budget := w.budget(cfg, inv)

	weights, err := weight.Assign(fn, inv)
	if err != nil {
		return nil, err
	}

	d, err := selector.Select(inv, weights, budget, w.source())
	if err != nil {
		return nil, err
	}

	j, closeJournal, err := w.openJournal(cfg)
	if err != nil {
		return nil, err
	}
	defer closeJournal()

	exec := eviction.NewExecutor(fs.NewVolumeStorage(cfg.Volume, w.fs), j, w.log)
	out := exec.Apply(ctx, runID, d, mode)

	if n := out.Count(eviction.StatusSkipped); n > 0 {
		w.log.Warn("run interrupted", "run_id", runID, "skipped", n, "error", ctx.Err())
	}

	return &out, nil
}

// budget returns the byte budget for this run. When minFree is set and the
// volume has less free space than that, the budget shrinks by the shortfall.
func (w *Worker) budget(cfg config.Config, inv *snapshot.Inventory) int64 {
	threshold := cfg.ThresholdBytes()
	minFree := int64(cfg.MinFree)
	if minFree == 0 {
		return threshold
	}

	usage, err := w.fs.Statfs(cfg.Volume)
	if err != nil {
		errutil.LogMsg(w.log, err, "cannot read free space, ignoring minFree", "volume", cfg.Volume)
		return threshold
	}
	if usage.Available >= minFree {
		return threshold
	}

	shortfall := minFree - usage.Available
	b := max(inv.TotalBytes()-shortfall, 0)
	if b < threshold {
		w.log.Info("free space below minFree, budget reduced",
			"available", humanize.IBytes(uint64(usage.Available)),
			"minFree", humanize.IBytes(uint64(minFree)),
			"budget", humanize.IBytes(uint64(b)))
		return b
	}
	return threshold
}

func (w *Worker) openJournal(cfg config.Config) (journal.Journal, func(), error) {
	if w.journal != nil {
		return w.journal, func() {}, nil
	}
	if cfg.Log == "" {
		return journal.Discard{}, func() {}, nil
	}

	jw, err := journal.Open(cfg.Log, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	return jw, func() {
		errutil.LogMsg(w.log, jw.Close(), "closing journal", "path", cfg.Log)
	}, nil
}

// finish records a completed run. Failures here are logged and never change
// the run result.
func (w *Worker) finish(ctx context.Context, cfg config.Config, out *eviction.RunOutcome) {
	w.log.Info("run finished",
		"run_id", out.RunID,
		"mode", out.Mode,
		"retained", len(out.Decision.Retain),
		"evicted", out.Count(eviction.StatusRemoved)+out.Count(eviction.StatusWouldEvict),
		"failed", out.Count(eviction.StatusFailed),
		"freed", humanize.IBytes(uint64(out.BytesFreed)),
		"duration", out.Duration)

	if w.history != nil {
		// record even when ctx was cancelled mid-run
		hctx := context.WithoutCancel(ctx)
		errutil.ReportError(w.log, w.history.Record(hctx, out), "recording run history", "run_id", out.RunID)
	}

	if w.metrics != nil {
		w.metrics.ObserveOutcome(out)
		if cfg.Metrics.Textfile != "" {
			errutil.ReportError(w.log, w.metrics.WriteTextfile(cfg.Metrics.Textfile), "writing metrics textfile", "path", cfg.Metrics.Textfile)
		}
	}
}

func modeLabel(s string) string {
	m, err := config.ParseMode(s)
	if err != nil {
		return "invalid"
	}
	return string(m)
}

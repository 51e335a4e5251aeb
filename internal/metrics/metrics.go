// Package metrics exposes run metrics in the Prometheus format, either as a
// node_exporter textfile after a one-shot run or over HTTP in schedule mode.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raoulx24/timewarp/internal/eviction"
)

const namespace = "timewarp"

// Collector holds the timewarp metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	evictions   *prometheus.CounterVec
	bytesFreed  prometheus.Counter
	snapshots   prometheus.Gauge
	volumeBytes prometheus.Gauge
	budgetBytes prometheus.Gauge
	lastRun     prometheus.Gauge
	runDuration prometheus.Histogram
}

// New creates a Collector. A nil registry gets a fresh one.
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Eviction runs by mode and result.",
		}, []string{"mode", "result"}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Evicted snapshots by mode and status.",
		}, []string{"mode", "status"}),
		bytesFreed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_freed_total",
			Help:      "Bytes freed by live evictions.",
		}),
		snapshots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshots",
			Help:      "Snapshots on the volume at the start of the last run.",
		}),
		volumeBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_bytes",
			Help:      "Total snapshot size at the start of the last run.",
		}),
		budgetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "budget_bytes",
			Help:      "Byte budget applied by the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run started.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time spent applying a decision.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
	}

	registry.MustRegister(
		c.runs,
		c.evictions,
		c.bytesFreed,
		c.snapshots,
		c.volumeBytes,
		c.budgetBytes,
		c.lastRun,
		c.runDuration,
	)

	return c
}

// ObserveOutcome records a completed run.
func (c *Collector) ObserveOutcome(out *eviction.RunOutcome) {
	mode := string(out.Mode)
	d := out.Decision

	c.runs.WithLabelValues(mode, "ok").Inc()
	for _, r := range out.Results {
		c.evictions.WithLabelValues(mode, string(r.Status)).Inc()
	}
	c.bytesFreed.Add(float64(out.BytesFreed))
	c.snapshots.Set(float64(len(d.Retain) + len(d.Evict)))
	c.volumeBytes.Set(float64(d.RetainedBytes() + d.EvictBytes()))
	c.budgetBytes.Set(float64(d.Threshold))
	c.lastRun.Set(float64(out.StartedAt.Unix()))
	c.runDuration.Observe(out.Duration.Seconds())
}

// ObserveFailure records a run that aborted before applying a decision.
func (c *Collector) ObserveFailure(mode string) {
	c.runs.WithLabelValues(mode, "error").Inc()
}

// WriteTextfile atomically writes all metrics to path for node_exporter's
// textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// Handler serves the metrics over HTTP.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

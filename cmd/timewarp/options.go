package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"github.com/raoulx24/timewarp/internal/config"
	"github.com/raoulx24/timewarp/internal/history"
	"github.com/raoulx24/timewarp/internal/logging"
	"github.com/raoulx24/timewarp/internal/mailbox"
	"github.com/raoulx24/timewarp/internal/metrics"
	"github.com/raoulx24/timewarp/internal/selector"
	"github.com/raoulx24/timewarp/internal/worker"
)

// readConfig decodes the config file without validating it. A missing file
// is only tolerated when the path was not chosen explicitly.
func readConfig(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !viper.IsSet("config") {
		return &config.Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.Decode(data)
}

// loadConfig reads the config file, layers flag and TIMEWARP_* overrides on
// top and validates the result.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(cfg); err != nil {
		return nil, err
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config) error {
	if v := viper.GetString("mode"); v != "" {
		cfg.Mode = v
	}
	if v := viper.GetString("volume"); v != "" {
		cfg.Volume = v
	}
	if v := viper.GetString("threshold"); v != "" {
		th, err := config.ParseByteSize(v)
		if err != nil {
			return &config.ConfigError{Field: "threshold", Reason: err.Error()}
		}
		cfg.Threshold = &th
	}
	if v := viper.GetString("log"); v != "" {
		cfg.Log = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	return nil
}

func newLogger(cfg *config.Config) (logging.SlogLogger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// newWorker wires the optional history store and metrics collector. The
// returned cleanup closes the history store.
func newWorker(cfg *config.Config, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) (*worker.Worker, *metrics.Collector, func(), error) {
	w := worker.New(*cfg, log, mb, nil)
	cleanup := func() {}

	if viper.IsSet("seed") {
		seed := viper.GetUint64("seed")
		w.WithSource(func() selector.Source { return selector.NewSeeded(seed) })
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		w.WithHistory(store)
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn("closing history", "error", err)
			}
		}
	}

	var col *metrics.Collector
	if cfg.Metrics.Textfile != "" || cfg.Metrics.Listen != "" {
		col = metrics.New(nil)
		w.WithMetrics(col)
	}

	return w, col, cleanup, nil
}

package config

import (
	"errors"

	"github.com/robfig/cron/v3"
)

// Validate checks the fields a run depends on. Every problem is reported.
func Validate(cfg *Config) error {
	var errs []error

	if _, err := cfg.RunMode(); err != nil {
		errs = append(errs, err)
	}

	if cfg.Volume == "" {
		errs = append(errs, &ConfigError{Field: "volume", Reason: "is required"})
	}

	switch {
	case cfg.Threshold == nil:
		errs = append(errs, &ConfigError{Field: "threshold", Reason: "is required"})
	case *cfg.Threshold < 0:
		errs = append(errs, &ConfigError{Field: "threshold", Reason: "must not be negative, got " + cfg.Threshold.String()})
	}

	if cfg.MinFree < 0 {
		errs = append(errs, &ConfigError{Field: "minFree", Reason: "must not be negative"})
	}

	if cfg.Schedule.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
			errs = append(errs, &ConfigError{Field: "schedule.cron", Reason: err.Error()})
		}
	}

	switch cfg.ConfigReload.Method {
	case "", "auto", "fsnotify", "poll":
	default:
		errs = append(errs, &ConfigError{Field: "configReload.method", Reason: "must be one of auto, fsnotify, poll"})
	}

	return errors.Join(errs...)
}

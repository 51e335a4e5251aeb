package config

import "time"

type Config struct {
	Mode         string         `yaml:"mode"` // "safe", "dry-run", "live"
	Volume       string         `yaml:"volume"`
	Threshold    *ByteSize      `yaml:"threshold"`
	MinFree      ByteSize       `yaml:"minFree"`
	Log          string         `yaml:"log"`
	Weight       WeightConfig   `yaml:"weight"`
	History      HistoryConfig  `yaml:"history"`
	Metrics      MetricsConfig  `yaml:"metrics"`
	Schedule     ScheduleConfig `yaml:"schedule"`
	ConfigReload ReloadConfig   `yaml:"configReload"`
	Logging      LoggingConfig  `yaml:"logging"`
}

type WeightConfig struct {
	Policy string `yaml:"policy"` // "uniform", "gap"
}

type HistoryConfig struct {
	Path string `yaml:"path"` // sqlite file, empty disables history
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // node_exporter textfile collector target
	Listen   string `yaml:"listen"`   // e.g. ":9310", schedule mode only
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

type ReloadConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Method          string        `yaml:"method"`          // "auto", "fsnotify", "poll"
	PollInterval    time.Duration `yaml:"pollInterval"`    // e.g. 30s
	DebounceWindow  time.Duration `yaml:"debounceWindow"`  // e.g. 500ms
	StabilityWindow time.Duration `yaml:"stabilityWindow"` // e.g. 100ms
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}

// ThresholdBytes returns the configured budget, or -1 when unset.
func (c *Config) ThresholdBytes() int64 {
	if c.Threshold == nil {
		return -1
	}
	return int64(*c.Threshold)
}

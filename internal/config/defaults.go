package config

import "time"

const (
	DefaultMode            = "safe"
	DefaultWeightPolicy    = "uniform"
	DefaultReloadMethod    = "auto"
	DefaultPollInterval    = 30 * time.Second
	DefaultDebounceWindow  = 500 * time.Millisecond
	DefaultStabilityWindow = 100 * time.Millisecond
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// ApplyDefaults fills unset fields. An unset mode falls back to safe.
func ApplyDefaults(cfg *Config) {
	if cfg.Mode == "" {
		cfg.Mode = DefaultMode
	}
	if cfg.Weight.Policy == "" {
		cfg.Weight.Policy = DefaultWeightPolicy
	}
	if cfg.ConfigReload.Method == "" {
		cfg.ConfigReload.Method = DefaultReloadMethod
	}
	if cfg.ConfigReload.PollInterval <= 0 {
		cfg.ConfigReload.PollInterval = DefaultPollInterval
	}
	if cfg.ConfigReload.DebounceWindow <= 0 {
		cfg.ConfigReload.DebounceWindow = DefaultDebounceWindow
	}
	if cfg.ConfigReload.StabilityWindow <= 0 {
		cfg.ConfigReload.StabilityWindow = DefaultStabilityWindow
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}

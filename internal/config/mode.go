package config

import "strings"

// Mode selects whether a run only records its decision or performs removals.
type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModeLive   Mode = "live"
)

// ParseMode accepts "safe" as an alias of "dry-run".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "safe", "dry-run", "dryrun":
		return ModeDryRun, nil
	case "live":
		return ModeLive, nil
	default:
		return "", &ConfigError{Field: "mode", Reason: "must be one of safe, dry-run, live, got " + quote(s)}
	}
}

// RunMode returns the parsed mode of c.
func (c *Config) RunMode() (Mode, error) {
	return ParseMode(c.Mode)
}

func quote(s string) string { return `"` + s + `"` }

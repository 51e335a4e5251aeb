package config

import (
	"errors"
	"fmt"
)

// ErrConfig is matched by every configuration error.
var ErrConfig = errors.New("invalid configuration")

// ConfigError reports one invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

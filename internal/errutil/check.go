package errutil

import (
	"github.com/raoulx24/timewarp/internal/logging"
)

// LogMsg logs the error as a warning with a custom message if it is not nil.
func LogMsg(log logging.Logger, err error, msg string, args ...any) {
	if err != nil {
		allArgs := append([]any{"error", err}, args...)
		log.Warn(msg, allArgs...)
	}
}

// ReportError logs an unexpected error.
func ReportError(log logging.Logger, err error, msg string, args ...any) {
	if err != nil {
		allArgs := append([]any{"error", err}, args...)
		log.Error(msg, allArgs...)
	}
}

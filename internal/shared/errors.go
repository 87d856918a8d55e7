package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is fatal and always raised before any export I/O happens.
	ErrConfiguration = fmt.Errorf("configuration error")

	// ErrRecoverableIO marks per-item failures. They are reported and the batch continues.
	ErrRecoverableIO = fmt.Errorf("recoverable I/O error")

	// ErrEncoderStart is reported when the external encoder could not be launched at all.
	ErrEncoderStart = fmt.Errorf("encoder could not be started")

	// ErrTagUnavailable is returned by tag readers on unsupported or corrupt files.
	ErrTagUnavailable = fmt.Errorf("tag unavailable")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
	ErrExportLocked = fmt.Errorf("another export is already running")
)

// ConfigError wraps a formatted message with [ErrConfiguration].
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// RecoverableError wraps err with [ErrRecoverableIO], keeping err in the chain.
func RecoverableError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRecoverableIO, msg, err)
}

// IsFatal reports whether err should abort the run.
func IsFatal(err error) bool {
	return err != nil && errors.Is(err, ErrConfiguration)
}

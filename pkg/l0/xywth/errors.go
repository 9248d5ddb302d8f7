package xywth

import (
	"errors"
	"fmt"
)

var (
	// ErrSettleTimeout indicates the module did not report a full reading
	// after a relay command within the configured number of reply windows.
	ErrSettleTimeout = errors.New("settle timeout")
	// ErrUnknownThreshold indicates an invalid Threshold value.
	ErrUnknownThreshold = errors.New("unknown threshold")
)

// SettleError is returned by relay commands whose state was not confirmed.
// Relay state should be presumed unchanged.
type SettleError struct {
	Command  string
	Attempts int
}

// Error implements error.
func (e *SettleError) Error() string {
	return fmt.Sprintf("%s: %v after %d reply windows", e.Command, ErrSettleTimeout, e.Attempts)
}

// Is matches ErrSettleTimeout.
func (e *SettleError) Is(target error) bool {
	return target == ErrSettleTimeout
}

//go:build !linux

package gpio

import "errors"

// ErrNotSupported is returned off Linux.
var ErrNotSupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns ErrNotSupported.
func NewRealWriter(chip string, offset int, activeLow bool) (*RealWriter, error) {
	return nil, ErrNotSupported
}

// Write implements Writer.
func (w *RealWriter) Write(on bool) error {
	return ErrNotSupported
}

// Close implements Writer.
func (w *RealWriter) Close() error {
	return nil
}

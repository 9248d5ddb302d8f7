// Package gpio drives the duty-cycle output line.
// The real implementation uses the Linux GPIO character device.
package gpio

// Writer drives a single output line.
type Writer interface {
	// Write sets the logical level of the line.
	Write(on bool) error
	// Close releases the line, leaving it as a pulled-down input.
	Close() error
}

// DefaultChip is the GPIO chip of the Raspberry Pi header.
const DefaultChip = "gpiochip0"

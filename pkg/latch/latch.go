// Package latch provides a named boolean cell with explicit mutation sites.
package latch

// Latch is a binary state cell. The zero value is reset.
type Latch struct {
	active bool
}

// Set activates the latch.
func (l *Latch) Set() {
	l.active = true
}

// Reset deactivates the latch.
func (l *Latch) Reset() {
	l.active = false
}

// Flip inverts the latch.
func (l *Latch) Flip() {
	l.active = !l.active
}

// Value returns the current state.
func (l *Latch) Value() bool {
	return l.active
}

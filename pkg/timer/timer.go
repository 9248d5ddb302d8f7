// Package timer implements an overflow-safe elapsed time tracker with
// one-shot triggering and manual re-arm.
//
// A Timer accumulates the time between successive Poll samples while it is
// running. Once the accumulated time exceeds the preset the timer triggers
// and stops; it resumes only after the trigger is consumed by Event. Calling
// Poll repeatedly followed by Event therefore measures one interval per
// cycle, paced by the consumer.
package timer

import (
	"fmt"
	"time"

	"github.com/robotalks/regulator.go/pkg/clock"
)

// Timer is an elapsed time tracker. The zero value is a disabled timer.
type Timer struct {
	last      clock.Ticks
	elapsed   time.Duration
	preset    time.Duration
	overshoot time.Duration
	running   bool
	triggered bool
}

// New creates a timer armed with the preset, sampled at now.
func New(preset time.Duration, now clock.Ticks) *Timer {
	t := &Timer{}
	t.Arm(preset)
	t.Reset(now)
	return t
}

// Arm sets the preset and starts the timer. A zero preset disables the
// timer at the next Poll. Negative presets are a programming error.
func (t *Timer) Arm(preset time.Duration) {
	if preset < 0 {
		panic(fmt.Sprintf("timer: negative preset %v", preset))
	}
	t.preset = preset.Truncate(time.Millisecond)
	t.running = true
}

// ArmMillis is Arm in milliseconds.
func (t *Timer) ArmMillis(ms uint32) {
	t.Arm(time.Duration(ms) * time.Millisecond)
}

// ArmSeconds is Arm in seconds.
func (t *Timer) ArmSeconds(s uint32) {
	t.Arm(time.Duration(s) * time.Second)
}

// Poll advances the timer to now.
func (t *Timer) Poll(now clock.Ticks) {
	if t.running {
		t.elapsed += now.Sub(t.last)
	}
	t.last = now
	t.check()
}

func (t *Timer) check() {
	if t.preset == 0 {
		t.running = false
		return
	}
	if t.elapsed > t.preset {
		t.overshoot = t.elapsed - t.preset
		t.triggered = true
		t.elapsed = 0
		t.running = false
	}
}

// Event consumes a pending trigger and re-arms the timer for the next
// interval. It reports whether a trigger was pending.
func (t *Timer) Event() bool {
	if !t.triggered {
		return false
	}
	t.triggered = false
	t.running = true
	return true
}

// Reset restarts the measurement at now. It neither stops nor arms the timer.
func (t *Timer) Reset(now clock.Ticks) {
	t.last = now
	t.elapsed = 0
	t.triggered = false
}

// Carry adds time already elapsed past a boundary into the current interval.
// Used after Reset to keep a periodic schedule aligned with its nominal grid.
func (t *Timer) Carry(d time.Duration) {
	if d > 0 {
		t.elapsed += d
	}
}

// Enable resets and starts the timer.
func (t *Timer) Enable(now clock.Ticks) {
	t.Reset(now)
	t.running = true
}

// Disable resets and stops the timer.
func (t *Timer) Disable(now clock.Ticks) {
	t.Reset(now)
	t.running = false
}

// Value returns the accumulated elapsed time.
func (t *Timer) Value() time.Duration {
	return t.elapsed
}

// Millis returns the accumulated elapsed time in milliseconds.
func (t *Timer) Millis() uint32 {
	return uint32(t.elapsed / time.Millisecond)
}

// Seconds returns the accumulated elapsed time in whole seconds.
func (t *Timer) Seconds() uint32 {
	return uint32(t.elapsed / time.Second)
}

// Preset returns the configured preset.
func (t *Timer) Preset() time.Duration {
	return t.preset
}

// Overshoot returns how far past the preset the last trigger was detected.
func (t *Timer) Overshoot() time.Duration {
	return t.overshoot
}

// Running reports whether elapsed time is accumulating.
func (t *Timer) Running() bool {
	return t.running
}

// Triggered reports whether a trigger is pending.
func (t *Timer) Triggered() bool {
	return t.triggered
}

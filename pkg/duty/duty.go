// Package duty provides an asynchronous duty-cycle pulse generator built
// from two elapsed timers and a latch.
//
// The on-timer measures the high phase. The off-timer measures the whole
// period from the start of the high phase (its preset is on + off), so both
// timers are resynchronized at a single point per period. The time by which
// the period end was detected late, reduced modulo the period, is carried
// into the next period. Period boundaries therefore stay on the nominal grid
// however irregularly the generator is polled, and after a poll gap of
// several periods the output resumes at the phase the grid dictates.
package duty

import (
	"time"

	"github.com/robotalks/regulator.go/pkg/clock"
	"github.com/robotalks/regulator.go/pkg/latch"
	"github.com/robotalks/regulator.go/pkg/timer"
)

// Defaults for a new Cycle.
const (
	DefaultOn  = 300 * time.Millisecond
	DefaultOff = 600 * time.Millisecond
)

// Cycle is the duty-cycle pulse generator.
type Cycle struct {
	on      timer.Timer
	off     timer.Timer
	output  latch.Latch
	enabled bool
	onDur   time.Duration
	offDur  time.Duration
}

// New creates an enabled Cycle with default durations, starting a high
// phase at now.
func New(now clock.Ticks) *Cycle {
	c := &Cycle{enabled: true}
	c.SetOn(DefaultOn)
	c.SetOff(DefaultOff)
	c.SyncOn(now)
	return c
}

// SetOn sets the duration of the high phase.
func (c *Cycle) SetOn(d time.Duration) {
	c.onDur = d
	c.arm()
}

// SetOff sets the duration of the low phase.
func (c *Cycle) SetOff(d time.Duration) {
	c.offDur = d
	c.arm()
}

// Set sets both phases to the same duration.
func (c *Cycle) Set(d time.Duration) {
	c.onDur, c.offDur = d, d
	c.arm()
}

// On returns the high phase duration.
func (c *Cycle) On() time.Duration { return c.onDur }

// Off returns the low phase duration.
func (c *Cycle) Off() time.Duration { return c.offDur }

// Period returns the full period.
func (c *Cycle) Period() time.Duration { return c.off.Preset() }

func (c *Cycle) arm() {
	c.on.Arm(c.onDur)
	c.off.Arm(c.onDur + c.offDur)
}

// Enable allows the output to be driven high from the next high phase.
func (c *Cycle) Enable() {
	c.enabled = true
}

// Disable forces the output low. Timers keep running.
func (c *Cycle) Disable() {
	c.enabled = false
	c.output.Reset()
}

// Enabled reports whether the output may be driven.
func (c *Cycle) Enabled() bool {
	return c.enabled
}

// Reset restarts both timers and begins a new high phase at now.
func (c *Cycle) Reset(now clock.Ticks) {
	c.on.Enable(now)
	c.off.Enable(now)
	c.SyncOn(now)
}

// SyncOn starts a new period at now.
func (c *Cycle) SyncOn(now clock.Ticks) {
	c.resync(now, 0)
}

// SyncOff ends the high phase. The off-timer keeps measuring the period.
func (c *Cycle) SyncOff() {
	if c.enabled {
		c.output.Reset()
	}
}

func (c *Cycle) resync(now clock.Ticks, carry time.Duration) {
	c.on.Reset(now)
	c.off.Reset(now)
	c.on.Carry(carry)
	c.off.Carry(carry)
	if !c.enabled {
		return
	}
	if c.onDur > 0 && carry <= c.onDur {
		c.output.Set()
	} else {
		c.output.Reset()
	}
}

// Poll advances the generator to now.
func (c *Cycle) Poll(now clock.Ticks) {
	c.on.Poll(now)
	c.off.Poll(now)
	if c.on.Event() && c.output.Value() {
		c.SyncOff()
	}
	if c.off.Event() {
		c.resync(now, c.carry())
	}
	if !c.enabled {
		c.output.Reset()
	}
}

// carry reduces the off-timer overshoot into (0, period]. A whole number of
// missed periods maps to the end of the period just completed, the same
// state a poll at the boundary itself observes.
func (c *Cycle) carry() time.Duration {
	overshoot, period := c.off.Overshoot(), c.Period()
	if period <= 0 {
		return 0
	}
	if carry := overshoot % period; carry > 0 {
		return carry
	}
	return period
}

// Value returns the current output state.
func (c *Cycle) Value() bool {
	return c.output.Value()
}

// Package clock provides the time sources consumed by timers and the
// protocol client: a wrapping millisecond counter and a wall-clock epoch.
package clock

import (
	"sync"
	"time"
)

// Ticks is a free-running millisecond counter which wraps at 2^32.
type Ticks uint32

// Sub returns the milliseconds elapsed from earlier to t.
// The subtraction is modular so a counter which wrapped between the two
// samples still yields the correct distance.
func (t Ticks) Sub(earlier Ticks) time.Duration {
	return time.Duration(uint32(t)-uint32(earlier)) * time.Millisecond
}

// Add returns t advanced by d, truncated to whole milliseconds.
func (t Ticks) Add(d time.Duration) Ticks {
	return t + Ticks(d/time.Millisecond)
}

// Clock is the time source shared by the control components.
type Clock interface {
	// Now samples the monotonic millisecond counter.
	Now() Ticks
	// Epoch returns the current wall-clock time in Unix seconds.
	Epoch() uint32
	// Sleep yields for roughly d while busy-waiting on a transport.
	Sleep(d time.Duration)
}

// System is the Clock backed by the host clock.
type System struct {
	start  time.Time
	base   Ticks
	offset time.Duration
	lock   sync.RWMutex
}

// NewSystem creates a System clock whose counter starts at zero.
func NewSystem() *System {
	return NewSystemAt(0)
}

// NewSystemAt creates a System clock whose counter starts at base.
// Starting close to the wrap point exercises wraparound handling on
// long-running deployments early.
func NewSystemAt(base Ticks) *System {
	return &System{start: time.Now(), base: base}
}

// Now implements Clock.
func (c *System) Now() Ticks {
	return c.base.Add(time.Since(c.start))
}

// Epoch implements Clock.
func (c *System) Epoch() uint32 {
	return uint32(c.Time().Unix())
}

// Sleep implements Clock.
func (c *System) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Time returns the adjusted wall-clock time.
func (c *System) Time() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return time.Now().Add(c.offset)
}

// SetTime adjusts the wall clock so that it currently reads t.
func (c *System) SetTime(t time.Time) {
	c.lock.Lock()
	c.offset = time.Until(t)
	c.lock.Unlock()
}

// SetEpoch adjusts the wall clock to the given Unix seconds.
func (c *System) SetEpoch(epoch uint32) {
	c.SetTime(time.Unix(int64(epoch), 0))
}

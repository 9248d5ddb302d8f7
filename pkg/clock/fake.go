package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock for tests and simulation.
// Sleep advances the counter instead of blocking, so busy-wait loops
// observe time passing without real delays.
type Fake struct {
	ticks Ticks
	epoch time.Time
	// OnSleep, if set, is called after every Sleep with the new tick value.
	OnSleep func(Ticks)

	lock sync.Mutex
}

// NewFake creates a Fake clock at the given counter value and epoch.
func NewFake(ticks Ticks, epoch uint32) *Fake {
	return &Fake{ticks: ticks, epoch: time.Unix(int64(epoch), 0)}
}

// Now implements Clock.
func (c *Fake) Now() Ticks {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.ticks
}

// Epoch implements Clock.
func (c *Fake) Epoch() uint32 {
	return uint32(c.Time().Unix())
}

// Sleep implements Clock.
func (c *Fake) Sleep(d time.Duration) {
	if d < time.Millisecond {
		d = time.Millisecond
	}
	now := c.Advance(d)
	if fn := c.OnSleep; fn != nil {
		fn(now)
	}
}

// Advance moves both the counter and the wall clock forward.
func (c *Fake) Advance(d time.Duration) Ticks {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ticks = c.ticks.Add(d)
	c.epoch = c.epoch.Add(d)
	return c.ticks
}

// Set jumps the counter to an absolute value without touching the wall clock.
func (c *Fake) Set(ticks Ticks) {
	c.lock.Lock()
	c.ticks = ticks
	c.lock.Unlock()
}

// Time returns the fake wall-clock time.
func (c *Fake) Time() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.epoch
}

// SetTime sets the fake wall-clock time.
func (c *Fake) SetTime(t time.Time) {
	c.lock.Lock()
	c.epoch = t
	c.lock.Unlock()
}

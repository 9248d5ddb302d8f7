package duty

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/regulator.go/pkg/clock"
)

const ms = time.Millisecond

type edgeRecorder struct {
	start clock.Ticks
	prev  bool
	rises []uint32
	falls []uint32
}

func (r *edgeRecorder) sample(now clock.Ticks, v bool) {
	at := uint32(now.Sub(r.start) / ms)
	if v && !r.prev {
		r.rises = append(r.rises, at)
	}
	if !v && r.prev {
		r.falls = append(r.falls, at)
	}
	r.prev = v
}

func TestDefaults(t *testing.T) {
	c := New(0)
	require.True(t, c.Value())
	require.True(t, c.Enabled())
	require.Equal(t, DefaultOn, c.On())
	require.Equal(t, DefaultOff, c.Off())
	require.Equal(t, 900*ms, c.Period())
}

func TestOffPresetIsCumulative(t *testing.T) {
	c := New(0)
	c.SetOff(2 * time.Second)
	require.Equal(t, 2300*ms, c.Period())
	c.SetOn(time.Second)
	require.Equal(t, 3*time.Second, c.Period())
	c.Set(500 * ms)
	require.Equal(t, time.Second, c.Period())
}

func TestExactPhasesWithRegularPolling(t *testing.T) {
	c := New(0)
	r := &edgeRecorder{prev: c.Value()}
	highRun, lowRun := 0, 0
	var highRuns, lowRuns []int
	for now := clock.Ticks(1); now < 900*20; now++ {
		c.Poll(now)
		v := c.Value()
		if v != r.prev {
			if v {
				lowRuns = append(lowRuns, lowRun)
				lowRun = 0
			} else {
				highRuns = append(highRuns, highRun)
				highRun = 0
			}
		}
		if v {
			highRun++
		} else {
			lowRun++
		}
		r.sample(now, v)
	}
	require.True(t, len(highRuns) > 10)
	for _, n := range highRuns {
		require.Equal(t, 300, n)
	}
	for _, n := range lowRuns {
		require.Equal(t, 600, n)
	}
}

func TestNoDriftWithIrregularPolling(t *testing.T) {
	const maxGap = 50
	for _, start := range []clock.Ticks{0, 0xfffff000} {
		rnd := rand.New(rand.NewSource(int64(start) + 7))
		c := New(start)
		r := &edgeRecorder{start: start, prev: c.Value()}
		now := start
		for len(r.rises) < 120 {
			now = now.Add(time.Duration(1+rnd.Intn(maxGap)) * ms)
			c.Poll(now)
			r.sample(now, c.Value())
		}
		for i, at := range r.rises {
			nominal := uint32(900 * (i + 1))
			require.True(t, at > nominal && at <= nominal+maxGap, "rise %d at %d", i, at)
		}
		for i, at := range r.falls {
			nominal := uint32(900*i + 300)
			require.True(t, at > nominal && at <= nominal+maxGap, "fall %d at %d", i, at)
		}
	}
}

// nominalHigh is the output level dictated by the period grid at t ms after
// the generator started, t > 0.
func nominalHigh(t uint32) bool {
	return (t-1)%900 < 300
}

func TestPollGapsKeepPhase(t *testing.T) {
	for _, start := range []clock.Ticks{0, 0xfffff000} {
		rnd := rand.New(rand.NewSource(int64(start) + 11))
		c := New(start)
		now := start
		for i := 0; i < 2000; i++ {
			gap := 1 + rnd.Intn(50)
			if i%7 == 0 {
				gap = 900 + rnd.Intn(5*900)
			}
			now = now.Add(time.Duration(gap) * ms)
			c.Poll(now)
			at := uint32(now.Sub(start) / ms)
			require.Equal(t, nominalHigh(at), c.Value(), "t=%d after gap %d", at, gap)
		}
	}
}

func TestStallIntoLowPhase(t *testing.T) {
	c := New(0)
	for now := clock.Ticks(1); now <= 900; now++ {
		c.Poll(now)
	}
	var high int
	for now := clock.Ticks(13100); now < 13400; now += 10 {
		c.Poll(now)
		if c.Value() {
			high++
		}
		require.Equal(t, nominalHigh(uint32(now)), c.Value(), "t=%d", now)
	}
	require.Zero(t, high)
	c.Poll(13601)
	require.True(t, c.Value())
}

func TestMultiplePeriodGapLandsOnBoundary(t *testing.T) {
	c := New(0)
	c.Poll(2700)
	require.False(t, c.Value())
	c.Poll(2701)
	require.True(t, c.Value())
	c.Poll(3000)
	require.True(t, c.Value())
	c.Poll(3001)
	require.False(t, c.Value())
}

func TestDisableSuppressesOutput(t *testing.T) {
	c := New(0)
	c.Disable()
	require.False(t, c.Value())
	for now := clock.Ticks(1); now < 3000; now++ {
		c.Poll(now)
		require.False(t, c.Value())
	}
	c.Enable()
	var high bool
	for now := clock.Ticks(3000); now < 4000; now++ {
		c.Poll(now)
		high = high || c.Value()
	}
	require.True(t, high, "output resumes at the next period")
}

func TestZeroOnNeverDrivesHigh(t *testing.T) {
	c := New(0)
	c.SetOn(0)
	c.Reset(0)
	for now := clock.Ticks(1); now < 5000; now += 7 {
		c.Poll(now)
		require.False(t, c.Value())
	}
}

func TestZeroOffStaysHigh(t *testing.T) {
	c := New(0)
	c.SetOff(0)
	c.Reset(0)
	for now := clock.Ticks(1); now < 5000; now += 3 {
		c.Poll(now)
		require.True(t, c.Value())
	}
}

func TestResetRestartsHighPhase(t *testing.T) {
	c := New(0)
	for now := clock.Ticks(1); now <= 400; now++ {
		c.Poll(now)
	}
	require.False(t, c.Value())
	c.Reset(400)
	require.True(t, c.Value())
	c.Poll(700)
	require.True(t, c.Value())
	c.Poll(701)
	require.False(t, c.Value())
}

package xywth

import "fmt"

// Relay channel indexes.
const (
	RelayTemperature = 0
	RelayHumidity    = 1
)

// HistorySize is the capacity of the capture history.
const HistorySize = 20

// Reading is one committed report of the module.
type Reading struct {
	// Timestamp is the Unix epoch when the report was committed.
	Timestamp uint32
	// Temperature in tenths of a degree.
	Temperature int16
	// Humidity in tenths of a percent.
	Humidity int16
	// Relays holds the active state of each relay channel.
	Relays [2]bool
}

// TemperatureC returns the temperature in degrees.
func (r Reading) TemperatureC() float64 {
	return float64(r.Temperature) / 10
}

// HumidityRH returns the relative humidity in percent.
func (r Reading) HumidityRH() float64 {
	return float64(r.Humidity) / 10
}

// String implements fmt.Stringer.
func (r Reading) String() string {
	return fmt.Sprintf("@%d T=%.1f(%s) H=%.1f%%(%s)", r.Timestamp,
		r.TemperatureC(), onOff(r.Relays[RelayTemperature]),
		r.HumidityRH(), onOff(r.Relays[RelayHumidity]))
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// History is a fixed capacity ring of committed readings. Once full the
// oldest entry is overwritten.
type History struct {
	slots  [HistorySize]Reading
	cursor uint32
}

// Push commits a copy of the reading.
func (h *History) Push(r Reading) {
	h.slots[h.cursor%HistorySize] = r
	h.cursor++
}

// Cursor returns the total number of commits, i.e. the position of the
// next commit.
func (h *History) Cursor() uint32 {
	return h.cursor
}

// Len returns the number of readable slots.
func (h *History) Len() int {
	if h.cursor < HistorySize {
		return int(h.cursor)
	}
	return HistorySize
}

// Get returns the reading at position pos, taken modulo the capacity.
// Reading a slot that was never written is a programming error.
func (h *History) Get(pos uint32) Reading {
	slot := pos % HistorySize
	if slot >= h.cursor {
		panic(fmt.Sprintf("xywth: history slot %d not written", slot))
	}
	return h.slots[slot]
}

// Latest returns the most recent reading, if any.
func (h *History) Latest() (Reading, bool) {
	if h.cursor == 0 {
		return Reading{}, false
	}
	return h.slots[(h.cursor-1)%HistorySize], true
}

// Since returns the readings committed at or after position pos which are
// still held, oldest first, and the position following the last one.
func (h *History) Since(pos uint32) ([]Reading, uint32) {
	if oldest := h.cursor - uint32(h.Len()); pos < oldest {
		pos = oldest
	}
	var readings []Reading
	for ; pos < h.cursor; pos++ {
		readings = append(readings, h.slots[pos%HistorySize])
	}
	return readings, h.cursor
}

// Snapshot returns all held readings, oldest first.
func (h *History) Snapshot() []Reading {
	readings, _ := h.Since(0)
	return readings
}

// Clear drops all readings.
func (h *History) Clear() {
	*h = History{}
}

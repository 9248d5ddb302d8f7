package xywth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	var h History
	_, ok := h.Latest()
	require.False(t, ok)
	require.Panics(t, func() { h.Get(0) })

	for i := 0; i < 3; i++ {
		h.Push(Reading{Temperature: int16(i)})
	}
	require.Equal(t, 3, h.Len())
	require.EqualValues(t, 2, h.Get(2).Temperature)
	require.Panics(t, func() { h.Get(3) })

	readings, next := h.Since(1)
	require.EqualValues(t, 3, next)
	require.Len(t, readings, 2)
	require.EqualValues(t, 1, readings[0].Temperature)

	for i := 3; i < 45; i++ {
		h.Push(Reading{Temperature: int16(i)})
	}
	require.Equal(t, HistorySize, h.Len())
	require.EqualValues(t, 44, h.Get(h.Cursor()-1).Temperature)
	readings, next = h.Since(0)
	require.EqualValues(t, 45, next)
	require.Len(t, readings, HistorySize)
	require.EqualValues(t, 25, readings[0].Temperature)
	readings, _ = h.Since(next)
	require.Empty(t, readings)

	h.Clear()
	require.Zero(t, h.Cursor())
	require.Empty(t, h.Snapshot())
}

func TestReadingString(t *testing.T) {
	r := Reading{Timestamp: 10, Temperature: 235, Humidity: 452, Relays: [2]bool{true, false}}
	require.Equal(t, "@10 T=23.5(ON) H=45.2%(OFF)", r.String())
	require.InDelta(t, 23.5, r.TemperatureC(), 1e-9)
	require.InDelta(t, 45.2, r.HumidityRH(), 1e-9)
}

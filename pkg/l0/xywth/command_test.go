package xywth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThresholdCommand(t *testing.T) {
	testCases := []struct {
		threshold Threshold
		value     float64
		cmd       string
	}{
		{StartTemperature, 59, "TS:59.0"},
		{StopTemperature, 60, "TP:60.0"},
		{StartHumidity, 12.34, "HS:12.3"},
		{StopHumidity, 99.9, "HP:99.9"},
		{StopTemperature, -0.5, "TP:-0.5"},
		{StartTemperature, -12.25, "TS:-12.3"},
		{StartTemperature, 0, "TS:0.0"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.cmd, tc.threshold.Command(tc.value))
	}
}

func TestParseThreshold(t *testing.T) {
	th, err := ParseThreshold("hp")
	require.NoError(t, err)
	require.Equal(t, StopHumidity, th)
	th, err = ParseThreshold("TS")
	require.NoError(t, err)
	require.Equal(t, StartTemperature, th)
	_, err = ParseThreshold("XX")
	require.True(t, errors.Is(err, ErrUnknownThreshold))
	require.Equal(t, "Threshold(9)", Threshold(9).String())
}

func TestRelayCommand(t *testing.T) {
	require.Equal(t, "T:ON", RelayCommand(RelayTemperature, true))
	require.Equal(t, "T:OFF", RelayCommand(RelayTemperature, false))
	require.Equal(t, "H:ON", RelayCommand(RelayHumidity, true))
	require.Equal(t, "H:OFF", RelayCommand(RelayHumidity, false))
	require.True(t, needsSettle("T:ON"))
	require.True(t, needsSettle("H:OFF"))
	require.False(t, needsSettle("TS:59.0"))
	require.False(t, needsSettle(CmdStart))
}

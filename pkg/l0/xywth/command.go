package xywth

import (
	"fmt"
	"math"
	"strings"
)

// Command tokens understood by the module. No terminator is appended.
const (
	CmdStart               = "start"
	CmdStop                = "stop"
	CmdTemperatureRelayOn  = "T:ON"
	CmdTemperatureRelayOff = "T:OFF"
	CmdHumidityRelayOn     = "H:ON"
	CmdHumidityRelayOff    = "H:OFF"
)

// Threshold selects one of the module's switching thresholds.
type Threshold int

// Thresholds.
const (
	StartTemperature Threshold = iota
	StopTemperature
	StartHumidity
	StopHumidity
)

var thresholdPrefixes = [...]string{
	StartTemperature: "TS",
	StopTemperature:  "TP",
	StartHumidity:    "HS",
	StopHumidity:     "HP",
}

// String returns the command prefix of the threshold.
func (t Threshold) String() string {
	if t.IsValid() {
		return thresholdPrefixes[t]
	}
	return fmt.Sprintf("Threshold(%d)", int(t))
}

// IsValid reports whether t names a known threshold.
func (t Threshold) IsValid() bool {
	return t >= StartTemperature && t <= StopHumidity
}

// ParseThreshold parses a command prefix such as "TS".
func ParseThreshold(s string) (Threshold, error) {
	for t, prefix := range thresholdPrefixes {
		if strings.EqualFold(prefix, s) {
			return Threshold(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownThreshold, s)
}

// Command formats the threshold setting command, e.g. "TS:59.0".
// The value is rounded to one decimal digit.
func (t Threshold) Command(value float64) string {
	tenths := int64(math.Round(value * 10))
	sign := ""
	if tenths < 0 {
		sign, tenths = "-", -tenths
	}
	return fmt.Sprintf("%s:%s%d.%d", t, sign, tenths/10, tenths%10)
}

// RelayCommand returns the command switching a relay channel.
func RelayCommand(channel int, on bool) string {
	switch {
	case channel == RelayTemperature && on:
		return CmdTemperatureRelayOn
	case channel == RelayTemperature:
		return CmdTemperatureRelayOff
	case on:
		return CmdHumidityRelayOn
	default:
		return CmdHumidityRelayOff
	}
}

// needsSettle reports whether the command changes relay state, which is
// only confirmed by the next full report.
func needsSettle(cmd string) bool {
	return strings.HasPrefix(cmd, "T:") || strings.HasPrefix(cmd, "H:")
}

// Package regulator provides the shell commands of regulator nodes.
package regulator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/regulator.go/pkg/cli/sh"
	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
	pb "github.com/robotalks/regulator.go/pkg/proto/regulator/v1"
)

var (
	// StatusCmd exposes StatusQuery.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "show capture, latest reading and duty output",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if reply, err := sh.Do(c, &msgs.StatusQuery{}); err == nil {
				sh.PrintMessage(c, reply, formatStatus)
			}
		}),
	}

	// HistoryCmd exposes HistoryQuery.
	HistoryCmd = ishell.Cmd{
		Name:    "history",
		Aliases: []string{"hist"},
		Help:    "[SINCE], list captured readings from a position",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			var msg msgs.HistoryQuery
			if len(c.Args) > 0 {
				since, err := strconv.ParseUint(c.Args[0], 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("invalid SINCE: %w", err))
					return
				}
				msg.Since = uint32(since)
			}
			if reply, err := sh.Do(c, &msg); err == nil {
				sh.PrintMessage(c, reply, formatHistory)
			}
		}),
	}

	// RelayCmd exposes RelaySet.
	RelayCmd = ishell.Cmd{
		Name:    "relay",
		Aliases: []string{"r"},
		Help:    "t|h on|off, switch a relay channel",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("CHANNEL and STATE required"))
				return
			}
			var msg msgs.RelaySet
			var err error
			if msg.Channel, err = parseChannel(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			if msg.On, err = parseOnOff(c.Args[1]); err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// ThresholdCmd exposes ThresholdSet.
	ThresholdCmd = ishell.Cmd{
		Name:    "threshold",
		Aliases: []string{"th"},
		Help:    "TS|TP|HS|HP VALUE, program a switching threshold",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("THRESHOLD and VALUE required"))
				return
			}
			t, err := xywth.ParseThreshold(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			var msg msgs.ThresholdSet
			msg.Threshold = t.String()
			if msg.Value, err = strconv.ParseFloat(c.Args[1], 64); err != nil {
				c.Err(fmt.Errorf("invalid VALUE: %w", err))
				return
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// CaptureCmd exposes CaptureSet.
	CaptureCmd = ishell.Cmd{
		Name:    "capture",
		Aliases: []string{"cap"},
		Help:    "on|off [INTERVAL], start or stop periodic capture",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("STATE required"))
				return
			}
			var msg msgs.CaptureSet
			var err error
			if msg.Enabled, err = parseOnOff(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				if msg.IntervalMs, err = parseMillis(c.Args[1]); err != nil {
					c.Err(fmt.Errorf("invalid INTERVAL: %w", err))
					return
				}
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// DutyCmd exposes DutySet.
	DutyCmd = ishell.Cmd{
		Name:    "duty",
		Aliases: []string{"dc"},
		Help:    "on|off [ON OFF], configure the duty-cycle output, e.g. duty on 300ms 600ms",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("STATE required"))
				return
			}
			var msg msgs.DutySet
			var err error
			if msg.Enabled, err = parseOnOff(c.Args[0]); err != nil {
				c.Err(err)
				return
			}
			if len(c.Args) > 1 {
				if msg.OnMs, err = parseMillis(c.Args[1]); err != nil {
					c.Err(fmt.Errorf("invalid ON: %w", err))
					return
				}
			}
			if len(c.Args) > 2 {
				if msg.OffMs, err = parseMillis(c.Args[2]); err != nil {
					c.Err(fmt.Errorf("invalid OFF: %w", err))
					return
				}
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// ClockCmd exposes ClockSet.
	ClockCmd = ishell.Cmd{
		Name:    "clock",
		Aliases: []string{"clk"},
		Help:    "[EPOCH], set the node clock, to the local time by default",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			var msg msgs.ClockSet
			msg.Epoch = uint32(time.Now().Unix())
			if len(c.Args) > 0 {
				epoch, err := strconv.ParseUint(c.Args[0], 10, 32)
				if err != nil {
					c.Err(fmt.Errorf("invalid EPOCH: %w", err))
					return
				}
				msg.Epoch = uint32(epoch)
			}
			sh.DoCommand(c, &msg)
		}),
	}

	// ResetCmd exposes ModuleReset.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "restore module defaults and clear history",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ModuleReset{})
		}),
	}
)

func init() {
	sh.AddCmds(
		&StatusCmd,
		&HistoryCmd,
		&RelayCmd,
		&ThresholdCmd,
		&CaptureCmd,
		&DutyCmd,
		&ClockCmd,
		&ResetCmd,
	)
}

func parseChannel(s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "t", "temp", "temperature", "0":
		return xywth.RelayTemperature, nil
	case "h", "hum", "humidity", "1":
		return xywth.RelayHumidity, nil
	}
	return 0, fmt.Errorf("invalid CHANNEL %q", s)
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid STATE %q, expect on or off", s)
}

// parseMillis accepts a duration like "1.5s" or plain milliseconds.
func parseMillis(s string) (uint32, error) {
	if ms, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(ms), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("%v is not positive", d)
	}
	return uint32(d / time.Millisecond), nil
}

func formatReading(r *pb.Reading) string {
	pos, reading := msgs.ReadingOf(r)
	return fmt.Sprintf("#%d %s %s", pos,
		time.Unix(int64(reading.Timestamp), 0).UTC().Format(time.RFC3339), reading)
}

func formatStatus(msg fx.Message) string {
	s := msg.(*msgs.Status)
	var w strings.Builder
	capture := "off"
	if s.Capturing {
		capture = fmt.Sprintf("every %v", time.Duration(s.CaptureIntervalMs)*time.Millisecond)
	}
	fmt.Fprintf(&w, "clock:   %s\n", time.Unix(int64(s.Epoch), 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(&w, "capture: %s, %d readings\n", capture, s.Cursor)
	if s.Latest != nil {
		fmt.Fprintf(&w, "latest:  %s\n", formatReading(s.Latest))
	}
	if d := s.Duty; d != nil {
		state := "disabled"
		if d.Enabled {
			state = "enabled"
		}
		fmt.Fprintf(&w, "duty:    %s on %v off %v output %s", state,
			time.Duration(d.OnMs)*time.Millisecond, time.Duration(d.OffMs)*time.Millisecond,
			onOff(d.Output))
	}
	return strings.TrimSuffix(w.String(), "\n")
}

func formatHistory(msg fx.Message) string {
	h := msg.(*msgs.History)
	if len(h.Readings) == 0 {
		return "No readings"
	}
	lines := make([]string, 0, len(h.Readings))
	for _, r := range h.Readings {
		lines = append(lines, formatReading(r))
	}
	return strings.Join(lines, "\n")
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

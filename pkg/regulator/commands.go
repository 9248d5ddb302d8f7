package regulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
	pb "github.com/robotalks/regulator.go/pkg/proto/regulator/v1"
)

var (
	// ErrInvalidChannel indicates a relay channel other than 0 and 1.
	ErrInvalidChannel = errors.New("invalid relay channel")
	// ErrNotReady indicates the module has not been set up yet.
	ErrNotReady = errors.New("module not ready")
)

// HandleCommands takes the commands addressed to the regulator and replies
// to each. Other commands are left for the following controllers.
func (c *Controller) HandleCommands(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		reply, handled := c.execute(cc, cmdMsg.Command.Msg())
		if !handled {
			return
		}
		mctx.MessageTaken()
		errs.Add(cmdMsg.Command.Done(reply))
	}))
	return errs.Aggregate()
}

func (c *Controller) execute(cc fx.ControlContext, msg fx.Message) (fx.Message, bool) {
	var reply fx.Message
	var err error
	switch m := msg.(type) {
	case *msgs.StatusQuery:
		reply = c.status()
	case *msgs.HistoryQuery:
		reply = c.history(m.Since)
	case *msgs.ClockSet:
		err = c.RTC.SetEpoch(m.Epoch)
	case *msgs.DutySet:
		c.setDuty(cc, &m.DutySet)
	case *msgs.RelaySet:
		err = c.whenReady(func() error { return c.setRelay(m.Channel, m.On) })
	case *msgs.ThresholdSet:
		err = c.whenReady(func() error { return c.setThreshold(m.Threshold, m.Value) })
	case *msgs.CaptureSet:
		err = c.whenReady(func() error { return c.setCapture(&m.CaptureSet) })
	case *msgs.ModuleReset:
		err = c.reset()
	default:
		return nil, false
	}
	if err != nil {
		glog.Warningf("%T: %v", msg, err)
		return msgs.NewCommandErr(err), true
	}
	if reply == nil {
		reply = msgs.NewCommandOK()
	}
	return reply, true
}

func (c *Controller) whenReady(fn func() error) error {
	if !c.ready {
		return ErrNotReady
	}
	return fn()
}

func (c *Controller) setRelay(channel uint32, on bool) error {
	switch channel {
	case xywth.RelayTemperature:
		return c.Client.SetTemperatureRelay(on)
	case xywth.RelayHumidity:
		return c.Client.SetHumidityRelay(on)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
}

func (c *Controller) setThreshold(name string, value float64) error {
	t, err := xywth.ParseThreshold(name)
	if err != nil {
		return err
	}
	return c.Client.SetThreshold(t, value)
}

func (c *Controller) setCapture(m *pb.CaptureSet) error {
	if m.IntervalMs > 0 {
		c.SetCaptureInterval(time.Duration(m.IntervalMs) * time.Millisecond)
	}
	if m.Enabled {
		return c.startCapture()
	}
	return c.stopCapture()
}

// setDuty applies the non-zero durations and restarts the period.
func (c *Controller) setDuty(cc fx.ControlContext, m *pb.DutySet) {
	if m.OnMs > 0 {
		c.Duty.SetOn(time.Duration(m.OnMs) * time.Millisecond)
	}
	if m.OffMs > 0 {
		c.Duty.SetOff(time.Duration(m.OffMs) * time.Millisecond)
	}
	if m.Enabled {
		c.Duty.Enable()
	} else {
		c.Duty.Disable()
	}
	c.Duty.Reset(cc.Ticks())
}

func (c *Controller) reset() error {
	c.ready = false
	return c.setup()
}

func (c *Controller) status() *msgs.Status {
	s := &msgs.Status{Status: pb.Status{
		Capturing:         c.Client.Capturing(),
		CaptureIntervalMs: uint32(c.captureInterval / time.Millisecond),
		Cursor:            c.Client.History().Cursor(),
		Epoch:             c.Clock.Epoch(),
		Duty: &pb.DutyState{
			OnMs:    uint32(c.Duty.On() / time.Millisecond),
			OffMs:   uint32(c.Duty.Off() / time.Millisecond),
			Enabled: c.Duty.Enabled(),
			Output:  c.Duty.Value(),
		},
	}}
	if r, ok := c.Client.History().Latest(); ok {
		s.Latest = msgs.ReadingFrom(s.Cursor-1, r)
	}
	return s
}

func (c *Controller) history(since uint32) *msgs.History {
	readings, next := c.Client.History().Since(since)
	h := &msgs.History{History: pb.History{Next: next}}
	first := next - uint32(len(readings))
	for n, r := range readings {
		h.Readings = append(h.Readings, msgs.ReadingFrom(first+uint32(n), r))
	}
	return h
}

// Package regulator is the L1 node of an XY-WTH1 relay module. It owns the
// module client, the periodic capture, the duty-cycle output and the RTC
// registers, and runs them all on a single framework loop:
//
//	PrLvSense     module setup and periodic capture
//	PrLvControl   commands from supervisors
//	PrLvActuate   duty-cycle output
//	PrLvPostProc  reading and output events
package regulator

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/clock"
	"github.com/robotalks/regulator.go/pkg/duty"
	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/gpio"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
	"github.com/robotalks/regulator.go/pkg/rtc"
	"github.com/robotalks/regulator.go/pkg/timer"
)

// Clock is the clock shared by the client, the loop and the RTC registers.
type Clock interface {
	clock.Clock
	rtc.WallClock
}

// Controller is the L1 controller.
type Controller struct {
	Ref    l1.ControllerRef
	Clock  Clock
	Client *xywth.Client
	Duty   *duty.Cycle
	RTC    *rtc.Registers
	// Output is driven by the duty cycle. Nil disables the output line.
	Output gpio.Writer
	// Registrar receives the events. Nil drops them.
	Registrar l1.Registrar
	// CaptureOnStart starts capture once the module is set up.
	CaptureOnStart bool

	captureTimer    timer.Timer
	captureInterval time.Duration
	ready           bool
	published       uint32
	output          bool
	outputValid     bool
	events          []fx.Message
}

// DefaultCaptureInterval is the default period of capture cycles.
const DefaultCaptureInterval = time.Second

// NewController creates a Controller talking to the module over port.
func NewController(ref l1.ControllerRef, port xywth.Port, clk Clock) *Controller {
	c := &Controller{
		Ref:             ref,
		Clock:           clk,
		Client:          xywth.NewClient(port, clk),
		Duty:            duty.New(clk.Now()),
		RTC:             rtc.New(clk),
		captureInterval: DefaultCaptureInterval,
	}
	c.Duty.Disable()
	c.captureTimer.Arm(c.captureInterval)
	c.captureTimer.Disable(clk.Now())
	return c
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.Ref.Name()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(c.Sense))
	l.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommands))
	l.AddController(fx.PrLvActuate, fx.ControlFunc(c.Actuate))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.NotifyEvents))
}

// Ready reports whether the module has been set up.
func (c *Controller) Ready() bool {
	return c.ready
}

// CaptureInterval returns the period of capture cycles.
func (c *Controller) CaptureInterval() time.Duration {
	return c.captureInterval
}

// SetCaptureInterval changes the period of capture cycles.
func (c *Controller) SetCaptureInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultCaptureInterval
	}
	c.captureInterval = d
	c.captureTimer.Arm(d)
}

// Sense sets the module up on the first iteration, then runs a capture
// cycle whenever the capture interval elapsed.
func (c *Controller) Sense(cc fx.ControlContext) error {
	if !c.ready {
		return c.setup()
	}
	if !c.Client.Capturing() {
		return nil
	}
	c.captureTimer.Poll(cc.Ticks())
	if !c.captureTimer.Event() {
		return nil
	}
	return c.Client.Poll()
}

func (c *Controller) setup() error {
	c.ready = true
	c.published = 0
	err := c.Client.Setup()
	if err != nil {
		glog.Errorf("module setup: %v", err)
	}
	if c.CaptureOnStart {
		return c.startCapture()
	}
	return err
}

func (c *Controller) startCapture() error {
	if err := c.Client.StartCapture(); err != nil {
		return err
	}
	c.captureTimer.Enable(c.Clock.Now())
	return nil
}

func (c *Controller) stopCapture() error {
	if err := c.Client.StopCapture(); err != nil {
		return err
	}
	c.captureTimer.Disable(c.Clock.Now())
	return nil
}

// Actuate advances the duty cycle and drives the output line on edges.
func (c *Controller) Actuate(cc fx.ControlContext) error {
	now := cc.Ticks()
	c.Duty.Poll(now)
	on := c.Duty.Value()
	if c.outputValid && on == c.output {
		return nil
	}
	if c.Output != nil {
		if err := c.Output.Write(on); err != nil {
			return err
		}
	}
	c.output, c.outputValid = on, true
	c.events = append(c.events, msgs.NewDutyOutputEvent(on, now))
	return nil
}

// NotifyEvents sends an event for every reading committed since the last
// call, followed by the pending output events.
func (c *Controller) NotifyEvents(cc fx.ControlContext) error {
	history := c.Client.History()
	readings, next := history.Since(c.published)
	first := next - uint32(len(readings))
	events := make([]fx.Message, 0, len(readings)+len(c.events))
	for n, r := range readings {
		events = append(events, msgs.NewReadingEvent(first+uint32(n), r))
	}
	events = append(events, c.events...)
	c.published, c.events = next, nil
	if c.Registrar == nil {
		return nil
	}
	var errs fx.AggregatedError
	for _, ev := range events {
		errs.Add(c.Registrar.SendEvent(cc.Context(), ev))
	}
	return errs.Aggregate()
}

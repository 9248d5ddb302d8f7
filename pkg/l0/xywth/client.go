package xywth

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/clock"
	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/timer"
)

// Defaults of Client.
const (
	DefaultReplyTimeout     = 2000 * time.Millisecond
	DefaultPollInterval     = 5 * time.Millisecond
	DefaultMaxSettleRetries = 5
)

// Default thresholds programmed by Setup.
const (
	DefaultStartTemperature = 59.0
	DefaultStopTemperature  = 60.0
	DefaultStartHumidity    = 99.0
	DefaultStopHumidity     = 99.9
)

// Client talks to the module over a Port. It is not safe for concurrent
// use: all calls are expected from a single control loop.
//
// Every exchange runs in reply windows: the intake buffer is cleared, then
// bytes are collected until a line-feed has been received and nothing more
// is pending, or until ReplyTimeout elapses. Command operations block the
// caller for at least one window.
type Client struct {
	Port  Port
	Clock clock.Clock
	// ReplyTimeout bounds a single reply window.
	ReplyTimeout time.Duration
	// PollInterval is slept between checks of an idle port.
	PollInterval time.Duration
	// MaxSettleRetries bounds the reply windows awaited for a relay command
	// to be confirmed by a full report.
	MaxSettleRetries int

	intake    intake
	history   History
	pending   Reading
	capturing bool
	rxTimer   timer.Timer
}

// NewClient creates a Client with defaults.
func NewClient(port Port, clk clock.Clock) *Client {
	return &Client{
		Port:             port,
		Clock:            clk,
		ReplyTimeout:     DefaultReplyTimeout,
		PollInterval:     DefaultPollInterval,
		MaxSettleRetries: DefaultMaxSettleRetries,
	}
}

// Capturing reports whether periodic capture is active.
func (c *Client) Capturing() bool {
	return c.capturing
}

// History returns the capture history.
func (c *Client) History() *History {
	return &c.history
}

// Reading returns the committed reading at pos, modulo HistorySize.
func (c *Client) Reading(pos uint32) Reading {
	return c.history.Get(pos)
}

// Setup brings the module into a known state: capture stopped, both relays
// off and the default thresholds programmed. History is cleared. All steps
// are attempted and their errors aggregated.
func (c *Client) Setup() error {
	c.history.Clear()
	c.intake.clear()
	c.pending = Reading{}
	var errs fx.AggregatedError
	errs.Add(
		c.StopCapture(),
		c.SetTemperatureRelay(false),
		c.SetHumidityRelay(false),
		c.SetThreshold(StartTemperature, DefaultStartTemperature),
		c.SetThreshold(StartHumidity, DefaultStartHumidity),
		c.SetThreshold(StopTemperature, DefaultStopTemperature),
		c.SetThreshold(StopHumidity, DefaultStopHumidity),
	)
	return errs.Aggregate()
}

// Reset is Setup.
func (c *Client) Reset() error {
	return c.Setup()
}

// Poll runs one capture cycle when capture is active: a reply window,
// a parse pass over what was framed, then the intake is cleared.
func (c *Client) Poll() error {
	if !c.capturing {
		return nil
	}
	_, err := c.capture()
	return err
}

// StartCapture resumes streaming and enables periodic capture.
func (c *Client) StartCapture() error {
	if err := c.resume(); err != nil {
		return err
	}
	c.capturing = true
	return nil
}

// StopCapture suspends streaming and disables periodic capture.
func (c *Client) StopCapture() error {
	if err := c.suspend(); err != nil {
		return err
	}
	c.capturing = false
	return nil
}

// SetTemperatureRelay switches the temperature relay channel.
func (c *Client) SetTemperatureRelay(on bool) error {
	return c.SendAndWait(RelayCommand(RelayTemperature, on))
}

// SetHumidityRelay switches the humidity relay channel.
func (c *Client) SetHumidityRelay(on bool) error {
	return c.SendAndWait(RelayCommand(RelayHumidity, on))
}

// SetThreshold programs a switching threshold.
func (c *Client) SetThreshold(t Threshold, value float64) error {
	if !t.IsValid() {
		return ErrUnknownThreshold
	}
	return c.SendAndWait(t.Command(value))
}

// SetStartTemperature programs the TS threshold.
func (c *Client) SetStartTemperature(v float64) error { return c.SetThreshold(StartTemperature, v) }

// SetStopTemperature programs the TP threshold.
func (c *Client) SetStopTemperature(v float64) error { return c.SetThreshold(StopTemperature, v) }

// SetStartHumidity programs the HS threshold.
func (c *Client) SetStartHumidity(v float64) error { return c.SetThreshold(StartHumidity, v) }

// SetStopHumidity programs the HP threshold.
func (c *Client) SetStopHumidity(v float64) error { return c.SetThreshold(StopHumidity, v) }

// SendAndWait suspends capture, transmits cmd and awaits one reply window.
// Relay commands (T:*, H:*) then resume streaming and keep parsing reply
// windows until a full report is committed, at most MaxSettleRetries
// times, returning a *SettleError when none arrives. The capture mode in
// effect before the call is restored on return, also when the exchange
// fails.
func (c *Client) SendAndWait(cmd string) error {
	wasCapturing := c.capturing
	if wasCapturing {
		if err := c.suspend(); err != nil {
			return err
		}
	}
	if err := c.exchange(cmd); err != nil {
		if wasCapturing {
			return new(fx.AggregatedError).Add(err, c.resume()).Aggregate()
		}
		return err
	}
	if !needsSettle(cmd) {
		if wasCapturing {
			return c.resume()
		}
		return nil
	}
	if err := c.resume(); err != nil {
		if !wasCapturing {
			return new(fx.AggregatedError).Add(err, c.suspend()).Aggregate()
		}
		return err
	}
	settleErr := c.settle(cmd)
	if !wasCapturing {
		if err := c.suspend(); err != nil {
			return err
		}
	}
	return settleErr
}

func (c *Client) settle(cmd string) error {
	for attempt := 1; attempt <= c.MaxSettleRetries; attempt++ {
		committed, err := c.capture()
		if err != nil {
			return err
		}
		if committed > 0 {
			glog.V(2).Infof("%s settled after %d reply windows", cmd, attempt)
			return nil
		}
	}
	glog.Warningf("%s not confirmed after %d reply windows", cmd, c.MaxSettleRetries)
	return &SettleError{Command: cmd, Attempts: c.MaxSettleRetries}
}

func (c *Client) resume() error {
	return c.exchange(CmdStart)
}

func (c *Client) suspend() error {
	return c.exchange(CmdStop)
}

func (c *Client) exchange(cmd string) error {
	glog.V(2).Infof("TX %q", cmd)
	if _, err := c.Port.Write([]byte(cmd)); err != nil {
		return err
	}
	_, err := c.awaitReply()
	return err
}

// capture runs one reply window and parse pass, returning the number of
// readings committed.
func (c *Client) capture() (int, error) {
	if _, err := c.awaitReply(); err != nil {
		return 0, err
	}
	before := c.history.Cursor()
	for _, line := range frameLines(c.intake.framed()) {
		glog.V(2).Infof("RX %q", line)
		c.processLine(parseLine(line))
	}
	c.intake.clear()
	return int(c.history.Cursor() - before), nil
}

func (c *Client) processLine(l parsedLine) {
	if !l.humidity {
		c.pending.Temperature = l.value
		c.pending.Relays[RelayTemperature] = !l.relayOff
		return
	}
	c.pending.Humidity = l.value
	c.pending.Relays[RelayHumidity] = !l.relayOff
	c.pending.Timestamp = c.Clock.Epoch()
	c.history.Push(c.pending)
}

// awaitReply collects one reply window into the intake buffer. It reports
// whether the window ended by timeout rather than a line-feed.
func (c *Client) awaitReply() (timedOut bool, err error) {
	c.intake.clear()
	c.rxTimer.Arm(c.ReplyTimeout)
	c.rxTimer.Reset(c.Clock.Now())
	var lineFeed bool
	for {
		c.rxTimer.Poll(c.Clock.Now())
		if c.rxTimer.Event() {
			if glog.V(3) {
				glog.Infof("reply window timed out with %d bytes", c.intake.len())
			}
			return true, nil
		}
		if c.Port.Buffered() == 0 {
			if lineFeed {
				return false, nil
			}
			c.Clock.Sleep(c.PollInterval)
			continue
		}
		b, err := c.Port.ReadByte()
		if err != nil {
			return false, err
		}
		if isStorable(b) {
			c.intake.store(b)
			lineFeed = lineFeed || b == '\n'
		}
	}
}

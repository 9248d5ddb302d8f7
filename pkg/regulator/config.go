package regulator

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/duty"
	"github.com/robotalks/regulator.go/pkg/gpio"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1"
)

// ControllerType is the type of regulator nodes.
const ControllerType = "xywth"

// Config defines the configuration of the node.
type Config struct {
	CaptureInterval  time.Duration
	CaptureOnStart   bool
	ReplyTimeout     time.Duration
	MaxSettleRetries int

	DutyOn      time.Duration
	DutyOff     time.Duration
	DutyEnabled bool

	// GPIOLine is the offset of the output line, negative to disable.
	GPIOLine      int
	GPIOChip      string
	GPIOActiveLow bool
}

var defaultConfig = Config{
	CaptureInterval:  DefaultCaptureInterval,
	CaptureOnStart:   true,
	ReplyTimeout:     xywth.DefaultReplyTimeout,
	MaxSettleRetries: xywth.DefaultMaxSettleRetries,
	DutyOn:           duty.DefaultOn,
	DutyOff:          duty.DefaultOff,
	GPIOLine:         -1,
	GPIOChip:         gpio.DefaultChip,
}

func init() {
	if val := os.Getenv("REG_GPIO_CHIP"); val != "" {
		defaultConfig.GPIOChip = val
	}
	if val := os.Getenv("REG_GPIO_LINE"); val != "" {
		if line, err := strconv.Atoi(val); err == nil {
			defaultConfig.GPIOLine = line
		} else {
			glog.Warningf("ignore REG_GPIO_LINE=%q: %v", val, err)
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.DurationVar(&defaultConfig.CaptureInterval, "capture-interval", defaultConfig.CaptureInterval, "Period of capture cycles.")
	flag.BoolVar(&defaultConfig.CaptureOnStart, "capture", defaultConfig.CaptureOnStart, "Start capture once the module is set up.")
	flag.DurationVar(&defaultConfig.ReplyTimeout, "reply-timeout", defaultConfig.ReplyTimeout, "Bound of a module reply window.")
	flag.IntVar(&defaultConfig.MaxSettleRetries, "settle-retries", defaultConfig.MaxSettleRetries, "Reply windows awaited for a relay command to settle.")
	flag.DurationVar(&defaultConfig.DutyOn, "duty-on", defaultConfig.DutyOn, "High phase of the duty-cycle output.")
	flag.DurationVar(&defaultConfig.DutyOff, "duty-off", defaultConfig.DutyOff, "Low phase of the duty-cycle output.")
	flag.BoolVar(&defaultConfig.DutyEnabled, "duty", defaultConfig.DutyEnabled, "Enable the duty-cycle output.")
	flag.IntVar(&defaultConfig.GPIOLine, "gpio-line", defaultConfig.GPIOLine, "GPIO line of the duty-cycle output, negative to disable.")
	flag.StringVar(&defaultConfig.GPIOChip, "gpio-chip", defaultConfig.GPIOChip, "GPIO chip of the output line.")
	flag.BoolVar(&defaultConfig.GPIOActiveLow, "gpio-active-low", defaultConfig.GPIOActiveLow, "The output line is active low.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates the Controller with the output line opened when
// configured.
func (c *Config) NewController(ref l1.ControllerRef, port xywth.Port, clk Clock) (*Controller, error) {
	ctl := NewController(ref, port, clk)
	ctl.CaptureOnStart = c.CaptureOnStart
	ctl.SetCaptureInterval(c.CaptureInterval)
	ctl.Client.ReplyTimeout = c.ReplyTimeout
	ctl.Client.MaxSettleRetries = c.MaxSettleRetries
	ctl.Duty.SetOn(c.DutyOn)
	ctl.Duty.SetOff(c.DutyOff)
	if c.DutyEnabled {
		ctl.Duty.Enable()
	}
	ctl.Duty.Reset(clk.Now())
	if c.GPIOLine >= 0 {
		out, err := gpio.NewRealWriter(c.GPIOChip, c.GPIOLine, c.GPIOActiveLow)
		if err != nil {
			return nil, err
		}
		ctl.Output = out
	}
	return ctl, nil
}

// Close releases the output line.
func (c *Controller) Close() error {
	if c.Output == nil {
		return nil
	}
	if err := c.Output.Write(false); err != nil {
		glog.Warningf("output off: %v", err)
	}
	return c.Output.Close()
}

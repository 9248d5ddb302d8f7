// Package thermostat simulates an XY-WTH1 relay module behind a serial
// port. It answers commands, streams reports while started and switches its
// relays by the programmed thresholds.
package thermostat

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/clock"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
)

// Defaults of a new Module.
const (
	DefaultReportInterval = time.Second
	DefaultReplyDelay     = 5 * time.Millisecond
	DefaultTemperature    = 21.0
	DefaultHumidity       = 55.0
)

// Replies to commands.
const (
	ReplyOK   = "OK\n"
	ReplyFail = "FAIL\n"
)

// Environment drives the simulated climate. It is called once per report
// with the current relay states and returns the new temperature and
// humidity.
type Environment interface {
	Step(temperature, humidity float64, relays [2]bool) (float64, float64)
}

// EnvironmentFunc adapts a function to Environment.
type EnvironmentFunc func(temperature, humidity float64, relays [2]bool) (float64, float64)

// Step implements Environment.
func (f EnvironmentFunc) Step(temperature, humidity float64, relays [2]bool) (float64, float64) {
	return f(temperature, humidity, relays)
}

// Drift is an Environment where an active relay raises its quantity by
// Rise per report and an inactive one lets it fall by Fall.
type Drift struct {
	Rise [2]float64
	Fall [2]float64
}

// DefaultDrift is used by NewModule.
var DefaultDrift = &Drift{
	Rise: [2]float64{0.2, 0.5},
	Fall: [2]float64{0.1, 0.3},
}

// Step implements Environment.
func (d *Drift) Step(temperature, humidity float64, relays [2]bool) (float64, float64) {
	step := func(v float64, ch int) float64 {
		if relays[ch] {
			return v + d.Rise[ch]
		}
		return v - d.Fall[ch]
	}
	return step(temperature, xywth.RelayTemperature), step(humidity, xywth.RelayHumidity)
}

type pendingByte struct {
	at clock.Ticks
	b  byte
}

// Module is a simulated relay module implementing xywth.Port. Bytes it
// sends become readable at clock times, so a clock.Fake drives it
// deterministically.
type Module struct {
	Clock          clock.Clock
	ReportInterval time.Duration
	ReplyDelay     time.Duration
	// Environment is stepped before each report. Nil keeps the climate.
	Environment Environment

	temperature float64
	humidity    float64
	thresholds  [4]float64
	relays      [2]bool
	streaming   bool
	nextReport  clock.Ticks
	tx          []pendingByte
	commands    []string
	lock        sync.Mutex
}

// NewModule creates a stopped Module with the factory thresholds.
func NewModule(clk clock.Clock) *Module {
	m := &Module{
		Clock:          clk,
		ReportInterval: DefaultReportInterval,
		ReplyDelay:     DefaultReplyDelay,
		Environment:    DefaultDrift,
		temperature:    DefaultTemperature,
		humidity:       DefaultHumidity,
	}
	m.thresholds[xywth.StartTemperature] = xywth.DefaultStartTemperature
	m.thresholds[xywth.StopTemperature] = xywth.DefaultStopTemperature
	m.thresholds[xywth.StartHumidity] = xywth.DefaultStartHumidity
	m.thresholds[xywth.StopHumidity] = xywth.DefaultStopHumidity
	return m
}

// SetClimate sets the current temperature and humidity.
func (m *Module) SetClimate(temperature, humidity float64) {
	m.lock.Lock()
	m.temperature, m.humidity = temperature, humidity
	m.lock.Unlock()
}

// Climate returns the current temperature and humidity.
func (m *Module) Climate() (temperature, humidity float64) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.temperature, m.humidity
}

// Relays returns the relay states.
func (m *Module) Relays() [2]bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.relays
}

// Threshold returns a programmed threshold.
func (m *Module) Threshold(t xywth.Threshold) float64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.thresholds[t]
}

// Streaming reports whether the module was started.
func (m *Module) Streaming() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.streaming
}

// Commands returns the commands received so far.
func (m *Module) Commands() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string(nil), m.commands...)
}

// Inject queues raw bytes to be sent after the delay, e.g. line noise.
func (m *Module) Inject(after time.Duration, data string) {
	m.lock.Lock()
	m.send(m.Clock.Now().Add(after), data)
	m.lock.Unlock()
}

// Write implements io.Writer. Each write is one command.
func (m *Module) Write(data []byte) (int, error) {
	cmd := string(data)
	m.lock.Lock()
	defer m.lock.Unlock()
	m.commands = append(m.commands, cmd)
	now := m.Clock.Now()
	reply := ReplyOK
	if err := m.apply(cmd, now); err != nil {
		glog.V(2).Infof("sim: reject %q: %v", cmd, err)
		reply = ReplyFail
	}
	m.send(now.Add(m.ReplyDelay), reply)
	return len(data), nil
}

// Buffered implements xywth.Port.
func (m *Module) Buffered() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	now := m.Clock.Now()
	m.report(now)
	n := 0
	for _, p := range m.tx {
		if !reached(now, p.at) {
			break
		}
		n++
	}
	return n
}

// ReadByte implements io.ByteReader. It fails when nothing is due.
func (m *Module) ReadByte() (byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if len(m.tx) == 0 || !reached(m.Clock.Now(), m.tx[0].at) {
		return 0, ErrNoData
	}
	b := m.tx[0].b
	m.tx = m.tx[1:]
	return b, nil
}

func (m *Module) apply(cmd string, now clock.Ticks) error {
	switch cmd {
	case xywth.CmdStart:
		if !m.streaming {
			m.streaming = true
			m.nextReport = now.Add(m.ReportInterval)
		}
	case xywth.CmdStop:
		m.streaming = false
	case xywth.CmdTemperatureRelayOn, xywth.CmdTemperatureRelayOff:
		m.relays[xywth.RelayTemperature] = cmd == xywth.CmdTemperatureRelayOn
	case xywth.CmdHumidityRelayOn, xywth.CmdHumidityRelayOff:
		m.relays[xywth.RelayHumidity] = cmd == xywth.CmdHumidityRelayOn
	default:
		return m.applyThreshold(cmd)
	}
	return nil
}

func (m *Module) applyThreshold(cmd string) error {
	items := strings.SplitN(cmd, ":", 2)
	if len(items) != 2 {
		return ErrUnknownCommand
	}
	t, err := xywth.ParseThreshold(items[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(items[1], 64)
	if err != nil {
		return err
	}
	m.thresholds[t] = value
	return nil
}

// report queues every report due at now.
func (m *Module) report(now clock.Ticks) {
	for m.streaming && reached(now, m.nextReport) {
		if env := m.Environment; env != nil {
			m.temperature, m.humidity = env.Step(m.temperature, m.humidity, m.relays)
		}
		m.regulate()
		m.send(m.nextReport, fmt.Sprintf("%.1f %s\n%.1f%% %s\n",
			m.temperature, onOff(m.relays[xywth.RelayTemperature]),
			m.humidity, onOff(m.relays[xywth.RelayHumidity])))
		m.nextReport = m.nextReport.Add(m.ReportInterval)
	}
}

// regulate switches a relay on at or below its start threshold and off
// at or above its stop threshold. Between the two the state is kept.
func (m *Module) regulate() {
	switchBy := func(ch int, v float64, start, stop xywth.Threshold) {
		switch {
		case v <= m.thresholds[start]:
			m.relays[ch] = true
		case v >= m.thresholds[stop]:
			m.relays[ch] = false
		}
	}
	switchBy(xywth.RelayTemperature, m.temperature, xywth.StartTemperature, xywth.StopTemperature)
	switchBy(xywth.RelayHumidity, m.humidity, xywth.StartHumidity, xywth.StopHumidity)
}

func (m *Module) send(at clock.Ticks, data string) {
	for i := 0; i < len(data); i++ {
		m.tx = append(m.tx, pendingByte{at: at, b: data[i]})
	}
}

// reached compares wrapping counter values.
func reached(now, at clock.Ticks) bool {
	return int32(uint32(now)-uint32(at)) >= 0
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

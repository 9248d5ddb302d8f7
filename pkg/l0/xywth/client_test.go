package xywth

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/regulator.go/pkg/clock"
)

const (
	ms        = time.Millisecond
	testEpoch = 1700000000
)

type timedByte struct {
	at time.Duration
	b  byte
}

// scriptPort is a Port whose received bytes become readable at scheduled
// times of a fake clock. Written commands are recorded and may trigger
// scripted replies.
type scriptPort struct {
	clk     *clock.Fake
	base    clock.Ticks
	rx      []timedByte
	written []string
	replies map[string]func(*scriptPort)
	fail    map[string]error
}

func newScriptPort(clk *clock.Fake) *scriptPort {
	return &scriptPort{
		clk:     clk,
		base:    clk.Now(),
		replies: make(map[string]func(*scriptPort)),
		fail:    make(map[string]error),
	}
}

func (p *scriptPort) now() time.Duration {
	return p.clk.Now().Sub(p.base)
}

// emit schedules data to arrive after the delay.
func (p *scriptPort) emit(after time.Duration, data string) {
	at := p.now() + after
	for i := 0; i < len(data); i++ {
		p.rx = append(p.rx, timedByte{at: at, b: data[i]})
	}
}

// trickle schedules data to arrive one byte per gap.
func (p *scriptPort) trickle(after, gap time.Duration, data string) {
	at := p.now() + after
	for i := 0; i < len(data); i++ {
		p.rx = append(p.rx, timedByte{at: at, b: data[i]})
		at += gap
	}
}

func (p *scriptPort) Write(data []byte) (int, error) {
	cmd := string(data)
	p.written = append(p.written, cmd)
	if err := p.fail[cmd]; err != nil {
		return 0, err
	}
	if fn := p.replies[cmd]; fn != nil {
		fn(p)
	}
	return len(data), nil
}

func (p *scriptPort) Buffered() int {
	now, n := p.now(), 0
	for _, b := range p.rx {
		if b.at > now {
			break
		}
		n++
	}
	return n
}

func (p *scriptPort) ReadByte() (byte, error) {
	if p.Buffered() == 0 {
		return 0, io.EOF
	}
	b := p.rx[0].b
	p.rx = p.rx[1:]
	return b, nil
}

func replyOK(p *scriptPort) {
	p.emit(5*ms, "OK\n")
}

type clientTestEnv struct {
	t      *testing.T
	clk    *clock.Fake
	port   *scriptPort
	client *Client
	// report is streamed once after every "start" when set.
	report string
}

func newClientTestEnv(t *testing.T, start clock.Ticks) *clientTestEnv {
	env := &clientTestEnv{t: t, clk: clock.NewFake(start, testEpoch)}
	env.port = newScriptPort(env.clk)
	env.client = NewClient(env.port, env.clk)
	for _, cmd := range []string{CmdStop, CmdTemperatureRelayOn, CmdTemperatureRelayOff, CmdHumidityRelayOn, CmdHumidityRelayOff} {
		env.port.replies[cmd] = replyOK
	}
	env.port.replies[CmdStart] = func(p *scriptPort) {
		replyOK(p)
		if env.report != "" {
			p.emit(100*ms, env.report)
		}
	}
	return env
}

func (e *clientTestEnv) capturing() {
	require.NoError(e.t, e.client.StartCapture())
	require.True(e.t, e.client.Capturing())
	e.port.written = nil
}

func (e *clientTestEnv) elapsed(fn func()) time.Duration {
	start := e.clk.Now()
	fn()
	return e.clk.Now().Sub(start)
}

func TestPollCommitsReading(t *testing.T) {
	for _, start := range []clock.Ticks{0, 0xffffff00} {
		env := newClientTestEnv(t, start)
		env.capturing()
		env.port.emit(10*ms, "23.5\n45.2% OFF\n")
		require.NoError(t, env.client.Poll())
		require.EqualValues(t, 1, env.client.History().Cursor())
		r := env.client.Reading(0)
		require.EqualValues(t, 235, r.Temperature)
		require.EqualValues(t, 452, r.Humidity)
		require.True(t, r.Relays[RelayTemperature])
		require.False(t, r.Relays[RelayHumidity])
		require.True(t, r.Timestamp >= testEpoch)
		require.Empty(t, env.port.written)
	}
}

func TestPollWithoutCaptureIsNoop(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.port.emit(0, "23.5\n45.2%\n")
	d := env.elapsed(func() { require.NoError(t, env.client.Poll()) })
	require.Zero(t, d)
	require.Zero(t, env.client.History().Cursor())
}

func TestTemperatureLineDoesNotCommit(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "18.0 OFF\n")
	require.NoError(t, env.client.Poll())
	require.Zero(t, env.client.History().Cursor())

	env.port.emit(10*ms, "61.5%\n")
	require.NoError(t, env.client.Poll())
	require.EqualValues(t, 1, env.client.History().Cursor())
	r := env.client.Reading(0)
	require.EqualValues(t, 180, r.Temperature)
	require.False(t, r.Relays[RelayTemperature])
	require.EqualValues(t, 615, r.Humidity)
	require.True(t, r.Relays[RelayHumidity])
}

func TestReplyWindowTimesOutWithoutLineFeed(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "23.5")
	d := env.elapsed(func() { require.NoError(t, env.client.Poll()) })
	require.True(t, d > DefaultReplyTimeout && d <= DefaultReplyTimeout+DefaultPollInterval, "window took %v", d)
	require.Zero(t, env.client.History().Cursor())
	require.Zero(t, env.client.intake.len())
}

func TestReplyWindowBoundedUnderContinuousTraffic(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	noise := make([]byte, 5000)
	for i := range noise {
		noise[i] = 'x'
	}
	env.port.trickle(0, ms, string(noise))
	d := env.elapsed(func() { require.NoError(t, env.client.Poll()) })
	require.True(t, d > DefaultReplyTimeout && d < DefaultReplyTimeout+50*ms, "window took %v", d)
	require.Zero(t, env.client.History().Cursor())
}

func TestIntakeOverflowDropsCutLine(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "21.0\n40.0%\n")
	require.NoError(t, env.client.Poll())

	env.port.emit(10*ms, "xxxxxxxxxx23.5\n45.2% OFF\n")
	require.NoError(t, env.client.Poll())
	require.EqualValues(t, 2, env.client.History().Cursor())
	r := env.client.Reading(1)
	require.EqualValues(t, 210, r.Temperature)
	require.EqualValues(t, 452, r.Humidity)
	require.False(t, r.Relays[RelayHumidity])
}

func TestIntakeOverflowWithCRLFReport(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "23.5 OFF\r\n45.2% OFF\r\n")
	require.NoError(t, env.client.Poll())
	require.EqualValues(t, 1, env.client.History().Cursor())
	r := env.client.Reading(0)
	require.Zero(t, r.Temperature)
	require.EqualValues(t, 452, r.Humidity)
}

func TestLongRepliesCommitOnlyCompleteLines(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for n := 0; n < 500; n++ {
		env := newClientTestEnv(t, 0)
		env.capturing()
		temps := map[int16]bool{0: true}
		hums := make(map[int16]bool)
		var raw string
		for len(raw) <= IntakeSize || rnd.Intn(3) > 0 {
			v := int16(100 + rnd.Intn(900))
			line := fmt.Sprintf("%d.%d", v/10, v%10)
			if rnd.Intn(2) == 0 {
				line += "%"
				hums[v] = true
			} else {
				temps[v] = true
			}
			if rnd.Intn(2) == 0 {
				line += " OFF"
			}
			if rnd.Intn(2) == 0 {
				line += "\r"
			}
			raw += line + "\n"
		}
		env.port.emit(10*ms, raw)
		require.NoError(t, env.client.Poll())
		for _, r := range env.client.History().Snapshot() {
			require.True(t, hums[r.Humidity], "humidity %d from %q", r.Humidity, raw)
			require.True(t, temps[r.Temperature], "temperature %d from %q", r.Temperature, raw)
		}
	}
}

func TestIgnoresNonStorableBytes(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "\x0023.5\x7f\n\x0145.2%\xff OFF\n")
	require.NoError(t, env.client.Poll())
	require.EqualValues(t, 1, env.client.History().Cursor())
	r := env.client.Reading(0)
	require.EqualValues(t, 235, r.Temperature)
	require.EqualValues(t, 452, r.Humidity)
	require.False(t, r.Relays[RelayHumidity])
}

func TestHistoryWrapsAfterCapacity(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	for i := 0; i < 25; i++ {
		env.port.emit(10*ms, "20.0\n"+string(rune('0'+i%10))+"0.0%\n")
		require.NoError(t, env.client.Poll())
	}
	h := env.client.History()
	require.EqualValues(t, 25, h.Cursor())
	require.Equal(t, HistorySize, h.Len())
	latest, ok := h.Latest()
	require.True(t, ok)
	require.Equal(t, latest, env.client.Reading(h.Cursor()-1))
	require.EqualValues(t, 400, latest.Humidity)
	require.Len(t, h.Snapshot(), HistorySize)
	require.EqualValues(t, 500, h.Snapshot()[0].Humidity)
}

func TestSendAndWait(t *testing.T) {
	testCases := []struct {
		name      string
		capturing bool
		cmd       string
		report    string
		written   []string
		err       error
	}{
		{
			name:    "threshold while stopped",
			cmd:     "TS:59.0",
			written: []string{"TS:59.0"},
		},
		{
			name:      "threshold while capturing",
			capturing: true,
			cmd:       "HP:99.9",
			written:   []string{CmdStop, "HP:99.9", CmdStart},
		},
		{
			name:    "relay while stopped",
			cmd:     CmdTemperatureRelayOn,
			report:  "23.5\n45.2% OFF\n",
			written: []string{CmdTemperatureRelayOn, CmdStart, CmdStop},
		},
		{
			name:      "relay while capturing",
			capturing: true,
			cmd:       CmdHumidityRelayOff,
			report:    "23.5 OFF\n45.2% OFF\n",
			written:   []string{CmdStop, CmdHumidityRelayOff, CmdStart},
		},
		{
			name:    "relay never confirmed",
			cmd:     CmdHumidityRelayOn,
			written: []string{CmdHumidityRelayOn, CmdStart, CmdStop},
			err:     ErrSettleTimeout,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newClientTestEnv(t, 0)
			if tc.capturing {
				env.capturing()
			}
			env.report = tc.report
			err := env.client.SendAndWait(tc.cmd)
			if tc.err != nil {
				require.True(t, errors.Is(err, tc.err), "unexpected error %v", err)
				var settleErr *SettleError
				require.True(t, errors.As(err, &settleErr))
				require.Equal(t, tc.cmd, settleErr.Command)
				require.Equal(t, DefaultMaxSettleRetries, settleErr.Attempts)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.written, env.port.written)
			require.Equal(t, tc.capturing, env.client.Capturing())
			if tc.report != "" {
				require.EqualValues(t, 1, env.client.History().Cursor())
			}
		})
	}
}

func TestRelayStateFromReport(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.report = "23.5\n45.2% OFF\n"
	require.NoError(t, env.client.SetTemperatureRelay(true))
	latest, ok := env.client.History().Latest()
	require.True(t, ok)
	require.True(t, latest.Relays[RelayTemperature])
	require.False(t, latest.Relays[RelayHumidity])
}

func TestSettleRetriesUntilReport(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.port.replies[CmdStart] = func(p *scriptPort) {
		replyOK(p)
		// a report split across windows is lost, the next one settles
		p.emit(100*ms, "23.5\n45.")
		p.emit(DefaultReplyTimeout+500*ms, "23.5\n45.2%\n")
	}
	require.NoError(t, env.client.SetHumidityRelay(true))
	require.EqualValues(t, 1, env.client.History().Cursor())
}

func TestFailedCommandRestoresCapture(t *testing.T) {
	errWrite := errors.New("write failed")
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.fail["TS:59.0"] = errWrite
	err := env.client.SendAndWait("TS:59.0")
	require.True(t, errors.Is(err, errWrite), "unexpected error %v", err)
	require.Equal(t, []string{CmdStop, "TS:59.0", CmdStart}, env.port.written)
	require.True(t, env.client.Capturing())
}

func TestFailedResumeStopsAgain(t *testing.T) {
	errWrite := errors.New("write failed")
	env := newClientTestEnv(t, 0)
	env.port.fail[CmdStart] = errWrite
	err := env.client.SendAndWait(CmdTemperatureRelayOn)
	require.True(t, errors.Is(err, errWrite), "unexpected error %v", err)
	require.Equal(t, []string{CmdTemperatureRelayOn, CmdStart, CmdStop}, env.port.written)
	require.False(t, env.client.Capturing())
}

func TestSetThresholdRejectsUnknown(t *testing.T) {
	env := newClientTestEnv(t, 0)
	require.True(t, errors.Is(env.client.SetThreshold(Threshold(7), 1), ErrUnknownThreshold))
	require.Empty(t, env.port.written)
}

func TestSetup(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.capturing()
	env.port.emit(10*ms, "20.0\n30.0%\n")
	require.NoError(t, env.client.Poll())
	require.EqualValues(t, 1, env.client.History().Cursor())

	env.report = "23.5 OFF\n45.2% OFF\n"

	require.NoError(t, env.client.Setup())
	require.False(t, env.client.Capturing())
	require.Equal(t, []string{
		CmdStop,
		CmdTemperatureRelayOff, CmdStart, CmdStop,
		CmdHumidityRelayOff, CmdStart, CmdStop,
		"TS:59.0", "HS:99.0", "TP:60.0", "HP:99.9",
	}, env.port.written)
	h := env.client.History()
	require.EqualValues(t, 2, h.Cursor())
	for _, r := range h.Snapshot() {
		require.False(t, r.Relays[RelayTemperature])
		require.False(t, r.Relays[RelayHumidity])
	}
}

func TestSetupAggregatesErrors(t *testing.T) {
	env := newClientTestEnv(t, 0)
	env.client.MaxSettleRetries = 1
	err := env.client.Setup()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrSettleTimeout))
	require.Len(t, env.port.written, 11)
}

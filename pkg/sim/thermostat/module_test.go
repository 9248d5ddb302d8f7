package thermostat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/regulator.go/pkg/clock"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
)

const testEpoch = 1700000000

func newTestModule() (*Module, *clock.Fake) {
	clk := clock.NewFake(0xfffff000, testEpoch)
	m := NewModule(clk)
	m.Environment = nil
	return m, clk
}

func drain(m *Module) string {
	var out []byte
	for m.Buffered() > 0 {
		b, err := m.ReadByte()
		if err != nil {
			break
		}
		out = append(out, b)
	}
	return string(out)
}

func TestCommandReplies(t *testing.T) {
	m, clk := newTestModule()
	testCases := []struct {
		cmd   string
		reply string
	}{
		{xywth.CmdStop, ReplyOK},
		{"TS:18.5", ReplyOK},
		{"TS:abc", ReplyFail},
		{"XX:1.0", ReplyFail},
		{"bogus", ReplyFail},
	}
	for _, tc := range testCases {
		t.Run(tc.cmd, func(t *testing.T) {
			_, err := m.Write([]byte(tc.cmd))
			require.NoError(t, err)
			require.Equal(t, 0, m.Buffered())
			_, err = m.ReadByte()
			require.Equal(t, ErrNoData, err)
			clk.Advance(DefaultReplyDelay)
			require.Equal(t, tc.reply, drain(m))
		})
	}
	require.Equal(t, 18.5, m.Threshold(xywth.StartTemperature))
}

func TestStreamsReportsWhileStarted(t *testing.T) {
	m, clk := newTestModule()
	m.SetClimate(23.5, 45.2)
	m.Write([]byte(xywth.CmdStart))
	clk.Advance(DefaultReplyDelay)
	require.Equal(t, ReplyOK, drain(m))
	require.True(t, m.Streaming())

	clk.Advance(DefaultReportInterval)
	require.Equal(t, "23.5 ON\n45.2% ON\n", drain(m))
	clk.Advance(2 * DefaultReportInterval)
	require.Equal(t, "23.5 ON\n45.2% ON\n23.5 ON\n45.2% ON\n", drain(m))

	m.Write([]byte(xywth.CmdStop))
	clk.Advance(3 * DefaultReportInterval)
	require.Equal(t, ReplyOK, drain(m))
	require.False(t, m.Streaming())
}

func TestRegulatesWithHysteresis(t *testing.T) {
	m, clk := newTestModule()
	for _, cmd := range []string{"TS:20.0", "TP:22.0", "HS:40.0", "HP:60.0", xywth.CmdStart} {
		m.Write([]byte(cmd))
	}
	testCases := []struct {
		temperature, humidity float64
		relays                [2]bool
	}{
		{19.0, 30.0, [2]bool{true, true}},
		{21.0, 50.0, [2]bool{true, true}},
		{22.0, 60.0, [2]bool{false, false}},
		{21.0, 50.0, [2]bool{false, false}},
		{20.0, 40.0, [2]bool{true, true}},
	}
	for _, tc := range testCases {
		m.SetClimate(tc.temperature, tc.humidity)
		clk.Advance(DefaultReportInterval)
		drain(m)
		require.Equal(t, tc.relays, m.Relays(), "T=%v H=%v", tc.temperature, tc.humidity)
	}
}

func TestRelayCommandsOverrideInsideBand(t *testing.T) {
	m, clk := newTestModule()
	m.SetClimate(59.5, 99.5)
	m.Write([]byte(xywth.CmdTemperatureRelayOn))
	m.Write([]byte(xywth.CmdStart))
	clk.Advance(DefaultReportInterval)
	require.Equal(t, "OK\nOK\n59.5 ON\n99.5% OFF\n", drain(m))
}

func TestDrift(t *testing.T) {
	temperature, humidity := DefaultDrift.Step(20, 50, [2]bool{true, false})
	require.InDelta(t, 20.2, temperature, 1e-9)
	require.InDelta(t, 49.7, humidity, 1e-9)
}

func TestClientEndToEnd(t *testing.T) {
	m, clk := newTestModule()
	m.Environment = EnvironmentFunc(func(temperature, humidity float64, relays [2]bool) (float64, float64) {
		return temperature + 0.1, humidity
	})
	m.SetClimate(64.9, 45.0)
	c := xywth.NewClient(m, clk)

	require.NoError(t, c.Setup())
	require.False(t, m.Streaming())
	require.Equal(t, xywth.DefaultStopHumidity, m.Threshold(xywth.StopHumidity))
	require.Equal(t, uint32(2), c.History().Cursor())

	require.NoError(t, c.SetThreshold(xywth.StopTemperature, 66.0))
	require.Equal(t, 66.0, m.Threshold(xywth.StopTemperature))

	require.NoError(t, c.StartCapture())
	m.Inject(0, "\x00\xff")
	before := c.History().Cursor()
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Poll())
	}
	require.Equal(t, before+3, c.History().Cursor())
	latest, ok := c.History().Latest()
	require.True(t, ok)
	require.Equal(t, int16(450), latest.Humidity)
	require.True(t, latest.Relays[xywth.RelayHumidity])
	require.False(t, latest.Relays[xywth.RelayTemperature])
	require.Equal(t, uint32(clk.Time().Unix()), latest.Timestamp)

	require.NoError(t, c.SetHumidityRelay(false))
	require.True(t, c.Capturing())
	require.NoError(t, c.StopCapture())
	require.Equal(t, xywth.CmdStop, m.Commands()[len(m.Commands())-1])
}

func TestReachedWraps(t *testing.T) {
	require.True(t, reached(5, 0xfffffff0))
	require.False(t, reached(0xfffffff0, 5))
	require.True(t, reached(7, 7))
}

package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/regulator.go/pkg/clock"
)

type testMessage struct {
	n int
}

func (m *testMessage) NewMessage() Message { return &testMessage{} }

func TestStepRunsByPriority(t *testing.T) {
	clk := clock.NewFake(42, 1000)
	l := &Loop{Clock: clk}
	var order []int
	record := func(n int) Controller {
		return ControlFunc(func(cc ControlContext) error {
			require.EqualValues(t, 42, cc.Ticks())
			order = append(order, n)
			return nil
		})
	}
	l.AddController(PrLvActuate, record(3))
	l.AddController(PrLvSense, record(1))
	l.AddController(PrLvControl, record(2), ControlFunc(func(cc ControlContext) error {
		cc.PostRun(record(20))
		return errors.New("logged and ignored")
	}))
	l.PreRunAt(PrLvSense, record(0))
	l.Step(context.Background())
	require.Equal(t, []int{0, 1, 2, 20, 3}, order)

	order = nil
	l.Step(context.Background())
	require.Equal(t, []int{1, 2, 20, 3}, order)
}

func TestMessagesFlowThroughIteration(t *testing.T) {
	l := &Loop{Clock: clock.NewFake(0, 0)}
	var seen, leftover []int
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			m := mc.CurrentMessage().(*testMessage)
			seen = append(seen, m.n)
			if m.n%2 == 0 {
				mc.MessageTaken()
			}
			if m.n == 3 {
				mc.AddMessages(&testMessage{n: 10})
				mc.StopProcessing()
			}
		}))
		return nil
	}))
	l.AddController(PrLvPostProc, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			leftover = append(leftover, mc.CurrentMessage().(*testMessage).n)
			mc.MessageTaken()
		}))
		return nil
	}))
	for i := 1; i <= 5; i++ {
		l.PostMessage(&testMessage{n: i})
	}
	l.Step(context.Background())
	require.Equal(t, []int{1, 2, 3}, seen)
	require.Equal(t, []int{1, 3, 4, 5, 10}, leftover)

	seen, leftover = nil, nil
	l.Step(context.Background())
	require.Empty(t, seen)
	require.Empty(t, leftover)
}

func TestRunStopsOnCancel(t *testing.T) {
	l := &Loop{Interval: time.Millisecond, Clock: clock.NewSystem()}
	iterations := make(chan *Loop, 1)
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		select {
		case iterations <- LoopCtlFrom(cc.Context()).(*loopIteration).Loop:
		default:
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	select {
	case running := <-iterations:
		require.Equal(t, l, running)
	case <-time.After(time.Second):
		t.Fatal("no iteration")
	}
	cancel()
	require.True(t, errors.Is(<-errCh, context.Canceled))
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	errA, errB := errors.New("a"), errors.New("b")
	err := errs.Add(errA, nil).Aggregate()
	require.Equal(t, "a", err.Error())
	err = errs.Add(errB).Aggregate()
	require.Equal(t, "Multiple errors:\na\nb", err.Error())
	require.True(t, errors.Is(err, errB))
}

func TestRunnerCollectsErrors(t *testing.T) {
	errFail := errors.New("fail")
	r := NewRunner().Go(
		NamedRun("canceled", runFunc(func(ctx context.Context) error { return context.Canceled })),
		runFunc(func(ctx context.Context) error { return errFail }),
	)
	err := r.Wait()
	require.True(t, errors.Is(err, errFail))
	require.False(t, errors.Is(err, context.Canceled))
	require.Equal(t, "runnable-1: fail", err.Error())

	err = NewRunner().Go(NamedRun("mqtt", runFunc(func(ctx context.Context) error { return errFail }))).Wait()
	require.Equal(t, "mqtt: fail", err.Error())
}

type runFunc func(context.Context) error

func (f runFunc) Run(ctx context.Context) error { return f(ctx) }

package comm

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/comm/stream"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
	pb "github.com/robotalks/regulator.go/pkg/proto/regulator/v1"
)

type commTestEnv struct {
	t        *testing.T
	cancel   context.CancelFunc
	node     *fx.Loop
	super    *fx.Loop
	reg      Registrar
	conn     ControllerConn
	events   chan fx.Message
	nodeEnd  net.Conn
	superEnd net.Conn
	errCh    chan error
}

func newCommTestEnv(t *testing.T) *commTestEnv {
	env := &commTestEnv{
		t:      t,
		node:   &fx.Loop{Interval: 5 * time.Millisecond},
		super:  &fx.Loop{Interval: 5 * time.Millisecond},
		events: make(chan fx.Message, 4),
		errCh:  make(chan error, 2),
	}
	env.nodeEnd, env.superEnd = net.Pipe()
	env.reg.Init(stream.New(env.nodeEnd))
	env.conn.Init(stream.New(env.superEnd))

	env.node.Add(&env.reg, &UnsupportedCommands{})
	env.node.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		var errs fx.AggregatedError
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			cmd, ok := mc.CurrentMessage().(*l1.CommandMsg)
			if !ok {
				return
			}
			if _, ok := cmd.Command.Msg().(*msgs.StatusQuery); ok {
				mc.MessageTaken()
				errs.Add(cmd.Command.Done(&msgs.Status{Status: pb.Status{Capturing: true, Cursor: 3}}))
			}
		}))
		return errs.Aggregate()
	}))

	env.super.Add(&env.conn)
	env.super.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			mc.MessageTaken()
			env.events <- mc.CurrentMessage()
		}))
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go func() { env.errCh <- env.node.Run(ctx) }()
	go func() { env.errCh <- env.super.Run(ctx) }()
	return env
}

func (e *commTestEnv) close() {
	e.cancel()
	e.nodeEnd.Close()
	e.superEnd.Close()
	for i := 0; i < 2; i++ {
		<-e.errCh
	}
}

func (e *commTestEnv) result(f l1.CommandFuture) l1.Result {
	select {
	case r := <-f.ResultChan():
		return r
	case <-time.After(time.Second):
		e.t.Fatal("result timeout")
	}
	return l1.Result{}
}

func TestCommandReply(t *testing.T) {
	env := newCommTestEnv(t)
	defer env.close()

	r := env.result(env.conn.DoCommand(&msgs.StatusQuery{}))
	require.NoError(t, r.Err)
	status, ok := r.Msg.(*msgs.Status)
	require.True(t, ok)
	require.True(t, status.Capturing)
	require.EqualValues(t, 3, status.Cursor)

	r = env.result(env.conn.DoCommand(&msgs.RelaySet{RelaySet: pb.RelaySet{Channel: 1, On: true}}))
	var cmdErr *msgs.CommandErr
	require.True(t, errors.As(r.Err, &cmdErr))
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Message)
}

func TestEventDelivery(t *testing.T) {
	env := newCommTestEnv(t)
	defer env.close()

	ev := msgs.NewReadingEvent(4, xywth.Reading{Temperature: 235, Humidity: 452})
	require.NoError(t, env.reg.SendEvent(context.Background(), ev))
	select {
	case msg := <-env.events:
		received, ok := msg.(*msgs.ReadingEvent)
		require.True(t, ok)
		pos, r := msgs.ReadingOf(received.Reading)
		require.EqualValues(t, 4, pos)
		require.EqualValues(t, 235, r.Temperature)
	case <-time.After(time.Second):
		t.Fatal("event timeout")
	}

	require.Equal(t, ErrNotEvent, env.reg.SendEvent(context.Background(), &msgs.StatusQuery{}))
}

type blackhole struct{}

func (blackhole) ReadPacket() ([]byte, error) { select {} }
func (blackhole) WritePacket([]byte) error    { return nil }

func TestCommandExpiration(t *testing.T) {
	var conn ControllerConn
	conn.Init(blackhole{})
	now := time.Unix(1700000000, 0)
	conn.Now = func() time.Time { return now }
	f := conn.DoCommand(&msgs.StatusQuery{})
	require.NoError(t, conn.purgeExpired(nil))
	require.Len(t, f.ResultChan(), 0)

	now = now.Add(DefaultCommandExpiration + time.Second)
	require.NoError(t, conn.purgeExpired(nil))
	r := <-f.ResultChan()
	require.Equal(t, context.DeadlineExceeded, r.Err)

	f = conn.DoCommand(&msgs.StatusQuery{})
	require.NoError(t, conn.Close())
	r = <-f.ResultChan()
	require.Equal(t, ErrConnClosed, r.Err)
}

func TestSendRejectsWrongKind(t *testing.T) {
	p := NewPipe(blackhole{})
	require.Equal(t, ErrNotCommand, p.SendCommandMsg(msgs.NewReadingEvent(0, xywth.Reading{}), 1))
	require.Equal(t, msgs.ErrNotSerializable, p.SendEventMsg(&l1.CommandMsg{}))
}

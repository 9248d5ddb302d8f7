package websocket

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
	"github.com/robotalks/regulator.go/pkg/l1/comm"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
)

func TestRegistrarAndConnector(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	info := l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: "xywth", ID: "test"},
		Meta: l1.ControllerMeta{Description: "greenhouse"},
	}
	reg := NewRegistrar("", info)
	reg.Listener = ln

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	node := &fx.Loop{Interval: 5 * time.Millisecond}
	node.Add(reg, &comm.UnsupportedCommands{})
	go node.Run(ctx)

	connector, err := NewConnector("ws://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	infoList, err := connector.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{info}, infoList)

	conn, err := connector.Connect(ctx, info.Ref)
	require.NoError(t, err)
	defer conn.Close()
	events := make(chan fx.Message, 1)
	super := &fx.Loop{Interval: 5 * time.Millisecond}
	super.Add(conn.(fx.LoopAdder))
	super.AddController(fx.PrLvNormal, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mc fx.MessageProcessingContext) {
			mc.MessageTaken()
			events <- mc.CurrentMessage()
		}))
		return nil
	}))
	go super.Run(ctx)

	select {
	case r := <-conn.DoCommand(&msgs.StatusQuery{}).ResultChan():
		var cmdErr *msgs.CommandErr
		require.True(t, errors.As(r.Err, &cmdErr))
	case <-time.After(time.Second):
		t.Fatal("command timeout")
	}

	require.NoError(t, reg.SendEvent(ctx, msgs.NewReadingEvent(1, xywth.Reading{Humidity: 452})))
	select {
	case msg := <-events:
		require.IsType(t, &msgs.ReadingEvent{}, msg)
	case <-time.After(time.Second):
		t.Fatal("event timeout")
	}
}

func TestConnectorRejectsScheme(t *testing.T) {
	_, err := NewConnector("mqtt://localhost:1883")
	require.Error(t, err)
}

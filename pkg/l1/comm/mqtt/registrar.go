package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l1"
	"github.com/robotalks/regulator.go/pkg/l1/comm"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
)

// Topics under type/id published by a Registrar.
const (
	// MetaTopic holds the retained ControllerMeta JSON while the node is
	// registered. An empty retained payload unregisters it.
	MetaTopic = "meta"
	// ReadingTopic holds the retained JSON of the latest reading.
	ReadingTopic = "reading"
)

// Registrar implements l1.Registrar using MQTT.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON  []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.Name()+"/"+MetaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("regulator:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

// SendEvent implements Registrar. Readings are also published retained
// as JSON for subscribers that do not speak the typed protocol.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	if err := r.registrar.SendEvent(ctx, msg); err != nil {
		return err
	}
	if ev, ok := msg.(*msgs.ReadingEvent); ok && ev.Reading != nil {
		data, err := json.Marshal(ev.Reading)
		if err != nil {
			return err
		}
		r.Queue.PubWith(r.topic(ReadingTopic), data, 0, true)
	}
	return nil
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if token := r.Queue.Connect(); token.Wait() && token.Error() != nil {
		glog.Warningf("MQTT connect: %v, retrying in background", token.Error())
	}
	<-ctx.Done()
	r.Queue.PubWith(r.topic(MetaTopic), nil, 1, true).Wait()
	r.Queue.Close()
	return nil
}

func (r *Registrar) topic(name string) string {
	return r.Info.Ref.Name() + "/" + name
}

func (r *Registrar) onConnected() {
	r.Queue.PubWith(r.topic(MetaTopic), r.metaJSON, 1, true)
}

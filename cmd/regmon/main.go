package main

import (
	"flag"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/regulator.go/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/regulator/"
)

func init() {
	if val := os.Getenv("REG_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	flag.Set("logtostderr", "true")

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		glog.Exit(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		glog.Exit(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+mqtt.MetaTopic) || strings.HasSuffix(topic, "/"+mqtt.ReadingTopic) {
			glog.Infof("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			glog.Warningf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			glog.Warningf("%s: %v decode error: %v", topic, typed, err)
			return
		}
		glog.Infof("%s: %v %s", topic, typed, msg.(msgs.SerializableMessage).Serializable().String())
	}))
	<-(chan struct{})(nil)
}

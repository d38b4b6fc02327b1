package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/Tschucker/radZone/pkg/mqtt"
)

var (
	mqttURL  = "mqtt://localhost:1883/radzone/"
	encoding = "hex"
)

func init() {
	if val := os.Getenv("RADZONE_MQTT_URL"); val != "" {
		mqttURL = val
	}
	if val := os.Getenv("RADZONE_ENCODING"); val != "" {
		encoding = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&encoding, "encoding", encoding, "Frame encoding used by the bridges.")
}

func formatFrame(payload []byte) string {
	switch encoding {
	case "hex":
		return string(payload)
	case "proto":
		var msg structpb.Struct
		if err := proto.Unmarshal(payload, &msg); err != nil {
			return fmt.Sprintf("bad message: %v", err)
		}
		return fmt.Sprintf("%s [%v] %s",
			msg.Fields["received_at"].GetStringValue(),
			msg.Fields["length"].GetNumberValue(),
			msg.Fields["payload"].GetStringValue())
	}
	return fmt.Sprintf("% X", payload)
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)
	if _, err := mqtt.EncoderByName(encoding); err != nil {
		log.Fatalln(err)
	}

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("+/"+mqtt.TopicStatus, mqtt.Handler(func(topic string, payload []byte) {
		log.Printf("%s: %s", topic, string(payload))
	}))
	q.Sub("+/"+mqtt.TopicFrame, mqtt.Handler(func(topic string, payload []byte) {
		node := strings.TrimSuffix(topic, "/"+mqtt.TopicFrame)
		log.Printf("%s: %s", node, formatFrame(payload))
	}))
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	<-(chan struct{})(nil)
}

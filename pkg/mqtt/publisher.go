package mqtt

import (
	"context"
	"sync/atomic"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/link"
)

// Topics relative to the node.
const (
	TopicFrame  = "frame"
	TopicSet    = "set"
	TopicQuery  = "query"
	TopicStatus = "status"
)

// Publisher is the publishing side of Queue.
type Publisher interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// FramePublisher publishes received frames.
type FramePublisher struct {
	Publisher Publisher
	Encoder   Encoder
	Topic     string
	QoS       byte

	failures uint64
}

// NewFramePublisher creates a FramePublisher on the frame topic of node.
func NewFramePublisher(pub Publisher, node string, enc Encoder) *FramePublisher {
	return &FramePublisher{Publisher: pub, Encoder: enc, Topic: node + "/" + TopicFrame}
}

// HandleFrame implements link.FrameHandler.
func (p *FramePublisher) HandleFrame(ctx context.Context, frame *link.Frame) {
	payload, err := p.Encoder.Encode(frame)
	if err != nil {
		glog.Errorf("encode frame % X: %v", frame.Payload, err)
		return
	}
	go p.checkToken(p.Publisher.PubWith(p.Topic, payload, p.QoS, false))
}

// Failures returns the number of failed publishes.
func (p *FramePublisher) Failures() uint64 {
	return atomic.LoadUint64(&p.failures)
}

func (p *FramePublisher) checkToken(token paho.Token) {
	if token.Wait() && token.Error() != nil {
		atomic.AddUint64(&p.failures, 1)
		glog.Warningf("publish %q: %v", p.Topic, token.Error())
	}
}

// Package bridge publishes radar frames to MQTT and forwards MQTT requests
// to the radar.
package bridge

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/link"
	"github.com/Tschucker/radZone/pkg/mqtt"
	"github.com/Tschucker/radZone/pkg/transport"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"
)

// ConnectTimeout bounds the initial broker connection.
var ConnectTimeout = 10 * time.Second

// Bridge connects one radar link with an MQTT broker.
type Bridge struct {
	Node         string
	Link         *link.Link
	Queue        *mqtt.Queue
	Stream       io.ReadWriteCloser
	InitCommands Commands
}

// NewBridge opens the link and creates the MQTT queue.
func (c *Config) NewBridge() (*Bridge, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	enc, err := mqtt.EncoderByName(c.Encoding)
	if err != nil {
		return nil, err
	}
	opts, prefix, err := mqtt.ClientOptionsFromURL(c.MQTTURL)
	if err != nil {
		return nil, err
	}
	node := c.NodeID()
	if opts.ClientID == "" {
		opts.SetClientID("radzone-" + node)
	}
	opts.SetWill(prefix+node+"/"+mqtt.TopicStatus, statusOffline, 1, true)

	stream, err := transport.Dial(c.LinkURL)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		Node:         node,
		Link:         link.New(stream),
		Queue:        mqtt.NewQueue(opts, prefix),
		Stream:       stream,
		InitCommands: c.InitCommands,
	}
	b.Link.PollInterval = c.PollInterval
	b.Link.Handler = mqtt.NewFramePublisher(b.Queue, node, enc)
	b.Queue.OnConnect = func(q *mqtt.Queue) {
		q.PubWith(node+"/"+mqtt.TopicStatus, []byte(statusOnline), 1, true)
	}
	(&mqtt.CommandSubscriber{Sender: b.Link, Node: node}).Subscribe(b.Queue)
	return b, nil
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "bridge:" + b.Node
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	token := b.Queue.Connect()
	if !token.WaitTimeout(ConnectTimeout) {
		b.Stream.Close()
		return context.DeadlineExceeded
	}
	if err := token.Error(); err != nil {
		b.Stream.Close()
		return err
	}
	defer b.Queue.Close()

	for _, cmd := range b.InitCommands {
		glog.Infof("init %s", cmd)
		if err := b.Link.SetParam(cmd.Code, cmd.Param); err != nil {
			b.Stream.Close()
			return err
		}
	}

	glog.Infof("bridge %s started", b.Node)
	err := RunWithContextCloser(ctx, b.Stream, func() error {
		return b.Link.Run(ctx)
	})
	stats := b.Link.Stats()
	glog.Infof("bridge %s stopped: %d frames, %d invalid, %d bytes read",
		b.Node, stats.Frames, stats.Invalid, stats.BytesRead)
	b.Queue.PubWith(b.Node+"/"+mqtt.TopicStatus, []byte(statusOffline), 1, true).WaitTimeout(time.Second)
	return err
}

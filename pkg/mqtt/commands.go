package mqtt

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/ld303"
)

// Sender writes requests to a radar link.
type Sender interface {
	Query(payload ...byte) error
	SetParam(cmd ld303.CommandCode, param uint16) error
}

// Subscriber is the subscribing side of Queue.
type Subscriber interface {
	Sub(topic string, handler Handler) *Subscription
}

// CommandSubscriber forwards requests received on the set/query topics of
// a node to a Sender. Replies arrive as regular frames.
type CommandSubscriber struct {
	Sender Sender
	Node   string
}

// Subscribe subscribes the set and query topics.
func (c *CommandSubscriber) Subscribe(sub Subscriber) []*Subscription {
	return []*Subscription{
		sub.Sub(c.Node+"/"+TopicSet, c.handleSet),
		sub.Sub(c.Node+"/"+TopicQuery, c.handleQuery),
	}
}

func (c *CommandSubscriber) handleSet(topic string, payload []byte) {
	cmd, err := ParseSetMessage(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	if err := c.Sender.SetParam(cmd.Code, cmd.Param); err != nil {
		glog.Errorf("%s: send %s: %v", topic, cmd, err)
	}
}

func (c *CommandSubscriber) handleQuery(topic string, payload []byte) {
	data, err := ParseQueryMessage(payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		return
	}
	if err := c.Sender.Query(data...); err != nil {
		glog.Errorf("%s: send query % X: %v", topic, data, err)
	}
}

// ParseSetMessage parses "CODE PARAM", e.g. "protocol-type 7" or "F6 0x0007".
func ParseSetMessage(payload []byte) (ld303.Command, error) {
	fields := strings.Fields(string(payload))
	if len(fields) != 2 {
		return ld303.Command{}, fmt.Errorf("invalid set message %q, expect CODE PARAM", payload)
	}
	return ld303.ParseCommand(fields[0], fields[1])
}

// ParseQueryMessage parses hex bytes, separated by spaces or not.
// An empty message is the measurement query.
func ParseQueryMessage(payload []byte) ([]byte, error) {
	s := strings.Join(strings.Fields(string(payload)), "")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid query message %q: %v", payload, err)
	}
	if len(data) > ld303.MaxQueryPayload {
		return nil, ld303.ErrPayloadTooLarge
	}
	return data, nil
}

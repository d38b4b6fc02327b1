package link

import (
	"context"
	"time"

	"github.com/Tschucker/radZone/pkg/ld303"
)

// Frame is a verified uplink frame.
type Frame struct {
	Payload    []byte
	ReceivedAt time.Time
}

// Raw re-encodes the full uplink frame including header and checksum.
func (f *Frame) Raw() []byte {
	return ld303.AppendUplink(make([]byte, 0, len(f.Payload)+4), f.Payload)
}

// FrameHandler is called when a frame is received.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame)
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) {
	f(ctx, frame)
}

// Handlers fans a frame out to multiple handlers in order.
type Handlers []FrameHandler

// HandleFrame implements FrameHandler.
func (h Handlers) HandleFrame(ctx context.Context, frame *Frame) {
	for _, handler := range h {
		handler.HandleFrame(ctx, frame)
	}
}

package sh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/link"
	"github.com/Tschucker/radZone/pkg/transport"
)

const frameBacklog = 16

// ErrTimeout indicates no frame arrived in time.
var ErrTimeout = errors.New("timeout")

// Session is an open radar link.
type Session struct {
	URL  string
	Link *link.Link

	stream io.ReadWriteCloser
	cancel func()
	doneCh chan struct{}
	err    error

	frameCh chan *link.Frame
	monitor link.FrameHandler
}

// OpenSession dials the link and starts receiving frames. Received frames
// are passed to monitor, if not nil, and kept for NextFrames.
func OpenSession(url string, monitor link.FrameHandler) (*Session, error) {
	stream, err := transport.Dial(url)
	if err != nil {
		return nil, err
	}
	s := &Session{
		URL:     url,
		Link:    link.New(stream),
		stream:  stream,
		doneCh:  make(chan struct{}),
		frameCh: make(chan *link.Frame, frameBacklog),
		monitor: monitor,
	}
	s.Link.Handler = link.HandleFrameFunc(s.handleFrame)
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go s.run(ctx)
	return s, nil
}

func (s *Session) run(ctx context.Context) {
	defer close(s.doneCh)
	s.err = s.Link.Run(ctx)
	if ctx.Err() != nil {
		s.err = ctx.Err()
	}
	if s.err != context.Canceled {
		glog.Warningf("link %s stopped: %v", s.URL, s.err)
	}
}

func (s *Session) handleFrame(ctx context.Context, frame *link.Frame) {
	if s.monitor != nil {
		s.monitor.HandleFrame(ctx, frame)
	}
	select {
	case s.frameCh <- frame:
	default:
		// drop the oldest one to keep the latest frames
		select {
		case <-s.frameCh:
		default:
		}
		s.frameCh <- frame
	}
}

// Done is closed when the link stops.
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}

// Err returns why the link stopped.
func (s *Session) Err() error {
	select {
	case <-s.doneCh:
		return s.err
	default:
		return nil
	}
}

// Drain discards frames received so far.
func (s *Session) Drain() {
	for {
		select {
		case <-s.frameCh:
		default:
			return
		}
	}
}

// NextFrames waits for n frames, each within timeout.
func (s *Session) NextFrames(n int, timeout time.Duration) ([]*link.Frame, error) {
	frames := make([]*link.Frame, 0, n)
	for len(frames) < n {
		select {
		case frame := <-s.frameCh:
			frames = append(frames, frame)
		case <-s.doneCh:
			return frames, fmt.Errorf("link stopped: %v", s.err)
		case <-time.After(timeout):
			return frames, ErrTimeout
		}
	}
	return frames, nil
}

// Close stops receiving and closes the stream.
func (s *Session) Close() error {
	s.cancel()
	err := s.stream.Close()
	<-s.doneCh
	return err
}

package link

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tschucker/radZone/pkg/ld303"
)

type testStream struct {
	chunkCh chan []byte
	writeCh chan []byte
	closed  chan struct{}
	once    sync.Once
}

func newTestStream() *testStream {
	return &testStream{
		chunkCh: make(chan []byte, 16),
		writeCh: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (s *testStream) Read(p []byte) (int, error) {
	select {
	case b := <-s.chunkCh:
		return copy(p, b), nil
	case <-s.closed:
		return 0, io.EOF
	}
}

func (s *testStream) Write(p []byte) (int, error) {
	b := make([]byte, len(p))
	copy(b, p)
	s.writeCh <- b
	return len(p), nil
}

func (s *testStream) inject(p ...byte) {
	s.chunkCh <- p
}

func (s *testStream) close() {
	s.once.Do(func() { close(s.closed) })
}

func (s *testStream) expectWrite(t *testing.T, expect []byte) {
	select {
	case b := <-s.writeCh:
		require.Equal(t, expect, b)
	case <-time.After(time.Second):
		t.Fatal("expect write timeout")
	}
}

type linkTestCtx struct {
	t       *testing.T
	stream  *testStream
	link    *Link
	frameCh chan *Frame
	errCh   chan error
	cancel  func()
}

func newLinkTestCtx(t *testing.T, setup func(*Link)) *linkTestCtx {
	c := &linkTestCtx{
		t:       t,
		stream:  newTestStream(),
		frameCh: make(chan *Frame, 16),
		errCh:   make(chan error, 1),
	}
	c.link = New(c.stream)
	c.link.Handler = HandleFrameFunc(func(ctx context.Context, frame *Frame) {
		c.frameCh <- frame
	})
	if setup != nil {
		setup(c.link)
	}
	var ctx context.Context
	ctx, c.cancel = context.WithCancel(context.Background())
	go func() {
		c.errCh <- c.link.Run(ctx)
	}()
	return c
}

func (c *linkTestCtx) expectFrame(payload []byte) *Frame {
	select {
	case frame := <-c.frameCh:
		require.Equal(c.t, payload, frame.Payload)
		require.False(c.t, frame.ReceivedAt.IsZero())
		return frame
	case <-time.After(time.Second):
		c.t.Fatal("expect frame timeout")
	}
	return nil
}

func (c *linkTestCtx) expectExit(expect error) {
	select {
	case err := <-c.errCh:
		require.Equal(c.t, expect, err)
	case <-time.After(time.Second):
		c.t.Fatal("expect exit timeout")
	}
}

func TestLinkReceive(t *testing.T) {
	c := newLinkTestCtx(t, nil)
	defer c.cancel()

	payload := []byte{0x01, 0x00, 0x7B, 0x00, 0x01, 0x32, 0x01, 0x00}
	frame := ld303.AppendUplink(nil, payload)
	c.stream.inject(frame...)
	f := c.expectFrame(payload)
	require.Equal(t, frame, f.Raw())

	// split across reads with leading noise
	c.stream.inject(0x00, 0x55, 0x00)
	c.stream.inject(frame[:3]...)
	c.stream.inject(frame[3:]...)
	c.expectFrame(payload)

	// two frames in one read
	c.stream.inject(append(ld303.AppendUplink(nil, []byte{1}), ld303.AppendUplink(nil, []byte{2})...)...)
	c.expectFrame([]byte{1})
	c.expectFrame([]byte{2})

	c.stream.close()
	c.expectExit(io.EOF)

	stats := c.link.Stats()
	require.Equal(t, uint64(4), stats.Frames)
	require.Equal(t, uint64(0), stats.Invalid)
	require.Equal(t, uint64(2*len(frame)+3+10), stats.BytesRead)
}

func TestLinkInvalidChecksum(t *testing.T) {
	c := newLinkTestCtx(t, nil)
	defer c.cancel()

	bad := ld303.AppendUplink(nil, []byte{1, 2, 3})
	bad[len(bad)-1]++
	c.stream.inject(bad...)
	c.stream.inject(ld303.AppendUplink(nil, []byte{4})...)
	c.expectFrame([]byte{4})
	c.stream.close()
	c.expectExit(io.EOF)

	stats := c.link.Stats()
	require.Equal(t, uint64(1), stats.Frames)
	require.Equal(t, uint64(1), stats.Invalid)
}

func TestLinkSend(t *testing.T) {
	c := newLinkTestCtx(t, nil)
	defer c.cancel()

	require.NoError(t, c.link.Query())
	c.stream.expectWrite(t, []byte{0x55, 0x5A, 0x02, 0xD3, 0x84})
	require.NoError(t, c.link.Query(0x01, 0x02))
	c.stream.expectWrite(t, []byte{0x55, 0x5A, 0x03, 0x01, 0x02, 0xB5})
	require.NoError(t, c.link.SetParam(ld303.CmdProtocolType, 7))
	c.stream.expectWrite(t, []byte{0xBA, 0xAB, 0x00, 0xF6, 0x00, 0x07, 0x00, 0x55, 0xBB})
	require.Equal(t, ld303.ErrPayloadTooLarge, c.link.Query(make([]byte, ld303.MaxQueryPayload+1)...))

	require.Equal(t, uint64(5+6+9), c.link.Stats().BytesWritten)
	c.cancel()
	c.expectExit(context.Canceled)
}

func TestLinkPoll(t *testing.T) {
	c := newLinkTestCtx(t, func(l *Link) {
		l.PollInterval = 10 * time.Millisecond
	})
	defer c.cancel()
	c.stream.expectWrite(t, ld303.MeasurementQuery().Bytes())
	c.stream.expectWrite(t, ld303.MeasurementQuery().Bytes())
	c.cancel()
	c.expectExit(context.Canceled)
}

func TestLinkNotReady(t *testing.T) {
	var l Link
	require.Equal(t, ErrNotReady, l.Send([]byte{1}))
	require.Equal(t, ErrNotReady, l.Run(context.Background()))
}

func TestHandlers(t *testing.T) {
	var got []int
	h := Handlers{
		HandleFrameFunc(func(context.Context, *Frame) { got = append(got, 1) }),
		HandleFrameFunc(func(context.Context, *Frame) { got = append(got, 2) }),
	}
	h.HandleFrame(context.Background(), &Frame{})
	require.Equal(t, []int{1, 2}, got)
}

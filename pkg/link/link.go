package link

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/Tschucker/radZone/pkg/ld303"
)

// ErrNotReady indicates the link has no stream to write to.
var ErrNotReady = errors.New("not ready")

// Stats counts link traffic.
type Stats struct {
	Frames       uint64
	Invalid      uint64
	BytesRead    uint64
	BytesWritten uint64
}

// Link sends requests and receives frames over a stream.
type Link struct {
	ReadWriter io.ReadWriter
	Handler    FrameHandler
	// PollInterval sends PollPayload as a query periodically when > 0.
	PollInterval time.Duration
	PollPayload  []byte

	writeLock sync.Mutex
	statsLock sync.Mutex
	stats     Stats

	parser ld303.Parser
}

// New creates a Link.
func New(rw io.ReadWriter) *Link {
	return &Link{
		ReadWriter:  rw,
		PollPayload: []byte{byte(ld303.CmdMeasurement)},
	}
}

// Stats returns a snapshot of traffic counters.
func (l *Link) Stats() Stats {
	l.statsLock.Lock()
	defer l.statsLock.Unlock()
	return l.stats
}

// Send writes an encoded frame.
func (l *Link) Send(frame []byte) error {
	if l.ReadWriter == nil {
		return ErrNotReady
	}
	l.writeLock.Lock()
	n, err := l.ReadWriter.Write(frame)
	l.writeLock.Unlock()
	l.statsLock.Lock()
	l.stats.BytesWritten += uint64(n)
	l.statsLock.Unlock()
	if err != nil {
		return err
	}
	glog.V(2).Infof("SND % X", frame)
	return nil
}

// Query sends a query frame. Without payload it queries measurement data.
func (l *Link) Query(payload ...byte) error {
	if len(payload) == 0 {
		payload = []byte{byte(ld303.CmdMeasurement)}
	}
	if len(payload) > ld303.MaxQueryPayload {
		return ld303.ErrPayloadTooLarge
	}
	return l.Send(ld303.AppendQuery(nil, payload))
}

// SetParam sends a parameter-set command frame.
func (l *Link) SetParam(cmd ld303.CommandCode, param uint16) error {
	return l.Send(ld303.Command{Code: cmd, Param: param}.Bytes())
}

// Run parses the stream until it fails or ctx is done.
func (l *Link) Run(ctx context.Context) error {
	if l.ReadWriter == nil {
		return ErrNotReady
	}
	l.parser.Reset()

	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, chunkCh, errCh)

	var pollCh <-chan time.Time
	if l.PollInterval > 0 {
		ticker := time.NewTicker(l.PollInterval)
		defer ticker.Stop()
		pollCh = ticker.C
	}

	for {
		select {
		case chunk := <-chunkCh:
			l.consume(ctx, chunk)
		case <-pollCh:
			if err := l.Query(l.PollPayload...); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Link) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	buf := make([]byte, ld303.MaxFrameLength)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := l.ReadWriter.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (l *Link) consume(ctx context.Context, chunk []byte) {
	var frames []*Frame
	var invalid uint64
	for _, b := range chunk {
		switch l.parser.Step(b) {
		case ld303.ResultFrame:
			frames = append(frames, &Frame{Payload: l.parser.Payload(), ReceivedAt: time.Now()})
		case ld303.ResultInvalid:
			invalid++
		}
	}

	l.statsLock.Lock()
	l.stats.BytesRead += uint64(len(chunk))
	l.stats.Frames += uint64(len(frames))
	l.stats.Invalid += invalid
	l.statsLock.Unlock()

	if invalid > 0 {
		glog.Warningf("dropped %d frame(s) with invalid checksum", invalid)
	}
	for _, frame := range frames {
		glog.V(2).Infof("RCV % X", frame.Payload)
		if h := l.Handler; h != nil {
			h.HandleFrame(ctx, frame)
		}
	}
}

// Package transport opens byte streams to a radar module from a URL.
//
// Supported schemes:
//
//	serial:///dev/ttyUSB0?baud=115200&timeout=100ms
//	tcp://host:port
//	ws://host/path, wss://host/path
//
// A URL without scheme is taken as a serial device path.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// ErrUnsupportedScheme indicates the URL scheme has no dialer.
var ErrUnsupportedScheme = errors.New("unsupported scheme")

// DialFunc opens a stream from a parsed URL.
type DialFunc func(u *url.URL) (io.ReadWriteCloser, error)

var (
	dialers     = make(map[string]DialFunc)
	dialersLock sync.RWMutex
)

// Register adds or replaces the dialer of a scheme.
func Register(scheme string, dial DialFunc) {
	dialersLock.Lock()
	dialers[scheme] = dial
	dialersLock.Unlock()
}

// Dial opens a stream.
func Dial(rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %v", err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = SchemeSerial
	}
	dialersLock.RLock()
	dial := dialers[scheme]
	dialersLock.RUnlock()
	if dial == nil {
		return nil, fmt.Errorf("%v: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return dial(u)
}

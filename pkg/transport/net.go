package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"time"

	"golang.org/x/net/websocket"
)

// DialTimeout bounds connecting to network links.
var DialTimeout = 5 * time.Second

func dialTCP(u *url.URL) (io.ReadWriteCloser, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("tcp host not specified")
	}
	return net.DialTimeout("tcp", u.Host, DialTimeout)
}

// dialWebSocket connects serial-over-websocket bridges. Frames are
// exchanged as binary messages, the origin can be set with the "origin"
// query parameter.
func dialWebSocket(u *url.URL) (io.ReadWriteCloser, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("websocket host not specified")
	}
	query := u.Query()
	origin := query.Get("origin")
	if origin == "" {
		origin = "http://localhost/"
	}
	query.Del("origin")
	target := *u
	target.RawQuery = query.Encode()
	cfg, err := websocket.NewConfig(target.String(), origin)
	if err != nil {
		return nil, err
	}
	cfg.Dialer = &net.Dialer{Timeout: DialTimeout}
	conn, err := websocket.DialConfig(cfg)
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}

func init() {
	Register("tcp", dialTCP)
	Register("ws", dialWebSocket)
	Register("wss", dialWebSocket)
}

package transport

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/tarm/serial"
)

// SchemeSerial is the scheme of serial port URLs.
const SchemeSerial = "serial"

// DefaultBaud is the factory baud rate of the module.
const DefaultBaud = 115200

// SerialConfig holds serial port configuration.
type SerialConfig struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string
	Baud   int
	// ReadTimeout of 0 blocks reads.
	ReadTimeout time.Duration
}

// ParseSerialConfig extracts serial port configuration from URL.
func ParseSerialConfig(u *url.URL) (*SerialConfig, error) {
	cfg := &SerialConfig{Device: u.Path, Baud: DefaultBaud}
	if u.Opaque != "" {
		cfg.Device = u.Opaque
	}
	if u.Host != "" {
		// serial://COM3
		cfg.Device = u.Host + u.Path
	}
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device not specified")
	}
	query := u.Query()
	if val := query.Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", val)
		}
		cfg.Baud = baud
	}
	if val := query.Get("timeout"); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil || timeout < 0 {
			return nil, fmt.Errorf("invalid read timeout %q", val)
		}
		cfg.ReadTimeout = timeout
	}
	return cfg, nil
}

// OpenSerial opens a serial port.
func OpenSerial(cfg *SerialConfig) (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %v", cfg.Device, err)
	}
	if cfg.ReadTimeout > 0 {
		return &timeoutPort{port}, nil
	}
	return port, nil
}

// timeoutPort reports an expired read timeout as an empty read rather
// than io.EOF, which the posix implementation returns.
type timeoutPort struct {
	io.ReadWriteCloser
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	n, err := p.ReadWriteCloser.Read(b)
	if n == 0 && err == io.EOF {
		return 0, nil
	}
	return n, err
}

func dialSerial(u *url.URL) (io.ReadWriteCloser, error) {
	cfg, err := ParseSerialConfig(u)
	if err != nil {
		return nil, err
	}
	return OpenSerial(cfg)
}

func init() {
	Register(SchemeSerial, dialSerial)
}

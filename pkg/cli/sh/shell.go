// Package sh provides an interactive shell to talk to a radar link.
package sh

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/Tschucker/radZone/pkg/ld303"
	"github.com/Tschucker/radZone/pkg/link"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoOpen    bool
	LinkURL     string
	Timeout     time.Duration

	Shell   *ishell.Shell
	Session *Session

	monitor int32
}

const (
	shellKey       = "$shell"
	closedPrompt   = "[closed] > "
	defaultTimeout = time.Second
)

var (
	// flags

	evalOnly bool
	linkURL  = "serial:///dev/ttyUSB0"

	// commands
	commands = []*ishell.Cmd{
		&OpenCmd,
		&CloseCmd,
		&QueryCmd,
		&SetCmd,
		&ReadCmd,
		&MonitorCmd,
		&StatsCmd,
		&CodesCmd,
	}
)

func init() {
	if val := os.Getenv("RADZONE_LINK"); val != "" {
		linkURL = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&linkURL, "link", linkURL, "Radar link URL (serial://, tcp://, ws://).")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(url string) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		LinkURL:     url,
		Timeout:     defaultTimeout,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(closedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeOpen wraps command func requires an open link.
func MustBeOpen(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(fmt.Errorf("link not open"))
			return
		}
		fn(c)
	}
}

// FormatFrame prints a frame into friendly string for display.
func FormatFrame(frame *link.Frame) string {
	return fmt.Sprintf("%s [%d] % X", frame.ReceivedAt.Format("15:04:05.000"), len(frame.Payload), frame.Payload)
}

// WithAutoOpen sets AutoOpen.
func (s *Shell) WithAutoOpen(en bool) *Shell {
	s.AutoOpen = en
	return s
}

// Monitoring reports whether received frames are printed.
func (s *Shell) Monitoring() bool {
	return atomic.LoadInt32(&s.monitor) != 0
}

// SetMonitor turns printing received frames on or off.
func (s *Shell) SetMonitor(en bool) {
	var val int32
	if en {
		val = 1
	}
	atomic.StoreInt32(&s.monitor, val)
}

// Open opens a link, replacing the current one.
func (s *Shell) Open(url string) error {
	session, err := OpenSession(url, link.HandleFrameFunc(func(ctx context.Context, frame *link.Frame) {
		if s.Monitoring() {
			s.Shell.Println(FormatFrame(frame))
		}
	}))
	if err != nil {
		return err
	}
	s.Close()
	s.Session = session
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", url))
	return nil
}

// Query discards pending frames and sends a query, so the next read gets
// the reply.
func (s *Shell) Query(payload ...byte) error {
	if s.Session == nil {
		return link.ErrNotReady
	}
	s.Session.Drain()
	return s.Session.Link.Query(payload...)
}

// SetParam discards pending frames and sends a parameter-set command.
func (s *Shell) SetParam(cmd ld303.Command) error {
	if s.Session == nil {
		return link.ErrNotReady
	}
	s.Session.Drain()
	return s.Session.Link.SetParam(cmd.Code, cmd.Param)
}

// Close closes the current link.
func (s *Shell) Close() {
	if s.Session != nil {
		s.Session.Close()
		s.Session = nil
		s.Shell.SetPrompt(closedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoOpen && s.LinkURL != "" {
		if s.Interactive {
			s.Shell.Printf("Opening %s ...\n", s.LinkURL)
		}
		if err := s.Open(s.LinkURL); err != nil {
			log.Fatalf("open %q failed: %v", s.LinkURL, err)
		}
	}
	defer s.Close()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func parseHexArgs(args []string) ([]byte, error) {
	return hex.DecodeString(strings.Join(args, ""))
}

func parseCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid count %q", args[0])
	}
	return n, nil
}

var (
	// OpenCmd opens a link.
	OpenCmd = ishell.Cmd{
		Name:    "open",
		Aliases: []string{"o"},
		Help:    "[URL]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			url := s.LinkURL
			if len(c.Args) > 0 {
				url = c.Args[0]
			}
			if err := s.Open(url); err != nil {
				c.Err(err)
			}
		},
	}

	// CloseCmd closes current link.
	CloseCmd = ishell.Cmd{
		Name: "close",
		Help: "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Close()
		},
	}

	// QueryCmd sends a query frame, measurement query by default.
	QueryCmd = ishell.Cmd{
		Name:    "query",
		Aliases: []string{"q"},
		Help:    "[HEX...]",
		Func: MustBeOpen(func(c *ishell.Context) {
			payload, err := parseHexArgs(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if err := ShellFrom(c).Query(payload...); err != nil {
				c.Err(err)
			}
		}),
	}

	// SetCmd sends a parameter-set command frame.
	SetCmd = ishell.Cmd{
		Name:    "set",
		Aliases: []string{"s"},
		Help:    "CODE PARAM",
		Func: MustBeOpen(func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("expect CODE PARAM"))
				return
			}
			cmd, err := ld303.ParseCommand(c.Args[0], c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			if err := ShellFrom(c).SetParam(cmd); err != nil {
				c.Err(err)
				return
			}
			c.Printf("sent %s: % X\n", cmd, cmd.Bytes())
		}),
	}

	// ReadCmd waits for frames and prints them.
	ReadCmd = ishell.Cmd{
		Name:    "read",
		Aliases: []string{"r"},
		Help:    "[COUNT]",
		Func: MustBeOpen(func(c *ishell.Context) {
			n, err := parseCount(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			s := ShellFrom(c)
			frames, err := s.Session.NextFrames(n, s.Timeout)
			for _, frame := range frames {
				c.Println(FormatFrame(frame))
			}
			if err != nil {
				c.Err(err)
			}
		}),
	}

	// MonitorCmd toggles printing received frames.
	MonitorCmd = ishell.Cmd{
		Name:    "monitor",
		Aliases: []string{"m"},
		Help:    "[on|off]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			switch {
			case len(c.Args) == 0:
				s.SetMonitor(!s.Monitoring())
			case c.Args[0] == "on":
				s.SetMonitor(true)
			case c.Args[0] == "off":
				s.SetMonitor(false)
			default:
				c.Err(fmt.Errorf("expect on or off"))
				return
			}
			c.Printf("monitor %v\n", s.Monitoring())
		},
	}

	// StatsCmd prints link counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: MustBeOpen(func(c *ishell.Context) {
			stats := ShellFrom(c).Session.Link.Stats()
			c.Printf("frames %d, invalid %d, read %d bytes, written %d bytes\n",
				stats.Frames, stats.Invalid, stats.BytesRead, stats.BytesWritten)
		}),
	}

	// CodesCmd lists documented command codes.
	CodesCmd = ishell.Cmd{
		Name: "codes",
		Help: "",
		Func: func(c *ishell.Context) {
			for _, info := range ld303.CommandCodes() {
				c.Printf("%02X  %-24s %s\n", byte(info.Code), info.Name, info.Description)
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(linkURL).WithAutoOpen(true).Run(flag.Args()...)
}

package ld303

// Parser parses uplink frames from bytes received.
// The zero value is ready to use. A Parser must be fed from a single
// stream, in order, and is not safe for concurrent use.
type Parser struct {
	state  State
	sum    byte
	buf    frameBuffer
	length int
}

// State is the framing state of the parser.
type State int

const (
	// StateAwaitHeader1 searches for the first header byte.
	StateAwaitHeader1 State = iota
	// StateAwaitHeader2 waits for the second header byte.
	StateAwaitHeader2
	// StateLength waits for the length byte.
	StateLength
	// StateData accumulates payload bytes.
	StateData
	// StateCheck waits for the checksum byte.
	StateCheck
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateAwaitHeader1:
		return "await-header1"
	case StateAwaitHeader2:
		return "await-header2"
	case StateLength:
		return "length"
	case StateData:
		return "data"
	case StateCheck:
		return "check"
	}
	return "unknown"
}

// Result indicates the result after one parsing step.
type Result int

const (
	// ResultPending means no frame is completed by this byte.
	// It covers searching, mid-frame bytes and framing errors.
	ResultPending Result = iota
	// ResultInvalid means this byte was the checksum of a frame and didn't match.
	ResultInvalid
	// ResultFrame means this byte completed a verified frame.
	ResultFrame
)

// String implements fmt.Stringer.
func (r Result) String() string {
	switch r {
	case ResultPending:
		return "pending"
	case ResultInvalid:
		return "invalid"
	case ResultFrame:
		return "frame"
	}
	return "unknown"
}

// State gets the current framing state.
func (p *Parser) State() State {
	return p.state
}

// Reset drops any partial frame and restarts the header search.
func (p *Parser) Reset() {
	p.state, p.sum, p.length = StateAwaitHeader1, 0, 0
	p.buf.reset()
}

// ProcessByte consumes one byte and reports whether it completed a
// verified frame. The payload must be retrieved with Data or Payload
// before the next byte is consumed.
func (p *Parser) ProcessByte(c byte) bool {
	return p.Step(c) == ResultFrame
}

// Step consumes one byte.
func (p *Parser) Step(c byte) Result {
	switch p.state {
	case StateAwaitHeader1:
		if c == UplinkHeader1 {
			p.sum, p.state = c, StateAwaitHeader2
		}
	case StateAwaitHeader2:
		p.sum += c
		if c != UplinkHeader2 {
			p.resync()
			break
		}
		p.state = StateLength
	case StateLength:
		p.sum += c
		if c == 0 || int(c) >= MaxFrameLength {
			p.resync()
			break
		}
		p.length = int(c) - 1
		p.buf.reset()
		if p.length > 0 {
			p.state = StateData
		} else {
			p.state = StateCheck
		}
	case StateData:
		p.sum += c
		if !p.buf.put(c) {
			p.resync()
			break
		}
		if p.buf.len() == p.length {
			p.state = StateCheck
		}
	case StateCheck:
		p.state = StateAwaitHeader1
		if c == p.sum {
			return ResultFrame
		}
		return ResultInvalid
	default:
		p.resync()
	}
	return ResultPending
}

// Data copies the payload of the last completed frame into out and
// returns the number of bytes copied.
func (p *Parser) Data(out []byte) int {
	return copy(out, p.buf.bytes(p.length))
}

// Payload returns a copy of the payload of the last completed frame.
func (p *Parser) Payload() []byte {
	data := make([]byte, p.length)
	p.Data(data)
	return data
}

func (p *Parser) resync() {
	p.state = StateAwaitHeader1
}

package ld303

// Frame markers.
const (
	UplinkHeader1 byte = 0x55
	UplinkHeader2 byte = 0xA5

	QueryHeader1 byte = 0x55
	QueryHeader2 byte = 0x5A

	CommandHeader1  byte = 0xBA
	CommandHeader2  byte = 0xAB
	CommandAddress  byte = 0x00
	CommandChecksum byte = 0x00
	CommandTrailer1 byte = 0x55
	CommandTrailer2 byte = 0xBB
)

const (
	// MaxFrameLength is the capacity of the parser buffer.
	// A length byte must be in the open range (0, MaxFrameLength).
	MaxFrameLength = 32
	// MaxUplinkPayload is the largest payload an uplink frame can carry.
	MaxUplinkPayload = MaxFrameLength - 2
	// MaxQueryPayload is the largest payload the query length byte can encode.
	MaxQueryPayload = 0xff - 1
	// CommandFrameLength is the fixed size of a command frame.
	CommandFrameLength = 9
	// frameOverhead is header, length and checksum bytes around a payload.
	frameOverhead = 4
)

// Sum calculates the 8-bit wrapping sum of all bytes.
func Sum(b []byte) byte {
	var s byte
	for _, c := range b {
		s += c
	}
	return s
}

// AppendUplink appends an uplink frame carrying payload to dst.
// It is the module side of the link, used by simulators and tests.
// The payload is not checked against MaxUplinkPayload.
func AppendUplink(dst, payload []byte) []byte {
	return appendSummed(dst, UplinkHeader1, UplinkHeader2, payload)
}

func appendSummed(dst []byte, h1, h2 byte, payload []byte) []byte {
	start := len(dst)
	dst = append(dst, h1, h2, byte(len(payload)+1))
	dst = append(dst, payload...)
	return append(dst, Sum(dst[start:]))
}

// frameBuffer is a fixed capacity payload buffer which refuses writes beyond
// its capacity.
type frameBuffer struct {
	data [MaxFrameLength]byte
	n    int
}

func (b *frameBuffer) reset() {
	b.n = 0
}

func (b *frameBuffer) put(c byte) bool {
	if b.n >= len(b.data) {
		return false
	}
	b.data[b.n] = c
	b.n++
	return true
}

func (b *frameBuffer) len() int {
	return b.n
}

func (b *frameBuffer) bytes(n int) []byte {
	return b.data[:n]
}

package ld303

import (
	"fmt"
	"io"
)

// Command is a host request in the "set parameter" format.
type Command struct {
	Code  CommandCode
	Param uint16
}

// String implements fmt.Stringer.
func (c Command) String() string {
	return fmt.Sprintf("%s(0x%04X)", c.Code, c.Param)
}

// Bytes returns encoded bytes for sending.
func (c Command) Bytes() []byte {
	return AppendCommand(make([]byte, 0, CommandFrameLength), c.Code, c.Param)
}

// WriteTo writes encoded bytes.
func (c Command) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Bytes())
	return int64(n), err
}

// BuildCommand encodes a command frame into out and returns the number of
// bytes written, which is always CommandFrameLength.
func BuildCommand(out []byte, cmd CommandCode, param uint16) (int, error) {
	if len(out) < CommandFrameLength {
		return 0, io.ErrShortBuffer
	}
	return len(AppendCommand(out[:0], cmd, param)), nil
}

// AppendCommand appends a command frame to dst.
func AppendCommand(dst []byte, cmd CommandCode, param uint16) []byte {
	return append(dst,
		CommandHeader1, CommandHeader2,
		CommandAddress,
		byte(cmd),
		byte(param>>8), byte(param),
		CommandChecksum,
		CommandTrailer1, CommandTrailer2)
}

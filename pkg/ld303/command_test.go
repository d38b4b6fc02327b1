package ld303

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	testCases := []struct {
		name   string
		cmd    CommandCode
		param  uint16
		expect []byte
	}{
		{"protocol automatic", CmdProtocolType, 0x0007, []byte{0xBA, 0xAB, 0x00, 0xF6, 0x00, 0x07, 0x00, 0x55, 0xBB}},
		{"max distance", CmdMaxDetectionDistance, 250, []byte{0xBA, 0xAB, 0x00, 0xE5, 0x00, 0xFA, 0x00, 0x55, 0xBB}},
		{"big endian", CmdSensitivity, 0x1234, []byte{0xBA, 0xAB, 0x00, 0xE1, 0x12, 0x34, 0x00, 0x55, 0xBB}},
		{"reset", CmdReset, 0, []byte{0xBA, 0xAB, 0x00, 0xDE, 0x00, 0x00, 0x00, 0x55, 0xBB}},
		{"undocumented", CommandCode(0x42), 0xffff, []byte{0xBA, 0xAB, 0x00, 0x42, 0xff, 0xff, 0x00, 0x55, 0xBB}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, CommandFrameLength)
			n, err := BuildCommand(buf, tc.cmd, tc.param)
			require.NoError(t, err)
			require.Equal(t, CommandFrameLength, n)
			require.Equal(t, tc.expect, buf)

			cmd := Command{Code: tc.cmd, Param: tc.param}
			require.Equal(t, tc.expect, cmd.Bytes())
			var w bytes.Buffer
			written, err := cmd.WriteTo(&w)
			require.NoError(t, err)
			require.Equal(t, int64(CommandFrameLength), written)
			require.Equal(t, tc.expect, w.Bytes())
		})
	}
}

func TestBuildCommandShortBuffer(t *testing.T) {
	n, err := BuildCommand(make([]byte, CommandFrameLength-1), CmdProtocolType, 7)
	require.Equal(t, io.ErrShortBuffer, err)
	require.Equal(t, 0, n)
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "protocol-type(0x0007)", Command{Code: CmdProtocolType, Param: 7}.String())
}

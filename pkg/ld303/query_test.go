package ld303

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
		expect  []byte
	}{
		{"measurement", []byte{0xD3}, []byte{0x55, 0x5A, 0x02, 0xD3, 0x84}},
		{"empty", nil, []byte{0x55, 0x5A, 0x01, 0xB0}},
		{"two bytes", []byte{0x01, 0x02}, []byte{0x55, 0x5A, 0x03, 0x01, 0x02, 0xB5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, 16)
			n, err := BuildQuery(buf, tc.payload)
			require.NoError(t, err)
			require.Equal(t, len(tc.payload)+4, n)
			require.Equal(t, tc.expect, buf[:n])

			q := &Query{Payload: tc.payload}
			require.Equal(t, tc.expect, q.Bytes())
			require.Equal(t, len(tc.expect), q.Len())
			var w bytes.Buffer
			written, err := q.WriteTo(&w)
			require.NoError(t, err)
			require.Equal(t, int64(len(tc.expect)), written)
			require.Equal(t, tc.expect, w.Bytes())
		})
	}
}

func TestBuildQueryExactBuffer(t *testing.T) {
	buf := make([]byte, 5)
	n, err := BuildQuery(buf, []byte{0xD3})
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestBuildQueryErrors(t *testing.T) {
	buf := make([]byte, 4)
	n, err := BuildQuery(buf, []byte{0xD3})
	require.Equal(t, io.ErrShortBuffer, err)
	require.Equal(t, 0, n)
	require.Equal(t, make([]byte, 4), buf)

	large := make([]byte, MaxQueryPayload+1)
	_, err = BuildQuery(make([]byte, len(large)+4), large)
	require.Equal(t, ErrPayloadTooLarge, err)
	_, err = (&Query{Payload: large}).WriteTo(&bytes.Buffer{})
	require.Equal(t, ErrPayloadTooLarge, err)

	_, err = BuildQuery(make([]byte, MaxQueryPayload+4), make([]byte, MaxQueryPayload))
	require.NoError(t, err)
}

func TestMeasurementQuery(t *testing.T) {
	require.Equal(t, []byte{0x55, 0x5A, 0x02, 0xD3, 0x84}, MeasurementQuery().Bytes())
}

func TestAppendQueryKeepsPrefix(t *testing.T) {
	b := AppendQuery([]byte{0xAA}, []byte{0xD3})
	require.Equal(t, []byte{0xAA, 0x55, 0x5A, 0x02, 0xD3, 0x84}, b)
}

// The query and uplink formats differ only in the second header byte, so
// re-headering a query produces a frame the parser must accept when both
// sides use the same checksum rule.
func TestQueryChecksumSymmetry(t *testing.T) {
	for _, payload := range [][]byte{{0xD3}, {}, {0x10, 0x20, 0x30}, samplePayload} {
		frame := AppendQuery(nil, payload)
		frame[1] = UplinkHeader2
		frame[len(frame)-1] += UplinkHeader2 - QueryHeader2
		require.Equal(t, AppendUplink(nil, payload), frame)

		var parser Parser
		requireOnlyLastFrame(t, feed(&parser, frame))
		require.Equal(t, payload, parser.Payload())
	}
}

func TestUplinkChecksum(t *testing.T) {
	frame := AppendUplink(nil, samplePayload)
	require.Equal(t, byte(len(samplePayload)+1), frame[2])
	require.Equal(t, Sum(frame[:len(frame)-1]), frame[len(frame)-1])
	require.Equal(t, byte(0x84), Sum([]byte{0x55, 0x5A, 0x02, 0xD3}))
}

package ld303

import (
	"io"
)

// Query is a host request in the "fixed query" format.
type Query struct {
	Payload []byte
}

// MeasurementQuery creates the query requesting measurement data.
func MeasurementQuery() *Query {
	return &Query{Payload: []byte{byte(CmdMeasurement)}}
}

// Len returns the encoded size of the query.
func (q *Query) Len() int {
	return len(q.Payload) + frameOverhead
}

// Bytes returns encoded bytes for sending.
func (q *Query) Bytes() []byte {
	return AppendQuery(make([]byte, 0, q.Len()), q.Payload)
}

// WriteTo writes encoded bytes.
func (q *Query) WriteTo(w io.Writer) (int64, error) {
	if len(q.Payload) > MaxQueryPayload {
		return 0, ErrPayloadTooLarge
	}
	n, err := w.Write(q.Bytes())
	return int64(n), err
}

// BuildQuery encodes a query frame into out and returns the number of
// bytes written. out must hold at least len(payload)+4 bytes.
func BuildQuery(out, payload []byte) (int, error) {
	if len(payload) > MaxQueryPayload {
		return 0, ErrPayloadTooLarge
	}
	size := len(payload) + frameOverhead
	if len(out) < size {
		return 0, io.ErrShortBuffer
	}
	return len(AppendQuery(out[:0], payload)), nil
}

// AppendQuery appends a query frame carrying payload to dst.
// A payload larger than MaxQueryPayload wraps the length byte.
func AppendQuery(dst, payload []byte) []byte {
	return appendSummed(dst, QueryHeader1, QueryHeader2, payload)
}

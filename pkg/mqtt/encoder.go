package mqtt

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/Tschucker/radZone/pkg/link"
)

// ErrUnknownEncoding indicates the frame encoding is not registered.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Encoder encodes a frame into an MQTT payload.
type Encoder interface {
	Encode(*link.Frame) ([]byte, error)
}

// EncodeFunc is func type of Encoder.
type EncodeFunc func(*link.Frame) ([]byte, error)

// Encode implements Encoder.
func (f EncodeFunc) Encode(frame *link.Frame) ([]byte, error) {
	return f(frame)
}

// Encodings are predefined frame encoders by name.
var Encodings = map[string]Encoder{
	"raw":   EncodeFunc(encodeRaw),
	"hex":   EncodeFunc(encodeHex),
	"proto": EncodeFunc(encodeProto),
}

// EncodingNames lists names of Encodings.
func EncodingNames() []string {
	names := make([]string, 0, len(Encodings))
	for name := range Encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncoderByName looks up an encoder.
func EncoderByName(name string) (Encoder, error) {
	if enc, ok := Encodings[name]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("%v %q, expect one of %s", ErrUnknownEncoding, name, strings.Join(EncodingNames(), ", "))
}

// encodeRaw publishes the payload bytes as-is.
func encodeRaw(frame *link.Frame) ([]byte, error) {
	return frame.Payload, nil
}

// encodeHex publishes the complete frame as upper-case spaced hex.
func encodeHex(frame *link.Frame) ([]byte, error) {
	return []byte(fmt.Sprintf("% X", frame.Raw())), nil
}

// encodeProto publishes a protobuf Struct with payload, length and receive time.
func encodeProto(frame *link.Frame) ([]byte, error) {
	msg := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"payload": {Kind: &structpb.Value_StringValue{StringValue: hex.EncodeToString(frame.Payload)}},
			"length":  {Kind: &structpb.Value_NumberValue{NumberValue: float64(len(frame.Payload))}},
			"received_at": {Kind: &structpb.Value_StringValue{
				StringValue: frame.ReceivedAt.UTC().Format(time.RFC3339Nano),
			}},
		},
	}
	return proto.Marshal(msg)
}

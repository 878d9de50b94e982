// Package sixp implements framing of the session information exchange protocol (SIXP).
//
// A frame is laid out as
//
//	magic(4) | version(1) | flags(1) | type(1) | payload
//
// and a whole encoded message never exceeds MaxMessageSize bytes.
package sixp

import (
	"bytes"
	"fmt"

	"sixpmaster/service"
)

// Magic identifies SIXP datagrams.
var Magic = [4]byte{'S', 'I', 'X', 'P'}

const (
	// Version is written into every outbound frame.
	Version uint8 = 0

	// FlagSplit marks a frame carrying one fragment of a split message.
	FlagSplit uint8 = 0x1

	// HeaderSize covers magic, version, flags and the message type.
	HeaderSize = len(Magic) + 3

	// MaxMessageSize is the largest message that fits a single datagram.
	MaxMessageSize = 1024
)

// Frame is one decoded datagram.
type Frame struct {
	Version uint8
	Flags   uint8
	Type    MessageType
	Payload []byte
}

// Split reports whether the frame is a fragment of a larger message.
func (f Frame) Split() bool {
	return f.Flags&FlagSplit != 0
}

// Decode parses a raw datagram.
// Returns malformed_frame when the datagram is not SIXP or is truncated,
// unsupported_feature when the split flag is set.
// The returned payload aliases data.
func Decode(data []byte) (Frame, error) {
	if len(data) < len(Magic)+2 || !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return Frame{}, service.NewMalformedFrameError("not a SIXP frame", nil)
	}

	f := Frame{
		Version: data[4],
		Flags:   data[5],
	}
	if f.Split() {
		return Frame{}, service.NewUnsupportedFeatureError("split messages are not supported", nil)
	}

	if len(data) < HeaderSize {
		return Frame{}, service.NewMalformedFrameError("frame has no message type", nil)
	}
	f.Type = MessageType(data[6])
	f.Payload = data[HeaderSize:]

	return f, nil
}

// Encode builds an unsplit frame carrying body as a message of type t.
// Returns unsupported_feature when the message would not fit MaxMessageSize.
func Encode(t MessageType, body []byte) ([]byte, error) {
	size := HeaderSize + len(body)
	if size > MaxMessageSize {
		return nil, service.NewUnsupportedFeatureError(
			"message splitting is not supported",
			fmt.Errorf("%s message is %d bytes, limit is %d", t, size, MaxMessageSize),
		)
	}

	out := make([]byte, 0, size)
	out = append(out, Magic[:]...)
	out = append(out, Version, 0, byte(t))
	out = append(out, body...)
	return out, nil
}

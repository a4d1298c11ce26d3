package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the fixed trailing header length on every inbound frame
// (spec §3, §6): 1 marker byte, 1 id byte, 4 big-endian counter bytes.
const HeaderSize = 6

// ErrShortFrame is returned when a frame is smaller than HeaderSize.
var ErrShortFrame = errors.New("wire: frame shorter than header")

// ErrInvalidMarker is returned when the marker byte sets bits outside
// the defined set.
var ErrInvalidMarker = errors.New("wire: invalid marker bits")

// Kind is the decoded, precedence-resolved meaning of a frame (spec §4.1):
// if END is set the frame terminates the subscription; else if START is
// set it acknowledges creation; else if ERROR is set the payload is a
// UTF-8 error message; else if CONTINUE is set the payload is data. Any
// other bit combination is a protocol error and never produces a Kind.
type Kind int

const (
	KindEnd Kind = iota
	KindStart
	KindError
	KindContinue
)

// Frame is a decoded inbound binary WebSocket message: the precedence-
// resolved Kind, the subscription id it targets, the (ignored, but
// exposed for debugging per spec §9) wire counter, and the payload with
// the header already stripped.
type Frame struct {
	Kind    Kind
	ID      uint8
	Counter uint32
	Payload []byte
}

// Decode splits the trailing 6-byte header off buf and classifies the
// frame per the marker precedence in spec §4.1. buf must not be reused
// by the caller afterwards; Payload aliases it.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrShortFrame
	}

	header := buf[len(buf)-HeaderSize:]
	payload := buf[:len(buf)-HeaderSize]

	marker := Marker(header[0])
	if !marker.valid() {
		return Frame{}, ErrInvalidMarker
	}

	id := header[1]
	counter := binary.BigEndian.Uint32(header[2:6])

	var kind Kind
	switch {
	case marker.Has(MarkerEnd):
		kind = KindEnd
		payload = nil
	case marker.Has(MarkerStart):
		kind = KindStart
		payload = nil
	case marker.Has(MarkerError):
		kind = KindError
	case marker.Has(MarkerContinue):
		kind = KindContinue
	default:
		return Frame{}, fmt.Errorf("wire: marker %#02x carries no recognized bit: %w", byte(marker), ErrInvalidMarker)
	}

	return Frame{Kind: kind, ID: id, Counter: counter, Payload: payload}, nil
}

// EncodeFrame reassembles a frame from its parts. It exists mainly for
// tests exercising the Decode round trip (spec §8); production code only
// ever calls Decode on server-sent bytes.
func EncodeFrame(marker Marker, id uint8, counter uint32, payload []byte) []byte {
	buf := make([]byte, 0, len(payload)+HeaderSize)
	buf = append(buf, payload...)
	buf = append(buf, byte(marker), id, 0, 0, 0, 0)
	binary.BigEndian.PutUint32(buf[len(buf)-4:], counter)
	return buf
}

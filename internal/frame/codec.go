package frame

import "errors"

var (
	// ErrEmptyPayload is returned by Encode when payload.len == 0 (§4.3.1).
	ErrEmptyPayload = errors.New("frame: empty payload")
	// ErrPayloadTooLarge is returned by Encode when the header+payload
	// wouldn't fit in the destination buffer.
	ErrPayloadTooLarge = errors.New("frame: payload too large")

	// ErrDummy is returned by Decode for a zero-length frame — not a
	// failure, just a signal to discard silently (§3, §4.3.2).
	ErrDummy = errors.New("frame: dummy")
	// ErrInvalidOffset is returned by Decode when offset == 0 or
	// offset < HeaderSize.
	ErrInvalidOffset = errors.New("frame: invalid offset")
	// ErrLenOverflow is returned by Decode when offset+len exceeds the
	// buffer (S4: corrupt RX).
	ErrLenOverflow = errors.New("frame: length overflow")
	// ErrChecksumMismatch is returned by Decode when the checksum field
	// doesn't match the recomputed sum.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")
)

// dmaAlign4 rounds n up to the next multiple of 4.
func dmaAlign4(n int) int {
	return (n + 3) &^ 3
}

// Encode fills buf (which must be at least HeaderSize+len(payload) bytes,
// typically a full BUF_SIZE pool slot) with a header for (ifType, ifNum,
// seq, flags) followed by payload at offset HeaderSize, and returns the
// 4-byte-aligned total length to record as the queue item's payload length
// (§4.3.1 step 3). If checksumEnabled, the checksum field is computed over
// [0, HeaderSize+len(payload)) before returning.
func Encode(buf []byte, ifType IfType, ifNum uint8, seq uint16, flags Flags, payload []byte, checksumEnabled bool) (totalLen int, err error) {
	if len(payload) == 0 {
		return 0, ErrEmptyPayload
	}
	total := HeaderSize + len(payload)
	if total > len(buf) {
		return 0, ErrPayloadTooLarge
	}

	PutHeader(buf[:HeaderSize], Header{
		IfType: ifType,
		IfNum:  ifNum,
		Flags:  flags,
		Len:    uint16(len(payload)),
		Offset: uint16(HeaderSize),
		SeqNum: seq,
	})
	copy(buf[HeaderSize:total], payload)

	if checksumEnabled {
		putChecksumField(buf, checksum(buf[:total]))
	}

	return dmaAlign4(total), nil
}

// Decoded is the metadata Decode extracts from a valid RX buffer, plus the
// payload slice (a view into the original buffer — callers that retain it
// past Release() must copy).
type Decoded struct {
	IfType IfType
	IfNum  uint8
	Flags  Flags
	SeqNum uint16
	// PayloadLen is the header's Offset+Len, the stamp the pump attaches
	// to the RX queue item (§4.5.2 step 3).
	PayloadLen int
	Payload    []byte
}

// Decode validates and parses an RX buffer per §4.3.2. A zero-length frame
// (dummy) returns ErrDummy; a header whose offset/len don't fit the buffer
// returns ErrInvalidOffset/ErrLenOverflow (S4); a checksum mismatch (when
// checksumEnabled) returns ErrChecksumMismatch.
func Decode(buf []byte, checksumEnabled bool) (Decoded, error) {
	if len(buf) < HeaderSize {
		return Decoded{}, ErrLenOverflow
	}
	h := GetHeader(buf)
	if h.Len == 0 {
		return Decoded{}, ErrDummy
	}
	if h.Offset == 0 || int(h.Offset) < HeaderSize {
		return Decoded{}, ErrInvalidOffset
	}
	end := int(h.Offset) + int(h.Len)
	if end > len(buf) {
		return Decoded{}, ErrLenOverflow
	}

	if checksumEnabled {
		want := h.Checksum
		putChecksumField(buf, 0)
		got := checksum(buf[:end])
		if got != want {
			return Decoded{}, ErrChecksumMismatch
		}
	}

	return Decoded{
		IfType:     h.IfType,
		IfNum:      h.IfNum,
		Flags:      h.Flags,
		SeqNum:     h.SeqNum,
		PayloadLen: end,
		Payload:    buf[h.Offset:end],
	}, nil
}

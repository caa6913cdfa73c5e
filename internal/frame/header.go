// Package frame implements the wire header format (§3, §4.3): encode,
// decode, offset/length validation and the optional 16-bit byte-sum
// checksum. Every SPI transaction carries exactly one header at byte 0,
// including dummy frames.
package frame

import "encoding/binary"

// IfType is the logical interface family in the header's if_type nibble
// (§3, §6). Values come straight from the original driver's interface enum
// (ctrl_config.h), carried here unchanged.
type IfType uint8

const (
	IfSTA    IfType = 0
	IfSoftAP IfType = 1
	IfSerial IfType = 2
	IfHCI    IfType = 3
	IfPriv   IfType = 4
	IfTest   IfType = 5
	IfMax    IfType = 0xF // dummy frames
)

// Flags bits (§3).
type Flags uint8

const (
	FlagPowerSaveStarted Flags = 1 << 0
	FlagPowerSaveStopped Flags = 1 << 1
	FlagMoreFragments    Flags = 1 << 2
	FlagFragment         Flags = 1 << 3
)

// HeaderSize is sizeof(header) rounded up to 4-byte DMA alignment:
// if_type/if_num(1) + flags(1) + len(2) + offset(2) + checksum(2) +
// seq_num(2) = 10, padded to 12.
const HeaderSize = 12

// Header is the decoded view of the 12-byte frame header. Fields keep the
// wire's little-endian order when encoded; in memory they're plain ints.
type Header struct {
	IfType   IfType
	IfNum    uint8
	Flags    Flags
	Len      uint16
	Offset   uint16
	Checksum uint16
	SeqNum   uint16
}

// PutHeader writes h into buf[0:HeaderSize]. buf must be at least
// HeaderSize bytes; PutHeader zeroes the reserved bytes itself.
func PutHeader(buf []byte, h Header) {
	buf[0] = byte(h.IfType)<<4 | (h.IfNum & 0x0F)
	buf[1] = byte(h.Flags)
	binary.LittleEndian.PutUint16(buf[2:4], h.Len)
	binary.LittleEndian.PutUint16(buf[4:6], h.Offset)
	binary.LittleEndian.PutUint16(buf[6:8], h.Checksum)
	binary.LittleEndian.PutUint16(buf[8:10], h.SeqNum)
	buf[10] = 0
	buf[11] = 0
}

// GetHeader reads a Header from buf[0:HeaderSize]. buf must be at least
// HeaderSize bytes.
func GetHeader(buf []byte) Header {
	return Header{
		IfType:   IfType(buf[0] >> 4),
		IfNum:    buf[0] & 0x0F,
		Flags:    Flags(buf[1]),
		Len:      binary.LittleEndian.Uint16(buf[2:4]),
		Offset:   binary.LittleEndian.Uint16(buf[4:6]),
		Checksum: binary.LittleEndian.Uint16(buf[6:8]),
		SeqNum:   binary.LittleEndian.Uint16(buf[8:10]),
	}
}

// putChecksumField overwrites only the checksum field, leaving the rest of
// an already-built header+payload region untouched.
func putChecksumField(buf []byte, v uint16) {
	binary.LittleEndian.PutUint16(buf[6:8], v)
}

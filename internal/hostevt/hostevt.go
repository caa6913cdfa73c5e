// Package hostevt builds the single startup frame the core synthesizes
// after initialization (§4.5.5): a sequence of TLV records describing the
// firmware to the host, carried on the internal PRIV interface. Tag order
// and values come from the original driver's populate_spi_hostevt_tlv
// (original_source/esp_hosted_fg/.../spi_slave_api.c), not from spec.md,
// which left the payload layout unspecified.
package hostevt

import "encoding/binary"

// Tag values, fixed by the original implementation.
const (
	TagChipID            = 1
	TagCapabilities      = 2
	TagTestRawThroughput = 3
	TagFirmwareVersion   = 4
)

// Capability bits carried in the TagCapabilities byte.
const (
	CapChecksumEnabled Capability = 1 << 0
	CapPrioQEnabled    Capability = 1 << 1
	CapHSDeassertOnCS  Capability = 1 << 2
)

type Capability uint8

// FirmwareVersion is the fixed-size blob behind TagFirmwareVersion.
type FirmwareVersion struct {
	Major uint8
	Minor uint8
	Patch uint8
	Rsvd  uint8 // padding to a 4-byte blob, copied into it as-is
}

// Info is everything the encoder needs; all of it is known by the time
// init completes.
type Info struct {
	ChipID            uint8
	Capabilities      Capability
	TestRawThroughput bool
	Version           FirmwareVersion
}

func putTLV(dst []byte, tag byte, value []byte) []byte {
	dst = append(dst, tag, byte(len(value)))
	return append(dst, value...)
}

// Encode serializes Info as the TLV sequence the host control stack
// expects: chip id, capability mask, test-raw-throughput flag, firmware
// version, in that fixed order.
func Encode(info Info) []byte {
	buf := make([]byte, 0, 3*2+2+4)
	buf = putTLV(buf, TagChipID, []byte{info.ChipID})
	buf = putTLV(buf, TagCapabilities, []byte{byte(info.Capabilities)})
	trp := byte(0)
	if info.TestRawThroughput {
		trp = 1
	}
	buf = putTLV(buf, TagTestRawThroughput, []byte{trp})

	var verBlob [4]byte
	verBlob[0] = info.Version.Major
	verBlob[1] = info.Version.Minor
	verBlob[2] = info.Version.Patch
	verBlob[3] = info.Version.Rsvd
	buf = putTLV(buf, TagFirmwareVersion, verBlob[:])

	return buf
}

// VersionUint32 packs major.minor.patch into the little-endian uint32 the
// original's version macro produces, for callers that source version
// info as a single integer rather than three fields.
func VersionUint32(v FirmwareVersion) uint32 {
	b := [4]byte{v.Major, v.Minor, v.Patch, v.Rsvd}
	return binary.LittleEndian.Uint32(b[:])
}

package frame

// checksum is a 16-bit unsigned sum of every byte in the validated region
// (§4.3), stored little-endian. This is a protocol constant, not a library
// concern: swapping in a generic CRC (e.g. github.com/sigurn/crc16, carried
// by the tinygo toolchain's own go.mod) would silently change the wire
// format, so it's computed directly rather than pulled from a package.
func checksum(buf []byte) uint16 {
	var sum uint16
	for _, b := range buf {
		sum += uint16(b)
	}
	return sum
}

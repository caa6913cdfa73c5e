package hostevt

import "testing"

func TestEncodeTagOrderAndValues(t *testing.T) {
	info := Info{
		ChipID:            7,
		Capabilities:      CapChecksumEnabled | CapPrioQEnabled,
		TestRawThroughput: true,
		Version:           FirmwareVersion{Major: 1, Minor: 2, Patch: 3},
	}
	buf := Encode(info)

	want := []byte{
		TagChipID, 1, 7,
		TagCapabilities, 1, byte(CapChecksumEnabled | CapPrioQEnabled),
		TagTestRawThroughput, 1, 1,
		TagFirmwareVersion, 4, 1, 2, 3, 0,
	}
	if len(buf) != len(want) {
		t.Fatalf("length mismatch: got %d want %d (%v)", len(buf), len(want), buf)
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, buf[i], want[i])
		}
	}
}

func TestEncodeTestRawThroughputFalse(t *testing.T) {
	buf := Encode(Info{})
	// TagTestRawThroughput's value is the 9th byte (0-indexed 8) given the
	// fixed tag order: chip-id(3) + capabilities(3) + trp tag/len(2) + value.
	if buf[8] != 0 {
		t.Fatalf("expected test-raw-throughput byte 0, got %d", buf[8])
	}
}

func TestVersionUint32PacksLittleEndian(t *testing.T) {
	v := FirmwareVersion{Major: 1, Minor: 0, Patch: 0}
	if got := VersionUint32(v); got != 1 {
		t.Fatalf("got %#x want 1", got)
	}
}

package txconfig

import "testing"

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode([]byte(`{
		"spi_mode": 2,
		"buf_size": 512,
		"priority_tx": true,
		"pins": {"cs": 9}
	}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.SPIMode != 2 {
		t.Fatalf("spi mode: got %d", cfg.SPIMode)
	}
	if cfg.BufSize != 512 {
		t.Fatalf("buf size: got %d", cfg.BufSize)
	}
	if !cfg.PriorityTX {
		t.Fatal("priority_tx not applied")
	}
	if cfg.Pins.CS != 9 {
		t.Fatalf("cs pin: got %d", cfg.Pins.CS)
	}
	// Untouched fields keep their default value.
	if cfg.ChecksumEnable != Default().ChecksumEnable {
		t.Fatal("checksum_enable should inherit default")
	}
}

func TestDecodeEmptyIsDefault(t *testing.T) {
	cfg, err := Decode(nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg != Default() {
		t.Fatal("empty decode should equal Default()")
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := Default()
	cfg.SPIMode = 0
	if err := cfg.Validate(); err != ErrInvalidSPIMode {
		t.Fatalf("expected ErrInvalidSPIMode, got %v", err)
	}
}

func TestValidateRejectsUnalignedBufSize(t *testing.T) {
	cfg := Default()
	cfg.BufSize = 17
	if err := cfg.Validate(); err != ErrInvalidBufSize {
		t.Fatalf("expected ErrInvalidBufSize, got %v", err)
	}
}

func TestForBoardUnknownFallsBackToDefault(t *testing.T) {
	cfg, err := ForBoard("does-not-exist")
	if err != nil {
		t.Fatalf("ForBoard: %v", err)
	}
	if cfg != Default() {
		t.Fatal("unknown board should fall back to Default()")
	}
}

func TestForBoardKnown(t *testing.T) {
	cfg, err := ForBoard("esp32-host-sim")
	if err != nil {
		t.Fatalf("ForBoard: %v", err)
	}
	if cfg.BufSize != 256 {
		t.Fatalf("expected buf_size 256, got %d", cfg.BufSize)
	}
}

// Package txconfig loads the transport's build-time configuration (§6):
// pin assignment, SPI mode, buffer size, queue depths, and the checksum /
// priority-queue / HS-deassert feature switches. Configuration is JSON,
// decoded with github.com/andreyvit/tinyjson the way services/config in the
// pack decodes per-board configs — tinyjson returns generic Go values
// (map[string]any, float64, ...) rather than reflecting into a struct, which
// keeps this off the TinyGo reflection-heavy encoding/json path.
package txconfig

import (
	"errors"

	"github.com/andreyvit/tinyjson"
	"github.com/jangala-dev/esp-hosted-spi/x/mathx"
)

// maxBufSize bounds how large a single DMA-aligned transaction slot can
// get; nothing in the pack's boards needs more than a handful of KB.
const maxBufSize = 8192

// Pins names every GPIO the core drives or watches (§6).
type Pins struct {
	MOSI       int
	MISO       int
	SCLK       int
	CS         int
	Handshake  int
	DataReady  int
}

// Config is the fully-resolved build-time configuration for one transport
// instance. Mode, pin assignment and queue shape are fixed for the instance's
// lifetime — the core does not renegotiate them (§1 Non-goals).
type Config struct {
	SPIMode int // 1, 2 or 3; mode 0 is rejected at validation (§6)
	Pins    Pins

	BufSize      int // DMA-aligned transaction size, multiple of 4
	HWQueueDepth int // depth of the SPI peripheral's own hardware queue

	PriorityTX bool // unified vs 3-class TX queueing (§4.4)
	PriorityRX bool

	// Unified depths, used when the matching Priority* flag is false.
	TXQueueSize int
	RXQueueSize int

	// Per-class depths, used when the matching Priority* flag is true.
	TXSerialSize int
	TXBTSize     int
	TXOthersSize int
	RXSerialSize int
	RXBTSize     int
	RXOthersSize int

	PoolEnable     bool // preallocated DMA pool vs general heap (§4.1)
	ChecksumEnable bool
	HSDeassertOnCS bool // policy 4.5.4; false = deassert-on-completion (default)
}

var (
	ErrInvalidSPIMode = errors.New("invalid_spi_mode")
	ErrInvalidBufSize = errors.New("invalid_buf_size")
	ErrMissingPin     = errors.New("missing_pin")
)

// Validate rejects configuration errors per §7 ("Configuration errors:
// assertion at init; fatal"). Callers treat a non-nil return as fatal.
func (c Config) Validate() error {
	if c.SPIMode < 1 || c.SPIMode > 3 {
		return ErrInvalidSPIMode
	}
	if !mathx.Between(c.BufSize, 4, maxBufSize) || c.BufSize%4 != 0 {
		return ErrInvalidBufSize
	}
	for _, p := range []int{c.Pins.MOSI, c.Pins.MISO, c.Pins.SCLK, c.Pins.CS, c.Pins.Handshake, c.Pins.DataReady} {
		if p < 0 {
			return ErrMissingPin
		}
	}
	c.HWQueueDepth = mathx.Max(c.HWQueueDepth, 1)
	return nil
}

// Decode parses a raw JSON configuration blob (as produced by one of the
// embedded per-board configs, or supplied by the caller) into a Config,
// filling unset fields from Default().
func Decode(raw []byte) (Config, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}
	r := tinyjson.Raw(raw)
	val := r.Value()
	if err := r.EnsureEOF(); err != nil {
		return Config{}, err
	}
	m, ok := val.(map[string]any)
	if !ok {
		return Config{}, errors.New("config is not a JSON object")
	}
	applyObject(&cfg, m)
	return cfg, nil
}

func applyObject(cfg *Config, m map[string]any) {
	if v, ok := asInt(m["spi_mode"]); ok {
		cfg.SPIMode = v
	}
	if v, ok := asInt(m["buf_size"]); ok {
		cfg.BufSize = v
	}
	if v, ok := asInt(m["hw_queue_depth"]); ok {
		cfg.HWQueueDepth = v
	}
	if v, ok := m["priority_tx"].(bool); ok {
		cfg.PriorityTX = v
	}
	if v, ok := m["priority_rx"].(bool); ok {
		cfg.PriorityRX = v
	}
	if v, ok := m["pool_enable"].(bool); ok {
		cfg.PoolEnable = v
	}
	if v, ok := m["checksum_enable"].(bool); ok {
		cfg.ChecksumEnable = v
	}
	if v, ok := m["hs_deassert_on_cs"].(bool); ok {
		cfg.HSDeassertOnCS = v
	}
	if v, ok := asInt(m["tx_queue_size"]); ok {
		cfg.TXQueueSize = v
	}
	if v, ok := asInt(m["rx_queue_size"]); ok {
		cfg.RXQueueSize = v
	}
	if v, ok := asInt(m["tx_serial_size"]); ok {
		cfg.TXSerialSize = v
	}
	if v, ok := asInt(m["tx_bt_size"]); ok {
		cfg.TXBTSize = v
	}
	if v, ok := asInt(m["tx_others_size"]); ok {
		cfg.TXOthersSize = v
	}
	if v, ok := asInt(m["rx_serial_size"]); ok {
		cfg.RXSerialSize = v
	}
	if v, ok := asInt(m["rx_bt_size"]); ok {
		cfg.RXBTSize = v
	}
	if v, ok := asInt(m["rx_others_size"]); ok {
		cfg.RXOthersSize = v
	}
	if pins, ok := m["pins"].(map[string]any); ok {
		if v, ok := asInt(pins["mosi"]); ok {
			cfg.Pins.MOSI = v
		}
		if v, ok := asInt(pins["miso"]); ok {
			cfg.Pins.MISO = v
		}
		if v, ok := asInt(pins["sclk"]); ok {
			cfg.Pins.SCLK = v
		}
		if v, ok := asInt(pins["cs"]); ok {
			cfg.Pins.CS = v
		}
		if v, ok := asInt(pins["handshake"]); ok {
			cfg.Pins.Handshake = v
		}
		if v, ok := asInt(pins["data_ready"]); ok {
			cfg.Pins.DataReady = v
		}
	}
}

// asInt accepts the float64 that tinyjson produces for JSON numbers.
func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	default:
		return 0, false
	}
}

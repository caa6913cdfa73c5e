package txconfig

import "github.com/jangala-dev/esp-hosted-spi/x/strx"

// Default returns the out-of-the-box configuration: unified queues,
// checksum on, deassert-on-completion, a DMA pool (not heap), and the pin
// numbers for the reference board. Callers override via Decode.
func Default() Config {
	return Config{
		SPIMode:      1,
		Pins:         Pins{MOSI: 19, MISO: 20, SCLK: 18, CS: 21, Handshake: 2, DataReady: 3},
		BufSize:      1600,
		HWQueueDepth: 3,

		PriorityTX: false,
		PriorityRX: false,

		TXQueueSize: 20,
		RXQueueSize: 20,

		TXSerialSize: 5,
		TXBTSize:     10,
		TXOthersSize: 20,
		RXSerialSize: 5,
		RXBTSize:     10,
		RXOthersSize: 20,

		PoolEnable:     true,
		ChecksumEnable: true,
		HSDeassertOnCS: false,
	}
}

// embeddedConfigs mirrors defaultconfigs.go's per-board table: raw JSON
// blobs baked into flash rather than loaded from a filesystem the core
// doesn't have.
var embeddedConfigs = map[string][]byte{
	"esp32-pico": []byte(`{
		"spi_mode": 1,
		"buf_size": 1600,
		"hw_queue_depth": 3,
		"priority_tx": true,
		"priority_rx": true,
		"tx_serial_size": 5,
		"tx_bt_size": 10,
		"tx_others_size": 20,
		"rx_serial_size": 5,
		"rx_bt_size": 10,
		"rx_others_size": 20,
		"pool_enable": true,
		"checksum_enable": true,
		"hs_deassert_on_cs": true,
		"pins": {"mosi": 13, "miso": 12, "sclk": 14, "cs": 15, "handshake": 2, "data_ready": 4}
	}`),
	"esp32-host-sim": []byte(`{
		"spi_mode": 1,
		"buf_size": 256,
		"hw_queue_depth": 1,
		"priority_tx": false,
		"priority_rx": false,
		"tx_queue_size": 8,
		"rx_queue_size": 8,
		"pool_enable": true,
		"checksum_enable": true,
		"hs_deassert_on_cs": false,
		"pins": {"mosi": 0, "miso": 1, "sclk": 2, "cs": 3, "handshake": 4, "data_ready": 5}
	}`),
}

// ForBoard resolves a board identifier to a Config, falling back to
// Default() for unknown boards rather than failing init outright.
func ForBoard(board string) (Config, error) {
	raw, ok := embeddedConfigs[strx.Coalesce(board, "esp32-pico")]
	if !ok {
		return Default(), nil
	}
	return Decode(raw)
}

package spihw

import "tinygo.org/x/drivers"

// NewMachineAdapter builds an Adapter directly around a
// tinygo.org/x/drivers.SPI, the interface a real machine.SPI (configured
// for slave mode by the board's init code) already satisfies. This is
// the board-build counterpart to NewLoopbackAdapter: same Adapter, a real
// peripheral instead of a simulated master.
func NewMachineAdapter(spi drivers.SPI, depth int) *Adapter {
	return NewAdapter(SPIFunc(spi.Tx), depth)
}

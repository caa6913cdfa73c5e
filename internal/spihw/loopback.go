package spihw

// Loopback simulates the bus master side of a transaction for tests and
// cmd/spi-slave-demo: each clocked transaction hands whatever the slave
// placed in TX to a Master func, and whatever the Master func returns
// becomes the bytes the slave reads back into RX. Grounded on the fake
// IRQ pin in services/hal/internal/gpioirq's test — a hand-rolled
// in-memory stand-in rather than a mock framework.
type Loopback struct {
	// Master is invoked once per clocked transaction with a copy of the
	// bytes the slave transmitted; it returns the bytes the simulated
	// master drives back. A nil Master returns all-zero RX.
	Master func(fromSlave []byte) (toSlave []byte)
}

func (l *Loopback) Tx(w, r []byte) error {
	var reply []byte
	if l.Master != nil {
		sent := make([]byte, len(w))
		copy(sent, w)
		reply = l.Master(sent)
	}
	for i := range r {
		if i < len(reply) {
			r[i] = reply[i]
		} else {
			r[i] = 0
		}
	}
	return nil
}

// NewLoopbackAdapter builds an Adapter around a Loopback so tests and demo
// code can exercise the pump exactly as it drives a real Peripheral.
func NewLoopbackAdapter(lb *Loopback, depth int) *Adapter {
	return NewAdapter(lb, depth)
}

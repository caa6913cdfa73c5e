package gpioline

import "sync/atomic"

// Signals owns the three side-band lines and tracks their asserted state
// so callers (and tests) can query it without touching hardware. Both
// output lines start deasserted (§4.2); pull resistors must be programmed
// by the caller before the SPI slave peripheral is enabled, to avoid
// spurious pulses with no master connected.
type Signals struct {
	handshake Pin
	dataReady Pin
	cs        IRQPin

	hsAsserted atomic.Bool
	drAsserted atomic.Bool
}

// New wires the three lines and configures them to their power-on state:
// both outputs low, CS as an interrupt input. It does not program pull
// resistors itself — that is board/pin-mux specific and happens before
// New is called, per §4.2.
func New(handshake, dataReady Pin, cs IRQPin) (*Signals, error) {
	if err := handshake.ConfigureOutput(false); err != nil {
		return nil, err
	}
	if err := dataReady.ConfigureOutput(false); err != nil {
		return nil, err
	}
	if err := cs.ConfigureInput(PullNone); err != nil {
		return nil, err
	}
	return &Signals{handshake: handshake, dataReady: dataReady, cs: cs}, nil
}

// AssertHandshake/DeassertHandshake drive HANDSHAKE. Called from the SPI
// peripheral's post-setup/post-transaction callbacks (interrupt context,
// §4.5.3) or from the CS-edge handler under the alternate policy (§4.5.4):
// touches GPIO and an atomic flag only, no allocation.
func (s *Signals) AssertHandshake() {
	s.handshake.Set(true)
	s.hsAsserted.Store(true)
}

func (s *Signals) DeassertHandshake() {
	s.handshake.Set(false)
	s.hsAsserted.Store(false)
}

func (s *Signals) HandshakeAsserted() bool { return s.hsAsserted.Load() }

// AssertDataReady/DeassertDataReady drive DATA_READY. Called from the
// pump: asserted by write() when a real frame lands in a TX queue,
// deasserted when get_next_tx_buffer finds every TX queue empty (§4.2).
func (s *Signals) AssertDataReady() {
	s.dataReady.Set(true)
	s.drAsserted.Store(true)
}

func (s *Signals) DeassertDataReady() {
	s.dataReady.Set(false)
	s.drAsserted.Store(false)
}

func (s *Signals) DataReadyAsserted() bool { return s.drAsserted.Load() }

// CSLevel reads the chip-select line directly — used by the CS-edge
// handler under the "deassert on CS" policy (§4.5.4) to distinguish "still
// clocking" (low) from "master released CS" (high).
func (s *Signals) CSLevel() bool { return s.cs.Get() }

// WatchCS registers handler to run on every edge of CS_EDGE. Returns a
// cancel function. The handler runs in interrupt context.
func (s *Signals) WatchCS(handler func()) (cancel func(), err error) {
	if err := s.cs.SetIRQ(EdgeBoth, handler); err != nil {
		return nil, err
	}
	return func() { _ = s.cs.ClearIRQ() }, nil
}

package pump

// onPostSetup and onPostTransaction are the two SPI-peripheral callbacks
// (§4.5.3): interrupt context, GPIO and the CS ticket only, no allocation,
// no queue access.
func (pu *Pump) onPostSetup() {
	pu.p.Signals.AssertHandshake()
}

func (pu *Pump) onPostTransaction() {
	if pu.p.Policy == DeassertOnCompletion {
		pu.p.Signals.DeassertHandshake()
	}
}

// onCSEdge implements the alternate policy's CS_EDGE handler (§4.5.4):
// CS low means a transaction is still in flight or only just finished, so
// HANDSHAKE comes down now; CS high means the master has released the
// bus, so the pump worker is released to re-arm.
func (pu *Pump) onCSEdge() {
	if pu.p.Signals.CSLevel() {
		select {
		case pu.csTicket <- struct{}{}:
		default:
		}
		return
	}
	pu.p.Signals.DeassertHandshake()
}

package transport

import (
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/pump"
)

// wrapHook adapts the caller's Hook (§4.7) to pump.EventHook, which the
// pump invokes synchronously from its RX decode path — interrupt-adjacent
// but not itself an ISR (§5) — on power-save transitions (S5). A
// diagnostic publish happens first when Diag is configured, then the
// caller's own hook runs; both must return quickly and neither may call
// back into Write/Read.
func (t *Transport) wrapHook(h Hook) pump.EventHook {
	return func(flags frame.Flags) {
		t.publishPowerSave(flags)
		if h != nil {
			h(flags)
		}
	}
}

func (t *Transport) publishPowerSave(flags frame.Flags) {
	if t.diag == nil {
		return
	}
	event := "power_save_stopped"
	if flags&frame.FlagPowerSaveStarted != 0 {
		event = "power_save_started"
	}
	t.diag.Publish(t.diag.NewMessage(lifecycleTopic, event, true))
}

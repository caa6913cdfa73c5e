package transport

import (
	"github.com/jangala-dev/esp-hosted-spi/bus"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/hostevt"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txconfig"
)

// Hook is the public shape of the §4.7 event hook: invoked synchronously
// from the RX decode path, must return quickly, must not call back into
// Write/Read.
type Hook func(flags frame.Flags)

// Options bundles everything Init needs. The caller supplies the
// hardware bindings (Peripheral, Handshake/DataReady/CS pins); Init owns
// everything downstream of them (pools, queues, the pump).
type Options struct {
	Config txconfig.Config

	Peripheral spihw.Peripheral
	Handshake  gpioline.Pin
	DataReady  gpioline.Pin
	CS         gpioline.IRQPin

	Hook Hook

	// StartupInfo feeds the §4.5.5 startup event. ChipID/Capabilities are
	// caller-supplied — the transport doesn't know its own silicon
	// identity or build feature set.
	StartupInfo hostevt.Info

	// Diag, if non-nil, receives retained lifecycle notifications
	// (startup, power-save transitions, reset, deinit) on the topic
	// bus.T("transport", "lifecycle"). Purely diagnostic — the core
	// itself never subscribes to anything.
	Diag *bus.Connection
}

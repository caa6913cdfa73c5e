// Command spi-slave-demo drives the transport core against an in-memory
// loopback master instead of real SPI hardware on a host machine. It reads
// the startup event (S6) and writes a single serial frame (S2) that the
// loopback master echoes back; priority preemption, corrupt frames and
// power-save events are not exercised.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jangala-dev/esp-hosted-spi/bus"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/hostevt"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txconfig"
	"github.com/jangala-dev/esp-hosted-spi/transport"
)

// hostPin is the simplest possible GPIO stand-in: an in-process boolean,
// same shape the package tests use instead of a real machine.Pin.
type hostPin struct{ level bool }

func (p *hostPin) ConfigureInput(gpioline.Pull) error { return nil }
func (p *hostPin) ConfigureOutput(init bool) error {
	p.level = init
	return nil
}
func (p *hostPin) Set(b bool) { p.level = b }
func (p *hostPin) Get() bool  { return p.level }

type hostIRQPin struct{ hostPin }

func (p *hostIRQPin) SetIRQ(gpioline.Edge, func()) error { return nil }
func (p *hostIRQPin) ClearIRQ() error                    { return nil }

func main() {
	cfg, err := txconfig.ForBoard("esp32-host-sim")
	if err != nil {
		panic(err)
	}

	// The loopback master echoes back whatever the slave last clocked out,
	// so a write shows up on a later read exactly as a real master's reply
	// traffic would.
	lb := &spihw.Loopback{Master: func(fromSlave []byte) []byte { return fromSlave }}
	adapter := spihw.NewLoopbackAdapter(lb, cfg.HWQueueDepth)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	adapter.Start(ctx)

	b := bus.NewBus(4)
	diag := b.NewConnection("diag")
	defer diag.Disconnect()
	sub := diag.Subscribe(bus.T("transport", "lifecycle"))
	defer diag.Unsubscribe(sub)
	go func() {
		for msg := range sub.Channel() {
			fmt.Printf("diag: %v = %v\n", msg.Topic, msg.Payload)
		}
	}()

	tr, err := transport.Init(ctx, transport.Options{
		Config:      cfg,
		Peripheral:  adapter,
		Handshake:   &hostPin{},
		DataReady:   &hostPin{},
		CS:          &hostIRQPin{},
		StartupInfo: hostevt.Info{ChipID: 0x42, Capabilities: hostevt.CapChecksumEnabled},
		Diag:        diag,
		Hook: func(flags frame.Flags) {
			fmt.Printf("event hook: flags=%#x\n", flags)
		},
	})
	if err != nil {
		panic(err)
	}
	defer tr.Deinit()

	// S6: the startup event is already waiting, delivered locally without
	// needing anything to echo it back over the wire.
	startup, err := tr.Read(ctx)
	if err != nil {
		panic(err)
	}
	fmt.Printf("startup event payload: %x\n", startup.Payload)
	startup.Release()

	// S2: a single serial frame, echoed back by the loopback master.
	if _, err := tr.Write(transport.Frame{IfType: frame.IfSerial, Payload: []byte{0x01, 0x02, 0x03}}); err != nil {
		panic(err)
	}

	time.Sleep(50 * time.Millisecond)
	echoed, err := tr.Read(ctx)
	if err == nil {
		fmt.Printf("echoed frame: if_type=%v payload=%x\n", echoed.IfType, echoed.Payload)
		echoed.Release()
	}
}

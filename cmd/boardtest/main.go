// Command boardtest is a bring-up checklist for real hardware: it drives
// the transport core against whatever SPI peripheral and signal pins a
// board build wires in, and reports pass/fail for each signal-line and
// transaction-pump behaviour rather than leaving bring-up to eyeballing
// a logic analyzer trace. Adapted from the power-rail bring-up loop in
// cmd/boardtest (sequence, dwell, assess freshness, repeat) with the
// power-rail/LED/UART specifics replaced by SPI signal-line checks.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/hostevt"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txconfig"
	"github.com/jangala-dev/esp-hosted-spi/transport"
)

// boardPin/boardIRQPin stand in for real machine pins until a board build
// supplies its own; swap these for the board's actual GPIO wiring.
type boardPin struct{ level bool }

func (p *boardPin) ConfigureInput(gpioline.Pull) error { return nil }
func (p *boardPin) ConfigureOutput(init bool) error {
	p.level = init
	return nil
}
func (p *boardPin) Set(b bool) { p.level = b }
func (p *boardPin) Get() bool  { return p.level }

type boardIRQPin struct{ boardPin }

func (p *boardIRQPin) SetIRQ(gpioline.Edge, func()) error { return nil }
func (p *boardIRQPin) ClearIRQ() error                    { return nil }

const (
	// Cycles: 0 = loop forever.
	cyclesToRun = 1
	settleDelay = 20 * time.Millisecond
)

type check struct {
	name string
	run  func(tr *transport.Transport, lb *spihw.Loopback) error
}

var checks = []check{
	{"handshake deasserted after init drains", checkHandshakeIdle},
	{"startup event readable", checkStartupEvent},
	{"write raises data_ready", checkWriteRaisesDataReady},
	{"data_ready clears once drained", checkDataReadyClears},
}

func checkHandshakeIdle(tr *transport.Transport, lb *spihw.Loopback) error {
	time.Sleep(settleDelay)
	if tr.Handle().HandshakeAsserted() {
		return fmt.Errorf("handshake still asserted after settling")
	}
	return nil
}

func checkStartupEvent(tr *transport.Transport, lb *spihw.Loopback) error {
	f, err := tr.Read(context.Background())
	if err != nil {
		return fmt.Errorf("read startup event: %w", err)
	}
	defer f.Release()
	if f.IfType != frame.IfPriv {
		return fmt.Errorf("startup event has wrong if_type: %v", f.IfType)
	}
	return nil
}

func checkWriteRaisesDataReady(tr *transport.Transport, lb *spihw.Loopback) error {
	if _, err := tr.Write(transport.Frame{IfType: frame.IfSerial, Payload: []byte{0xAA}}); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	time.Sleep(settleDelay)
	if !tr.Handle().DataReadyAsserted() {
		return fmt.Errorf("data_ready not asserted after write")
	}
	return nil
}

func checkDataReadyClears(tr *transport.Transport, lb *spihw.Loopback) error {
	time.Sleep(200 * time.Millisecond)
	if tr.Handle().DataReadyAsserted() {
		return fmt.Errorf("data_ready still asserted after the master drained the queue")
	}
	return nil
}

func main() {
	cfg, err := txconfig.ForBoard("esp32-pico")
	if err != nil {
		panic(err)
	}

	cycle := 0
	for {
		cycle++
		fmt.Printf("=== boardtest: cycle %d ===\n", cycle)

		lb := &spihw.Loopback{Master: func(fromSlave []byte) []byte { return nil }}
		adapter := spihw.NewLoopbackAdapter(lb, cfg.HWQueueDepth)
		ctx, cancel := context.WithCancel(context.Background())
		adapter.Start(ctx)

		tr, err := transport.Init(ctx, transport.Options{
			Config:      cfg,
			Peripheral:  adapter,
			Handshake:   &boardPin{},
			DataReady:   &boardPin{},
			CS:          &boardIRQPin{},
			StartupInfo: hostevt.Info{ChipID: 0x01},
		})
		if err != nil {
			fmt.Printf("[FAIL] init: %v\n", err)
			cancel()
			return
		}

		failures := 0
		for _, c := range checks {
			if err := c.run(tr, lb); err != nil {
				fmt.Printf("[FAIL] %s: %v\n", c.name, err)
				failures++
			} else {
				fmt.Printf("[PASS] %s\n", c.name)
			}
		}

		tr.Deinit()
		adapter.Stop()
		cancel()

		if failures == 0 {
			fmt.Println("[PASS] cycle complete, no failures")
		} else {
			fmt.Printf("[FAIL] cycle complete, %d failure(s)\n", failures)
		}

		if cyclesToRun > 0 && cycle >= cyclesToRun {
			return
		}
	}
}

// Command serial-bridge forwards the SERIAL interface (§4.3's IfType
// values) between the transport core and a UART, the way the host
// control-plane link is wired in real deployments: AT-command-style
// traffic in both directions, framed on one side and raw bytes on the
// other. Bridge does the forwarding; main itself only brings up the UART
// and waits, since it has no board-specific transport to run Bridge on.
//
// The UART port shape is the same minimal surface
// services/hal/internal/halcore.UARTPort exposes around a TinyGo UART —
// ByteWriter/Write for TX, Buffered/Read/Readable for a non-blocking RX
// poll loop — so this bridge builds against either a real board UART or
// a test fake without caring which.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/logx"
	"github.com/jangala-dev/esp-hosted-spi/transport"
)

// UARTPort mirrors halcore.UARTPort's RX/TX surface.
type UARTPort interface {
	WriteByte(b byte) error
	Write(p []byte) (int, error)
	Buffered() int
	Read(p []byte) (int, error)
	Readable() <-chan struct{}
}

const maxFrame = 256

// Bridge copies SERIAL frames out of the transport onto a UART, and
// UART bytes into the transport as SERIAL frames, until ctx is done.
type Bridge struct {
	Transport *transport.Transport
	UART      UARTPort
}

func (b *Bridge) Run(ctx context.Context) {
	go b.pumpFromTransport(ctx)
	b.pumpFromUART(ctx)
}

func (b *Bridge) pumpFromTransport(ctx context.Context) {
	for {
		f, err := b.Transport.Read(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				continue
			}
		}
		if f.IfType != frame.IfSerial {
			f.Release()
			continue
		}
		if _, err := b.UART.Write(f.Payload); err != nil {
			logx.Warn("serial-bridge: uart write failed: %v", err)
		}
		f.Release()
	}
}

func (b *Bridge) pumpFromUART(ctx context.Context) {
	buf := make([]byte, maxFrame)
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.UART.Readable():
		}
		n, err := b.UART.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		payload := append([]byte(nil), buf[:n]...)
		if _, err := b.Transport.Write(transport.Frame{
			IfType:  frame.IfSerial,
			Payload: payload,
		}); err != nil {
			logx.Warn("serial-bridge: transport write failed: %v", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	uart := newBoardUART0()

	// A real build also supplies the board's SPI peripheral and signal
	// pins to transport.Init (spihw.NewMachineAdapter over machine.SPI in
	// slave mode); wiring that up is board-specific and left to the board
	// build, so this command stops at the UART side of the bridge.
	_ = uart

	logx.Info("serial-bridge: uart0 ready, supply a board-specific transport to bridge it")
	<-ctx.Done()
}

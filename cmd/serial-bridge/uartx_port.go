package main

import (
	"context"

	"github.com/jangala-dev/tinygo-uartx/uartx"
)

// uartxPort adapts a *uartx.UART (the rp2xxx IRQ-driven ring-buffer UART
// the rest of the pack wires for "uart0"/"uart1") to the UARTPort surface
// this bridge needs, the same way rp2SerialPort adapts it to
// core.SerialPort in the HAL provider this is grounded on.
type uartxPort struct {
	u *uartx.UART

	readable chan struct{}
}

func newUARTXPort(u *uartx.UART) *uartxPort {
	return &uartxPort{u: u, readable: make(chan struct{}, 1)}
}

func (p *uartxPort) WriteByte(b byte) error { return p.u.WriteByte(b) }
func (p *uartxPort) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *uartxPort) Buffered() int { return p.u.Buffered() }
func (p *uartxPort) Read(b []byte) (int, error) { return p.u.Read(b) }

// Readable signals once whenever a poll call observes buffered data,
// since uartx exposes RecvSomeContext rather than its own ready channel.
func (p *uartxPort) Readable() <-chan struct{} {
	if p.u.Buffered() > 0 {
		select {
		case p.readable <- struct{}{}:
		default:
		}
	}
	return p.readable
}

// RecvSomeContext bypasses the Readable/Read poll pair with uartx's own
// blocking receive when the caller already has a context to bound it by.
func (p *uartxPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

func newBoardUART0() UARTPort {
	hw := uartx.UART0
	_ = hw.Configure(uartx.UARTConfig{})
	return newUARTXPort(hw)
}

// Package pump implements the transaction pump (§4.5): the worker that
// keeps the SPI slave peripheral's hardware queue supplied with exactly
// one ready transaction at a time, decodes completed RX buffers onto the
// RX queue, and drives the HANDSHAKE/DATA_READY signal lines. Grounded on
// the pack's services/hal/internal/gpioirq worker — a single dedicated
// goroutine looping on a hardware channel, distinct from the
// measure_worker's ticker-driven poll loop.
package pump

import (
	"context"
	"sync"

	"github.com/jangala-dev/esp-hosted-spi/internal/bufpool"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/logx"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txrxqueue"
)

// CSPolicy selects one of the two mutually exclusive HANDSHAKE-deassert
// policies (§4.5.4), fixed at build time.
type CSPolicy int

const (
	// DeassertOnCompletion clears HANDSHAKE from the post-transaction
	// hook. Default; simple, but can race a slow master (§4.5.4).
	DeassertOnCompletion CSPolicy = iota
	// DeassertOnCSEdge defers the decision to a CS_EDGE interrupt,
	// serializing "clocked and CS released" before re-arming.
	DeassertOnCSEdge
)

// EventHook is the single callback (§4.7) invoked synchronously from the
// RX decode path when a decoded frame's flags carry a power-save
// transition. It must return quickly and must not call back into the
// transport's Write/Read.
type EventHook func(flags frame.Flags)

// Params bundles everything the pump needs to wire itself to the rest of
// the core. TXQueue/RXQueue are deliberately the txrxqueue.Queue
// interface, satisfied by either Unified or Priority (§4.4) — the pump
// doesn't care which.
type Params struct {
	TXQueue txrxqueue.Queue
	RXQueue txrxqueue.Queue

	TXPool bufpool.Allocator
	RXPool bufpool.Allocator

	Signals    *gpioline.Signals
	Peripheral spihw.Peripheral

	BufSize         int
	ChecksumEnabled bool
	Policy          CSPolicy

	// TransPoolSize preallocates that many transaction-descriptor slots
	// (§4.1's hardware-depth-sized trans pool); the free list still grows
	// past it under load rather than returning OutOfBuffers, since a
	// descriptor here is a small Go value, not DMA memory — §4.1's bound
	// matters for the TX/RX byte pools, not this one.
	TransPoolSize int

	Hook EventHook
}

// transMeta is stashed on each spihw.Transaction's UserData so the
// completion loop knows, without inspecting buffer contents, whether the
// TX side was the read-only dummy buffer (§4.5.2 step 5).
type transMeta struct {
	txIsDummy bool
	// txBuf is the full pooled TX slot that was sent, returned to TXPool
	// once the transaction completes; nil when txIsDummy.
	txBuf []byte
}

// Pump owns the dummy buffer, the CS-deassert ticket (policy-dependent)
// and the completion-loop goroutine. Its fields are only ever touched by
// that one goroutine plus the interrupt-context hooks it installs, per
// the single-writer-per-resource rule in §5.
type Pump struct {
	p Params

	dummy []byte

	csTicket chan struct{}

	transMu   sync.Mutex
	transFree []*transMeta // free list standing in for the §4.1 transaction-descriptor pool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New validates nothing beyond what's needed to build the dummy buffer —
// txconfig.Config.Validate is the gate for build-time configuration
// errors (§7).
func New(p Params) *Pump {
	pu := &Pump{
		p:        p,
		dummy:    make([]byte, p.BufSize), // read-only at runtime; header below has Len==0, so Decode sees a dummy
		csTicket: make(chan struct{}, 1),
	}
	if len(pu.dummy) >= frame.HeaderSize {
		frame.PutHeader(pu.dummy, frame.Header{IfType: frame.IfMax, IfNum: 0x0F})
	}
	for i := 0; i < p.TransPoolSize; i++ {
		pu.transFree = append(pu.transFree, &transMeta{})
	}
	pu.p.Peripheral.SetPostSetupHook(pu.onPostSetup)
	pu.p.Peripheral.SetPostTransactionHook(pu.onPostTransaction)
	return pu
}

// Start wires the CS_EDGE watcher (if the build uses that policy) and
// launches the completion-loop goroutine (§4.5.2). It does not arm the
// first transaction — callers prime the pump explicitly once startup
// bookkeeping (§4.5.5) is queued.
func (pu *Pump) Start(ctx context.Context) (cancel func(), err error) {
	ctx, pu.cancel = context.WithCancel(ctx)

	if pu.p.Policy == DeassertOnCSEdge {
		if _, err := pu.p.Signals.WatchCS(pu.onCSEdge); err != nil {
			pu.cancel()
			return nil, err
		}
	}

	pu.wg.Add(1)
	go pu.completionLoop(ctx)

	return pu.cancel, nil
}

// Wait blocks until the completion loop has exited (after Stop/cancel).
func (pu *Pump) Wait() { pu.wg.Wait() }

func (pu *Pump) allocTransMeta() *transMeta {
	pu.transMu.Lock()
	defer pu.transMu.Unlock()
	n := len(pu.transFree)
	if n == 0 {
		return &transMeta{}
	}
	m := pu.transFree[n-1]
	pu.transFree = pu.transFree[:n-1]
	*m = transMeta{}
	return m
}

func (pu *Pump) freeTransMeta(m *transMeta) {
	pu.transMu.Lock()
	pu.transFree = append(pu.transFree, m)
	pu.transMu.Unlock()
}

// getNextTXBuffer implements §4.5.1 step 1: try every TX class in
// priority order, falling back to the dummy buffer and deasserting
// DATA_READY when nothing is queued. The returned buffer is always the
// full BUF_SIZE slot, not just the encoded payload prefix — §3 clocks
// exactly BUF_SIZE bytes every transaction regardless of payload length,
// and a peripheral driven by BitLen (pump.go's BufSize*8) expects a TX
// slice that long.
func (pu *Pump) getNextTXBuffer() (buf []byte, isDummy bool) {
	item, ok := pu.p.TXQueue.TryDequeue()
	if !ok {
		pu.p.Signals.DeassertDataReady()
		return pu.dummy, true
	}
	return item.Buf, false
}

// rxAllocRetries bounds the re-draw loop below. §4.1's sizing formulas
// keep the RX pool large enough that Alloc failing here should be
// transient (a burst of in-flight completions not yet freed); retrying a
// handful of times rather than failing outright matches the original
// queue_next_transaction, which re-pulls get_next_tx_buffer on this same
// condition instead of propagating the failure to its caller.
const rxAllocRetries = 8

// QueueNextTransaction is queue_next_transaction() (§4.5.1): pulls the
// next TX buffer (or the dummy), allocates a zero-filled RX buffer, and
// submits both to the peripheral's hardware queue, blocking if that
// queue is already full. If the RX pool is briefly exhausted, it frees
// the drawn TX buffer and re-draws a fresh one rather than returning
// immediately — the TX item that lost its buffer this way stays dequeued
// and is dropped, same as any other AllocFailed path (§7).
func (pu *Pump) QueueNextTransaction(ctx context.Context) error {
	var txBuf []byte
	var isDummy bool
	var rxBuf []byte
	var err error

	for attempt := 0; ; attempt++ {
		txBuf, isDummy = pu.getNextTXBuffer()
		rxBuf, err = pu.p.RXPool.Alloc(true)
		if err == nil {
			break
		}
		if !isDummy {
			pu.p.TXPool.Free(txBuf)
		}
		if attempt >= rxAllocRetries {
			logx.Warn("pump: rx alloc failed after %d retries: %v", attempt, err)
			return err
		}
	}

	meta := pu.allocTransMeta()
	meta.txIsDummy = isDummy
	if !isDummy {
		meta.txBuf = txBuf
	}

	t := spihw.Transaction{
		TX:       txBuf,
		RX:       rxBuf,
		BitLen:   pu.p.BufSize * 8,
		UserData: meta,
	}
	if err := pu.p.Peripheral.Queue(ctx, t); err != nil {
		pu.freeTransMeta(meta)
		pu.p.RXPool.Free(rxBuf)
		if !isDummy {
			pu.p.TXPool.Free(txBuf)
		}
		return err
	}
	return nil
}

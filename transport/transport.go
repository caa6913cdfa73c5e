// Package transport is the public API of the core (§4.6): Init, Write,
// Read, Reset, Deinit, wiring the buffer pools, signal lines, frame
// codec, priority queues and transaction pump into one owned value —
// the single-struct-ownership shape the design notes call for in place
// of the original's global statics (§9).
package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jangala-dev/esp-hosted-spi/bus"
	"github.com/jangala-dev/esp-hosted-spi/errcode"
	"github.com/jangala-dev/esp-hosted-spi/internal/bufpool"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/hostevt"
	"github.com/jangala-dev/esp-hosted-spi/internal/logx"
	"github.com/jangala-dev/esp-hosted-spi/internal/pump"
	"github.com/jangala-dev/esp-hosted-spi/internal/txconfig"
	"github.com/jangala-dev/esp-hosted-spi/internal/txrxqueue"
)

var lifecycleTopic = bus.T("transport", "lifecycle")

// Transport owns every resource created by Init and released by Deinit:
// pools, queues, signal lines and the pump. There is no package-level
// mutable state (§9 "global static context").
type Transport struct {
	cfg txconfig.Config

	txPool bufpool.Allocator
	rxPool bufpool.Allocator

	txQueue txrxqueue.Queue
	rxQueue txrxqueue.Queue

	signals *gpioline.Signals
	pu      *pump.Pump

	seq atomic.Uint32

	diag   *bus.Connection
	closed atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Init builds pools and queues from cfg, wires the signal lines and pump,
// emits the startup event (§4.5.5), and primes the pump. Configuration
// errors (§7) are returned rather than asserted, since this is a library
// rather than firmware with no caller to report to.
func Init(ctx context.Context, opts Options) (*Transport, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{cfg: cfg, diag: opts.Diag}

	t.txQueue, t.rxQueue = buildQueues(cfg)

	txDepth, rxDepth := queueDepthSums(cfg)
	txPoolSize, rxPoolSize, transPoolSize := bufpool.Sizes(txDepth, rxDepth, cfg.HWQueueDepth)
	if cfg.PoolEnable {
		t.txPool = bufpool.New(cfg.BufSize, txPoolSize)
		t.rxPool = bufpool.New(cfg.BufSize, rxPoolSize)
	} else {
		t.txPool = bufpool.NewHeap(cfg.BufSize)
		t.rxPool = bufpool.NewHeap(cfg.BufSize)
	}

	sig, err := gpioline.New(opts.Handshake, opts.DataReady, opts.CS)
	if err != nil {
		return nil, err
	}
	t.signals = sig

	t.pu = pump.New(pump.Params{
		TXQueue:         t.txQueue,
		RXQueue:         t.rxQueue,
		TXPool:          t.txPool,
		RXPool:          t.rxPool,
		Signals:         sig,
		Peripheral:      opts.Peripheral,
		BufSize:         cfg.BufSize,
		ChecksumEnabled: cfg.ChecksumEnable,
		Policy:          policyFor(cfg),
		TransPoolSize:   transPoolSize,
		Hook:            t.wrapHook(opts.Hook),
	})

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	if _, err := t.pu.Start(runCtx); err != nil {
		cancel()
		return nil, err
	}

	if err := t.emitStartupEvent(runCtx, opts.StartupInfo); err != nil {
		cancel()
		return nil, err
	}

	t.publishLifecycle("init", nil)
	logx.Info("transport: init complete, buf_size=%d priority_tx=%v priority_rx=%v", cfg.BufSize, cfg.PriorityTX, cfg.PriorityRX)
	return t, nil
}

func policyFor(cfg txconfig.Config) pump.CSPolicy {
	if cfg.HSDeassertOnCS {
		return pump.DeassertOnCSEdge
	}
	return pump.DeassertOnCompletion
}

func buildQueues(cfg txconfig.Config) (tx, rx txrxqueue.Queue) {
	if cfg.PriorityTX {
		tx = txrxqueue.NewPriority(cfg.TXSerialSize, cfg.TXBTSize, cfg.TXOthersSize)
	} else {
		tx = txrxqueue.NewUnified(cfg.TXQueueSize)
	}
	if cfg.PriorityRX {
		rx = txrxqueue.NewPriority(cfg.RXSerialSize, cfg.RXBTSize, cfg.RXOthersSize)
	} else {
		rx = txrxqueue.NewUnified(cfg.RXQueueSize)
	}
	return tx, rx
}

func queueDepthSums(cfg txconfig.Config) (tx, rx int) {
	if cfg.PriorityTX {
		tx = cfg.TXSerialSize + cfg.TXBTSize + cfg.TXOthersSize
	} else {
		tx = cfg.TXQueueSize
	}
	if cfg.PriorityRX {
		rx = cfg.RXSerialSize + cfg.RXBTSize + cfg.RXOthersSize
	} else {
		rx = cfg.RXQueueSize
	}
	return tx, rx
}

// emitStartupEvent implements §4.5.5: encode the TLV payload onto the
// internal PRIV interface, enqueue it for transmission to the host over
// the wire, and also hand a copy straight to the RX queue so the local
// caller's very next Read sees it without depending on anything echoing
// it back (§8 S6 — "immediately after init, read returns" the startup
// frame, not "once the master loops it back").
func (t *Transport) emitStartupEvent(ctx context.Context, info hostevt.Info) error {
	payload := hostevt.Encode(info)
	seq := uint16(t.seq.Add(1))

	txBuf, err := t.txPool.Alloc(false)
	if err != nil {
		return err
	}
	totalLen, err := frame.Encode(txBuf, frame.IfPriv, 0, seq, 0, payload, t.cfg.ChecksumEnable)
	if err != nil {
		t.txPool.Free(txBuf)
		return err
	}
	if err := t.txQueue.Enqueue(txrxqueue.ClassOthers, txrxqueue.Item{
		Buf:        txBuf,
		PayloadLen: totalLen,
		IfType:     frame.IfPriv,
		IfNum:      0,
	}); err != nil {
		t.txPool.Free(txBuf)
		return err
	}
	t.signals.AssertDataReady()

	rxBuf, err := t.rxPool.Alloc(false)
	if err != nil {
		return err
	}
	if _, err := frame.Encode(rxBuf, frame.IfPriv, 0, seq, 0, payload, t.cfg.ChecksumEnable); err != nil {
		t.rxPool.Free(rxBuf)
		return err
	}
	if err := t.rxQueue.Enqueue(txrxqueue.ClassFor(frame.IfPriv), txrxqueue.Item{
		Buf:        rxBuf,
		PayloadLen: totalLen,
		IfType:     frame.IfPriv,
		IfNum:      0,
		Release:    func() { t.rxPool.Free(rxBuf) },
	}); err != nil {
		t.rxPool.Free(rxBuf)
		return err
	}

	return t.pu.QueueNextTransaction(ctx)
}

func (t *Transport) publishLifecycle(event string, err error) {
	if t.diag == nil {
		return
	}
	payload := map[string]any{"event": event}
	if err != nil {
		payload["error"] = err.Error()
	}
	t.diag.Publish(t.diag.NewMessage(lifecycleTopic, payload, true))
}

// Reset re-arms the pump and signal lines without discarding
// configuration or pools (§4.6). Callers must quiesce producers/
// consumers first — Reset does not drain in-flight queue items.
func (t *Transport) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() {
		return errcode.Closed
	}

	if t.cancel != nil {
		t.cancel()
	}
	t.pu.Wait()

	t.signals.DeassertHandshake()
	t.signals.DeassertDataReady()

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	if _, err := t.pu.Start(runCtx); err != nil {
		return err
	}
	if err := t.pu.QueueNextTransaction(runCtx); err != nil {
		return err
	}
	t.publishLifecycle("reset", nil)
	logx.Info("transport: reset complete")
	return nil
}

// Deinit stops the pump and releases the transport. It aborts cleanly
// only when no transactions are in flight (§5) — callers must quiesce
// upper layers first; Deinit itself does not wait for that.
func (t *Transport) Deinit() error {
	if !t.closed.CompareAndSwap(false, true) {
		return errcode.Closed
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.pu.Wait()
	t.publishLifecycle("deinit", nil)
	logx.Info("transport: deinit complete")
	return nil
}

// Handle exposes the seldom-needed escape hatches (diagnostics, raw
// signal state) without widening the main Write/Read/Reset/Deinit
// surface.
type Handle struct {
	t *Transport
}

func (t *Transport) Handle() Handle { return Handle{t: t} }

func (h Handle) HandshakeAsserted() bool { return h.t.signals.HandshakeAsserted() }
func (h Handle) DataReadyAsserted() bool { return h.t.signals.DataReadyAsserted() }

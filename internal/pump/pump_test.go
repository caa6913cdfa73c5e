package pump

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jangala-dev/esp-hosted-spi/internal/bufpool"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/gpioline"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txrxqueue"
)

// fakePin is a minimal standalone GPIO fake, the same hand-rolled shape
// gpioline's own tests use rather than a mock framework.
type fakePin struct {
	mu    sync.Mutex
	level bool
}

func (p *fakePin) ConfigureInput(gpioline.Pull) error  { return nil }
func (p *fakePin) ConfigureOutput(init bool) error {
	p.mu.Lock()
	p.level = init
	p.mu.Unlock()
	return nil
}
func (p *fakePin) Set(b bool) {
	p.mu.Lock()
	p.level = b
	p.mu.Unlock()
}
func (p *fakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

type fakeIRQPin struct {
	fakePin
	handler func()
}

func (p *fakeIRQPin) SetIRQ(_ gpioline.Edge, h func()) error {
	p.handler = h
	return nil
}
func (p *fakeIRQPin) ClearIRQ() error { p.handler = nil; return nil }

const testBufSize = 16

func newTestPump(t *testing.T, policy CSPolicy) (*Pump, *spihw.Loopback, txrxqueue.Queue, txrxqueue.Queue, bufpool.Allocator, bufpool.Allocator, *fakeIRQPin) {
	t.Helper()
	cs := &fakeIRQPin{}
	sig, err := gpioline.New(&fakePin{}, &fakePin{}, cs)
	if err != nil {
		t.Fatalf("gpioline.New: %v", err)
	}

	txPool := bufpool.New(testBufSize, 4)
	rxPool := bufpool.New(testBufSize, 4)
	txQ := txrxqueue.NewUnified(4)
	rxQ := txrxqueue.NewUnified(4)

	lb := &spihw.Loopback{}
	adapter := spihw.NewLoopbackAdapter(lb, 1)

	pu := New(Params{
		TXQueue:         txQ,
		RXQueue:         rxQ,
		TXPool:          txPool,
		RXPool:          rxPool,
		Signals:         sig,
		Peripheral:      adapter,
		BufSize:         testBufSize,
		ChecksumEnabled: true,
		Policy:          policy,
	})

	ctx, cancel := context.WithCancel(context.Background())
	adapter.Start(ctx)
	pumpCancel, err := pu.Start(ctx)
	if err != nil {
		t.Fatalf("pump.Start: %v", err)
	}
	t.Cleanup(func() {
		pumpCancel()
		adapter.Stop()
		cancel()
	})
	return pu, lb, txQ, rxQ, txPool, rxPool, cs
}

func TestPumpDummyRoundTrip(t *testing.T) {
	pu, lb, _, _, _, _, _ := newTestPump(t, DeassertOnCompletion)
	_ = lb

	ctx := context.Background()
	if err := pu.QueueNextTransaction(ctx); err != nil {
		t.Fatalf("QueueNextTransaction: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	// Dummy TX, dummy RX (loopback master returns nothing): nothing should
	// land on the RX queue.
	if _, ok := pu.p.RXQueue.TryDequeue(); ok {
		t.Fatal("expected no RX item from an all-dummy exchange")
	}
}

func TestPumpDecodesValidFrameFromMaster(t *testing.T) {
	pu, lb, txQ, rxQ, _, rxPool, _ := newTestPump(t, DeassertOnCompletion)
	_ = txQ

	masterBuf := make([]byte, testBufSize)
	payload := []byte{0xDE, 0xAD}
	if _, err := frame.Encode(masterBuf, frame.IfSerial, 3, 7, 0, payload, true); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	lb.Master = func(fromSlave []byte) []byte { return masterBuf }

	if err := pu.QueueNextTransaction(context.Background()); err != nil {
		t.Fatalf("QueueNextTransaction: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if item, ok := rxQ.TryDequeue(); ok {
			if item.IfType != frame.IfSerial || item.IfNum != 3 {
				t.Fatalf("unexpected item %+v", item)
			}
			before := rxPool.(*bufpool.Pool).Len()
			item.Release()
			if after := rxPool.(*bufpool.Pool).Len(); after != before+1 {
				t.Fatalf("Release did not return the buffer to the pool: before=%d after=%d", before, after)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for decoded frame on RX queue")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestPumpCSEdgeHandler(t *testing.T) {
	pu, _, _, _, _, _, cs := newTestPump(t, DeassertOnCSEdge)

	pu.p.Signals.AssertHandshake()

	// CS low: master still clocking or just finished -> HANDSHAKE drops.
	cs.Set(false)
	pu.onCSEdge()
	if pu.p.Signals.HandshakeAsserted() {
		t.Fatal("expected HANDSHAKE deasserted when CS reads low")
	}

	// CS high: master released the bus -> ticket posted, non-blocking.
	cs.Set(true)
	done := make(chan struct{})
	go func() {
		pu.onCSEdge()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onCSEdge should not block when CS reads high")
	}
	select {
	case <-pu.csTicket:
	default:
		t.Fatal("expected CS ticket to be posted")
	}
}

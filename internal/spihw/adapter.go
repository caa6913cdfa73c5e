package spihw

import (
	"context"
	"sync"
)

// SyncSPI is the synchronous shape tinygo.org/x/drivers.SPI exposes:
// clock out w and in r in one blocking call. A machine.SPI in slave mode,
// or any fake that needs only that much, satisfies it directly.
type SyncSPI interface {
	Tx(w, r []byte) error
}

// SPIFunc adapts a plain function to SyncSPI, the same trick
// http.HandlerFunc uses for http.Handler.
type SPIFunc func(w, r []byte) error

func (f SPIFunc) Tx(w, r []byte) error { return f(w, r) }

// Adapter turns a SyncSPI into a Peripheral by running Tx calls on a
// dedicated worker, queueing at most depth transactions ahead of the
// hardware (§4.5.1 step 4). It also stands in for real DMA-capable SPI
// slave peripherals whose actual post-setup/post-transaction interrupts
// aren't available on the host: the hooks fire from the worker goroutine
// at the equivalent points instead of from an ISR.
type Adapter struct {
	spi   SyncSPI
	queue chan Transaction
	done  chan Completion

	mu              sync.Mutex
	postSetup       func()
	postTransaction func()

	cancel context.CancelFunc
}

func NewAdapter(spi SyncSPI, depth int) *Adapter {
	if depth < 1 {
		depth = 1
	}
	return &Adapter{
		spi:   spi,
		queue: make(chan Transaction, depth),
		done:  make(chan Completion, depth),
	}
}

// Start launches the worker goroutine. It must be called once, after the
// hooks are installed, before the first Queue.
func (a *Adapter) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	go a.run(ctx)
}

// Stop halts the worker. Queued transactions that never reached the
// peripheral are dropped.
func (a *Adapter) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *Adapter) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-a.queue:
			a.fireSetupHook()
			err := a.spi.Tx(t.TX, t.RX)
			a.fireTransactionHook()
			select {
			case a.done <- Completion{Trans: t, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (a *Adapter) fireSetupHook() {
	a.mu.Lock()
	fn := a.postSetup
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (a *Adapter) fireTransactionHook() {
	a.mu.Lock()
	fn := a.postTransaction
	a.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (a *Adapter) Queue(ctx context.Context, t Transaction) error {
	select {
	case a.queue <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Adapter) Completions() <-chan Completion { return a.done }

func (a *Adapter) SetPostSetupHook(fn func()) {
	a.mu.Lock()
	a.postSetup = fn
	a.mu.Unlock()
}

func (a *Adapter) SetPostTransactionHook(fn func()) {
	a.mu.Lock()
	a.postTransaction = fn
	a.mu.Unlock()
}

// Package spihw defines the SPI-slave hardware queue the pump drives
// (§4.5) and a synchronous-to-asynchronous adapter for it. The target
// peripheral's real driver issues two callbacks per transaction
// (post-setup, post-transaction, §4.5.3) and completes transactions on a
// channel; both are modeled directly rather than squeezed through the
// simple blocking Tx(w, r []byte) call tinygo.org/x/drivers.SPI exposes,
// because that shape has no room for those two hardware callbacks. Adapter
// bridges the gap for targets (and tests) that only have the synchronous
// shape available.
package spihw

import "context"

// Transaction is the 3-tuple §3 describes: a TX buffer, an RX buffer and
// a bit length. Per §8 invariant 1, every armed transaction must have both
// buffers non-nil and BitLen == BUF_SIZE*8.
type Transaction struct {
	TX     []byte
	RX     []byte
	BitLen int

	// UserData is opaque to Peripheral; the pump stores its own
	// per-transaction bookkeeping here (e.g. "was this the dummy buffer")
	// and reads it back off the matching Completion.
	UserData any
}

// Completion is delivered once a queued Transaction has been clocked.
type Completion struct {
	Trans Transaction
	Err   error
}

// Peripheral is the SPI-slave hardware queue abstraction the pump owns
// (§4.5). Queue may block — bounded by the peripheral's own hardware
// depth (§4.5.1 step 4). The two hook setters install interrupt-context
// callbacks (§4.5.3); they must be called before the peripheral starts
// processing transactions.
type Peripheral interface {
	Queue(ctx context.Context, t Transaction) error
	Completions() <-chan Completion
	SetPostSetupHook(func())
	SetPostTransactionHook(func())
}

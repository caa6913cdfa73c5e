// Package txrxqueue implements the per-direction bounded queues (§4.4):
// either one unified queue or three strict-priority class queues (serial,
// bluetooth, others), plus the priority configuration's counting ticket.
// Queues are multi-producer/single-consumer per direction (§5) — Enqueue
// may be called from many upper-layer writer goroutines, but only the pump
// (TX side) or one reader (RX side) ever dequeues.
package txrxqueue

import (
	"context"
	"errors"

	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
)

// Class is a priority class. Ordering is strict: Serial > BT > Others
// (§4.4, §5). The unified configuration ignores Class and always enqueues
// to a single queue.
type Class int

const (
	ClassOthers Class = iota
	ClassBT
	ClassSerial
)

// classOrder is dequeue priority, highest first.
var classOrder = [...]Class{ClassSerial, ClassBT, ClassOthers}

// ClassFor maps a frame's interface family onto a priority class (§4.4):
// serial gets its own lane, the HCI (bluetooth controller) interface maps
// to the bluetooth lane, everything else — STA, SoftAP, PRIV, TEST —
// shares the others lane.
func ClassFor(t frame.IfType) Class {
	switch t {
	case frame.IfSerial:
		return ClassSerial
	case frame.IfHCI:
		return ClassBT
	default:
		return ClassOthers
	}
}

// Item is one queued frame: the buffer, the length written into it (for TX
// items the 4-byte-aligned header+payload length Encode returns, for RX
// items the decoded offset+len), the interface it belongs to, and — for RX items —
// a hook the consumer calls to release the buffer back to its pool once
// done reading (§4.6).
type Item struct {
	Buf        []byte
	PayloadLen int
	IfType     frame.IfType
	IfNum      uint8
	Release    func()
}

// ErrEmpty names the empty-queue condition. Neither queue returns it:
// TryDequeue reports an empty queue as ok == false, and Dequeue waits
// until an item arrives or ctx is done.
var ErrEmpty = errors.New("txrxqueue: empty")

// Queue is satisfied by both Unified and Priority. The pump's TX arm step
// (§4.5.1) always uses TryDequeue, which never blocks regardless of mode.
// The public read() API uses TryDequeue for a unified queue (returning
// errcode.Empty immediately) or Dequeue for a priority queue (blocking on the
// ticket) — see §4.6.
type Queue interface {
	// Enqueue blocks if the target class's queue is full (§4.4).
	Enqueue(class Class, item Item) error
	// TryDequeue polls non-blocking in priority order; empty returns false.
	TryDequeue() (Item, bool)
	// Dequeue blocks until an item is available or ctx is done.
	Dequeue(ctx context.Context) (Item, error)
}

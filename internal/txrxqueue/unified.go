package txrxqueue

import "context"

// Unified is the single-queue-per-direction configuration (§4.4). Class is
// accepted for interface parity with Priority but ignored.
type Unified struct {
	ch chan Item
}

func NewUnified(size int) *Unified {
	return &Unified{ch: make(chan Item, size)}
}

func (u *Unified) Enqueue(_ Class, item Item) error {
	u.ch <- item
	return nil
}

func (u *Unified) TryDequeue() (Item, bool) {
	select {
	case item := <-u.ch:
		return item, true
	default:
		return Item{}, false
	}
}

// Dequeue blocks until an item is enqueued or ctx is cancelled. Unlike
// Priority's ticket-gated wait, this blocks directly on the channel — a
// unified RX queue has nothing to prioritize between.
func (u *Unified) Dequeue(ctx context.Context) (Item, error) {
	select {
	case item := <-u.ch:
		return item, nil
	case <-ctx.Done():
		return Item{}, ctx.Err()
	}
}

// Len reports the number of items currently queued (diagnostics/tests).
func (u *Unified) Len() int { return len(u.ch) }

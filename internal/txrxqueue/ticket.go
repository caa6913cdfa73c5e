package txrxqueue

import "context"

// ticket is the counting semaphore §4.4 describes: "an additional counting
// ticket counts total enqueued items across all classes so a single wait
// suffices." One token is posted per successful enqueue and consumed per
// dequeue attempt, letting a consumer block on "something, somewhere, is
// queued" without polling three channels.
type ticket struct {
	ch chan struct{}
}

func newTicket(capacity int) *ticket {
	return &ticket{ch: make(chan struct{}, capacity)}
}

// post is non-blocking: capacity equals the sum of class depths, so a
// successful Enqueue (which itself blocked on the class channel having
// room) always has a free slot here too.
func (t *ticket) post() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

func (t *ticket) wait(ctx context.Context) error {
	select {
	case <-t.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *ticket) tryTake() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

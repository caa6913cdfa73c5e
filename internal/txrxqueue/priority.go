package txrxqueue

import "context"

// Priority is the 3-class configuration (§4.4): serial, bluetooth, others,
// each an independently-sized bounded channel, plus the counting ticket
// that lets Dequeue block on "anything queued" instead of polling.
type Priority struct {
	serial chan Item
	bt     chan Item
	others chan Item
	tick   *ticket
}

func NewPriority(serialSize, btSize, othersSize int) *Priority {
	return &Priority{
		serial: make(chan Item, serialSize),
		bt:     make(chan Item, btSize),
		others: make(chan Item, othersSize),
		tick:   newTicket(serialSize + btSize + othersSize),
	}
}

func (p *Priority) chanFor(c Class) chan Item {
	switch c {
	case ClassSerial:
		return p.serial
	case ClassBT:
		return p.bt
	default:
		return p.others
	}
}

// Enqueue blocks if the target class's queue is full (§4.4). Upper layers
// must not monopolize higher-priority classes — no starvation mitigation
// is implemented, per spec.
func (p *Priority) Enqueue(class Class, item Item) error {
	p.chanFor(class) <- item
	p.tick.post()
	return nil
}

// TryDequeue polls serial, then bt, then others, never blocking.
func (p *Priority) TryDequeue() (Item, bool) {
	for _, c := range classOrder {
		select {
		case item := <-p.chanFor(c):
			p.tick.tryTake()
			return item, true
		default:
		}
	}
	return Item{}, false
}

// Dequeue blocks on the ticket, then drains in priority order. The ticket
// wait and the priority poll are two separate steps (§4.4), so a woken
// caller that loses a race to another consumer retries rather than
// blocking forever — RX queues are meant to have exactly one consumer
// (§5), but this keeps Dequeue correct even if that's relaxed later.
func (p *Priority) Dequeue(ctx context.Context) (Item, error) {
	for {
		if err := p.tick.wait(ctx); err != nil {
			return Item{}, err
		}
		if item, ok := p.tryDequeueNoTicket(); ok {
			return item, nil
		}
	}
}

// tryDequeueNoTicket polls the class channels without touching the ticket
// (already consumed by Dequeue's wait).
func (p *Priority) tryDequeueNoTicket() (Item, bool) {
	for _, c := range classOrder {
		select {
		case item := <-p.chanFor(c):
			return item, true
		default:
		}
	}
	return Item{}, false
}

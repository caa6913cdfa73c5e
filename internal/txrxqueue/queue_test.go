package txrxqueue

import (
	"context"
	"testing"
	"time"
)

func TestUnifiedEnqueueTryDequeue(t *testing.T) {
	q := NewUnified(2)
	if _, ok := q.TryDequeue(); ok {
		t.Fatal("expected empty queue")
	}
	q.Enqueue(ClassOthers, Item{PayloadLen: 1})
	item, ok := q.TryDequeue()
	if !ok || item.PayloadLen != 1 {
		t.Fatalf("unexpected dequeue result: %+v ok=%v", item, ok)
	}
}

func TestUnifiedDequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewUnified(1)
	done := make(chan Item, 1)
	go func() {
		item, err := q.Dequeue(context.Background())
		if err != nil {
			t.Error(err)
			return
		}
		done <- item
	}()
	time.Sleep(10 * time.Millisecond)
	q.Enqueue(ClassOthers, Item{PayloadLen: 9})
	select {
	case item := <-done:
		if item.PayloadLen != 9 {
			t.Fatalf("unexpected item %+v", item)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Dequeue")
	}
}

func TestUnifiedDequeueRespectsContext(t *testing.T) {
	q := NewUnified(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatal("expected context deadline error")
	}
}

func TestPriorityStrictOrdering(t *testing.T) {
	// S3: enqueue OTHERS, BT, SERIAL in that order; expect SERIAL, BT,
	// OTHERS on dequeue.
	q := NewPriority(4, 4, 4)
	q.Enqueue(ClassOthers, Item{IfNum: 1})
	q.Enqueue(ClassBT, Item{IfNum: 2})
	q.Enqueue(ClassSerial, Item{IfNum: 3})

	want := []uint8{3, 2, 1}
	for _, w := range want {
		item, ok := q.TryDequeue()
		if !ok || item.IfNum != w {
			t.Fatalf("want ifnum %d, got %+v ok=%v", w, item, ok)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Fatal("expected empty after draining all three classes")
	}
}

func TestPriorityDequeueBlocksOnTicket(t *testing.T) {
	q := NewPriority(2, 2, 2)
	result := make(chan Item, 1)
	go func() {
		item, err := q.Dequeue(context.Background())
		if err != nil {
			t.Error(err)
			return
		}
		result <- item
	}()
	time.Sleep(10 * time.Millisecond)
	q.Enqueue(ClassSerial, Item{IfNum: 42})
	select {
	case item := <-result:
		if item.IfNum != 42 {
			t.Fatalf("unexpected item %+v", item)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Dequeue")
	}
}

func TestPriorityEnqueueBlocksWhenClassFull(t *testing.T) {
	q := NewPriority(1, 1, 1)
	q.Enqueue(ClassSerial, Item{IfNum: 1})
	enqueued := make(chan struct{})
	go func() {
		q.Enqueue(ClassSerial, Item{IfNum: 2})
		close(enqueued)
	}()
	select {
	case <-enqueued:
		t.Fatal("Enqueue should block while the serial class is full")
	case <-time.After(20 * time.Millisecond):
	}
	q.TryDequeue() // drain one slot
	select {
	case <-enqueued:
	case <-time.After(time.Second):
		t.Fatal("Enqueue did not unblock after room freed")
	}
}

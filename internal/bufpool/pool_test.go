package bufpool

import "testing"

func TestAllocFreeRoundTrip(t *testing.T) {
	p := New(16, 2)
	a, err := p.Alloc(false)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if len(a) != 16 {
		t.Fatalf("unexpected slot size %d", len(a))
	}
	b, err := p.Alloc(false)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if _, err := p.Alloc(false); err != ErrOutOfBuffers {
		t.Fatalf("expected ErrOutOfBuffers, got %v", err)
	}
	p.Free(a)
	p.Free(b)
	if p.Len() != 2 {
		t.Fatalf("expected 2 free slots after returning both, got %d", p.Len())
	}
}

func TestAllocZeroFill(t *testing.T) {
	p := New(8, 1)
	buf, _ := p.Alloc(false)
	for i := range buf {
		buf[i] = 0xFF
	}
	p.Free(buf)

	buf2, err := p.Alloc(true)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	for i, b := range buf2 {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %#x", i, b)
		}
	}
}

func TestHeapAllocatorNeverRunsOut(t *testing.T) {
	h := NewHeap(32)
	for i := 0; i < 100; i++ {
		if _, err := h.Alloc(false); err != nil {
			t.Fatalf("alloc %d: %v", i, err)
		}
	}
}

func TestSizesFormula(t *testing.T) {
	tx, rx, trans := Sizes(30, 35, 3)
	if tx != 34 { // 30 + 3 + 1
		t.Fatalf("tx = %d", tx)
	}
	if rx != 41 { // 35 + 2*3
		t.Fatalf("rx = %d", rx)
	}
	if trans != 3 {
		t.Fatalf("trans = %d", trans)
	}
}

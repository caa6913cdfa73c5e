package bufpool

// HeapAllocator is the "cache-malloc pool enable = false" build option
// (§6): it allocates fresh slots from the general heap on every call
// instead of drawing from a fixed pool, and Free is a no-op, leaving
// reclamation to the garbage collector. Same Allocator interface as Pool,
// so the pump doesn't need to know which one it was given.
type HeapAllocator struct {
	slotSize int
}

func NewHeap(slotSize int) *HeapAllocator {
	return &HeapAllocator{slotSize: slotSize}
}

func (h *HeapAllocator) SlotSize() int { return h.slotSize }

func (h *HeapAllocator) Alloc(zeroFill bool) ([]byte, error) {
	// make() always zero-fills in Go, so zeroFill is a no-op here — kept
	// as a parameter for interface parity with Pool.
	return make([]byte, h.slotSize), nil
}

func (h *HeapAllocator) Free([]byte) {}

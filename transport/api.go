package transport

import (
	"context"
	"errors"

	"github.com/jangala-dev/esp-hosted-spi/errcode"
	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/txrxqueue"
)

// Frame is the caller-facing shape for Write/Read — the header fields
// plus payload, without any of the internal buffer-pool bookkeeping.
type Frame struct {
	IfType  frame.IfType
	IfNum   uint8
	Flags   frame.Flags
	Payload []byte

	// Release must be called once the caller is done reading a Frame
	// returned by Read, to return the RX buffer to its pool (§4.6). It is
	// nil on a Frame passed to Write.
	Release func()
}

// Write encodes and enqueues one frame (§4.3, §4.6). It blocks if the
// destination priority class is full — producers that can't tolerate
// that must size queues accordingly (§9).
func (t *Transport) Write(f Frame) (int, error) {
	if t.closed.Load() {
		return 0, errcode.Closed
	}
	if f.IfNum > 0x0F {
		return 0, errcode.InvalidArg
	}

	buf, err := t.txPool.Alloc(false)
	if err != nil {
		return 0, errcode.AllocFailed
	}

	totalLen, err := frame.Encode(buf, f.IfType, f.IfNum, uint16(t.seq.Add(1)), f.Flags, f.Payload, t.cfg.ChecksumEnable)
	if err != nil {
		t.txPool.Free(buf)
		switch {
		case errors.Is(err, frame.ErrEmptyPayload):
			return 0, errcode.InvalidArg
		case errors.Is(err, frame.ErrPayloadTooLarge):
			return 0, errcode.PayloadTooLarge
		default:
			return 0, errcode.Error
		}
	}

	class := txrxqueue.ClassFor(f.IfType)
	if err := t.txQueue.Enqueue(class, txrxqueue.Item{
		Buf:        buf,
		PayloadLen: totalLen,
		IfType:     f.IfType,
		IfNum:      f.IfNum,
	}); err != nil {
		t.txPool.Free(buf)
		return 0, errcode.Error
	}
	t.signals.AssertDataReady()

	return totalLen, nil
}

// Read returns the next RX frame (§4.6). With priority RX queues, it
// blocks on the RX ticket until ctx is done; with a unified queue, it is
// non-blocking and returns errcode.Empty immediately if nothing is
// queued. Callers must call the returned Frame.Release once done reading
// its Payload.
func (t *Transport) Read(ctx context.Context) (Frame, error) {
	if t.closed.Load() {
		return Frame{}, errcode.Closed
	}

	var item txrxqueue.Item
	var ok bool
	if t.cfg.PriorityRX {
		it, err := t.rxQueue.Dequeue(ctx)
		if err != nil {
			return Frame{}, err
		}
		item, ok = it, true
	} else {
		item, ok = t.rxQueue.TryDequeue()
		if !ok {
			return Frame{}, errcode.Empty
		}
	}

	// The pump already validated and decoded this buffer once before
	// enqueueing it (§4.5.2); re-running frame.Decode here would zero the
	// checksum field a second time and spuriously fail. Pull the payload
	// straight from the header instead.
	h := frame.GetHeader(item.Buf)
	return Frame{
		IfType:  h.IfType,
		IfNum:   h.IfNum,
		Flags:   h.Flags,
		Payload: item.Buf[h.Offset : h.Offset+h.Len],
		Release: item.Release,
	}, nil
}

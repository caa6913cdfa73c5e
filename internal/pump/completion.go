package pump

import (
	"context"
	"errors"

	"github.com/jangala-dev/esp-hosted-spi/internal/frame"
	"github.com/jangala-dev/esp-hosted-spi/internal/logx"
	"github.com/jangala-dev/esp-hosted-spi/internal/spihw"
	"github.com/jangala-dev/esp-hosted-spi/internal/txrxqueue"
)

// completionLoop is the dedicated worker of §4.5.2: block on the
// peripheral's completion channel, re-arm immediately to minimize dead
// time, then decode and dispatch the buffer that just came back.
func (pu *Pump) completionLoop(ctx context.Context) {
	defer pu.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-pu.p.Peripheral.Completions():
			if !ok {
				return
			}
			pu.handleCompletion(ctx, c)
		}
	}
}

func (pu *Pump) handleCompletion(ctx context.Context, c spihw.Completion) {
	meta, _ := c.Trans.UserData.(*transMeta)

	if pu.p.Policy == DeassertOnCSEdge {
		select {
		case <-pu.csTicket:
		case <-ctx.Done():
			return
		}
	}

	if err := pu.QueueNextTransaction(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logx.Warn("pump: re-arm failed: %v", err)
	}

	pu.dispatchRX(c.Trans.RX)

	if meta != nil {
		if !meta.txIsDummy && meta.txBuf != nil {
			pu.p.TXPool.Free(meta.txBuf)
		}
		pu.freeTransMeta(meta)
	}
}

// dispatchRX implements §4.5.2 steps 3-4: decode the buffer that just
// came back over the wire, enqueue valid frames onto the matching RX
// class, or free the buffer immediately if it was invalid or a dummy.
func (pu *Pump) dispatchRX(rxBuf []byte) {
	d, err := frame.Decode(rxBuf, pu.p.ChecksumEnabled)
	if err != nil {
		if !errors.Is(err, frame.ErrDummy) {
			logx.Warn("pump: rx decode: %v", err)
		}
		pu.p.RXPool.Free(rxBuf)
		return
	}

	if pu.p.Hook != nil && d.Flags&(frame.FlagPowerSaveStarted|frame.FlagPowerSaveStopped) != 0 {
		pu.p.Hook(d.Flags)
	}

	item := txrxqueue.Item{
		Buf:        rxBuf,
		PayloadLen: d.PayloadLen,
		IfType:     d.IfType,
		IfNum:      d.IfNum,
		Release: func() {
			pu.p.RXPool.Free(rxBuf)
		},
	}
	pu.p.RXQueue.Enqueue(txrxqueue.ClassFor(d.IfType), item)
}

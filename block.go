// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "code.hybscloud.com/atomix"

// block is a fixed-capacity array of slots plus a link to its successor.
// It is the unit of allocation and reclamation: producers and consumers
// advance through a block's slots with plain index increments, and only
// pay for an allocation or a pointer swing at a block boundary.
type block[T any] struct {
	slots        []slot[T]
	_            pad
	next         atomix.Pointer[block[T]]
	_            pad
	readCount    atomix.Uint32 // slots driven to READ, release-counted
	headDeparted atomix.Bool   // true once head has advanced past this block
	cap          uint32
}

func newBlock[T any](capacity uint32) *block[T] {
	return &block[T]{slots: make([]slot[T], capacity), cap: capacity}
}

// installNext allocates and publishes this block's successor exactly
// once. The producer that reserved the final slot of a block calls this;
// if a racing producer already installed a successor, the loser's spare
// allocation is simply left unreferenced — on a garbage collected runtime
// that is the whole of "deallocating the spare".
func (b *block[T]) installNext(capacity uint32) (next *block[T], installed bool) {
	if nb := b.next.LoadAcquire(); nb != nil {
		return nb, false
	}
	spare := newBlock[T](capacity)
	if b.next.CompareAndSwapAcqRel(nil, spare) {
		return spare, true
	}
	return b.next.LoadAcquire(), false
}

// markRead is consumer bookkeeping: call after a slot's value has been
// taken, so the thread that eventually drains the block's last slot can
// tell the block is fully drained.
func (b *block[T]) markRead() {
	if b.readCount.AddAcqRel(1) == b.cap && b.drainable() {
		b.reclaim()
	}
}

// departHead marks that the head cursor has advanced past this block. It
// is called by the consumer whose cursor CAS swings head onto b.next.
func (b *block[T]) departHead() {
	b.headDeparted.StoreRelease(true)
	if b.drainable() {
		b.reclaim()
	}
}

// drainable reports whether both reclamation preconditions hold: head has
// left this block and every slot in it has reached READ.
func (b *block[T]) drainable() bool {
	return b.headDeparted.LoadAcquire() && b.readCount.LoadAcquire() == b.cap
}

// reclaim drops this block's slot storage once it is provably
// unreachable from any future cursor operation. The block struct itself
// is freed by the garbage collector once the last position record or
// next-link pointing to it is gone; this just releases the larger slot
// array a little earlier instead of waiting on that last reference.
func (b *block[T]) reclaim() {
	b.slots = nil
}

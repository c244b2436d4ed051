// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"unsafe"

	"code.hybscloud.com/spin"
)

// PtrQueue is an unbounded lock-free MPMC queue of unsafe.Pointer values.
//
// It shares IndirectQueue's packedCore and packedBlock wholesale,
// reinterpreting the 64-bit value field as a pointer on the way out
// instead of giving pointer payloads their own block and slot types.
//
// Ownership: Enqueue transfers ownership of the pointee to whichever
// goroutine calls the matching Dequeue. The producer must not touch the
// object afterward, and must keep it reachable some other way (e.g. in a
// pool slice) until it is dequeued, since the value sits inside this
// queue only as raw bits and is invisible to the garbage collector's
// pointer scan while in flight.
type PtrQueue struct {
	c *packedCore
}

// NewPtrQueue creates a fresh, empty, unbounded pointer queue.
func NewPtrQueue(opts ...Option) *PtrQueue {
	return &PtrQueue{c: NewIndirectQueue(opts...).c}
}

// BlockCap returns the per-block slot count in use.
func (q *PtrQueue) BlockCap() int {
	q.mustOpen()
	return int(q.c.blockCap)
}

// BlocksAllocated returns the number of blocks allocated over the
// lifetime of the queue, including the initial one.
func (q *PtrQueue) BlocksAllocated() int64 {
	q.mustOpen()
	return q.c.blocksAllocated.LoadRelaxed()
}

func (q *PtrQueue) mustOpen() {
	if q.c == nil {
		panic("lfq: use of queue handle after Close")
	}
}

// Clone returns a new handle sharing this queue's core.
func (q *PtrQueue) Clone() *PtrQueue {
	q.mustOpen()
	q.c.refs.AddAcqRel(1)
	return &PtrQueue{c: q.c}
}

// Close releases this handle, tearing down the core once the last clone
// has closed. See Queue[T].Close for the full contract.
func (q *PtrQueue) Close() {
	q.mustOpen()
	c := q.c
	q.c = nil
	// See IndirectQueue.Close: a pointer value sitting in the queue
	// already depends on the caller keeping the pointee reachable some
	// other way, so there is nothing for this handle to release either.
	c.refs.AddAcqRel(-1)
}

// Enqueue adds an element to the queue.
func (q *PtrQueue) Enqueue(elem unsafe.Pointer) error {
	q.mustOpen()
	c := q.c
	sw := spin.Wait{}
	for {
		cur := c.tail.LoadAcquire()
		b := cur.block
		bc := c.blockCap

		if cur.index < bc-1 {
			next := &packedPosition{block: b, index: cur.index + 1, lap: cur.lap}
			if c.tail.CompareAndSwapAcqRel(cur, next) {
				b.slots[cur.index].write(uint64(uintptr(elem)))
				return nil
			}
			sw.Once()
			continue
		}

		nb, installed := b.installNext(bc)
		if installed {
			c.blocksAllocated.AddAcqRel(1)
		}
		next := &packedPosition{block: nb, index: 0, lap: cur.lap + 1}
		if c.tail.CompareAndSwapAcqRel(cur, next) {
			b.slots[cur.index].write(uint64(uintptr(elem)))
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element.
func (q *PtrQueue) Dequeue() (unsafe.Pointer, error) {
	q.mustOpen()
	c := q.c
	sw := spin.Wait{}
	for {
		cur := c.head.LoadAcquire()
		tail := c.tail.LoadAcquire()
		if cur.same(tail) {
			return nil, ErrEmpty
		}

		b := cur.block
		bc := c.blockCap

		if cur.index < bc-1 {
			next := &packedPosition{block: b, index: cur.index + 1, lap: cur.lap}
			if c.head.CompareAndSwapAcqRel(cur, next) {
				v := b.slots[cur.index].read()
				b.markRead()
				return *(*unsafe.Pointer)(unsafe.Pointer(&v)), nil
			}
			sw.Once()
			continue
		}

		nb := b.next.LoadAcquire()
		if nb == nil {
			sw.Once()
			continue
		}
		next := &packedPosition{block: nb, index: 0, lap: cur.lap + 1}
		if c.head.CompareAndSwapAcqRel(cur, next) {
			v := b.slots[cur.index].read()
			b.markRead()
			b.departHead()
			return *(*unsafe.Pointer)(unsafe.Pointer(&v)), nil
		}
		sw.Once()
	}
}

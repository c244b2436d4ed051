// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// packedSlot is a slot whose four-state handshake word and value share a
// single 128-bit atomic entry: lo holds the state, hi holds the value.
//
// Packing state and value together collapses beginWrite and publish into
// one compare-and-swap, at the cost of being usable only for word-sized
// payloads. It is the indirect counterpart of slot[T], trading slot[T]'s
// separate state word and value field for a single 128-bit entry so an
// enqueue costs one atomic instead of two, and a dequeue reads state and
// value with a single 128-bit load.
type packedSlot struct {
	entry atomix.Uint128 // lo=state, hi=value
	_     padDouble
}

func (s *packedSlot) write(value uint64) {
	if !s.entry.CompareAndSwapAcqRel(uint64(slotEmpty), 0, uint64(slotWritten), value) {
		panic("lfq: protocol violation: slot was not empty at reservation")
	}
}

// read waits for the producer to publish and takes the value, advancing
// the slot to its terminal READ state in the same step.
func (s *packedSlot) read() uint64 {
	sw := spin.Wait{}
	for {
		st, v := s.entry.LoadAcquire()
		if st == uint64(slotWritten) {
			if s.entry.CompareAndSwapAcqRel(st, v, uint64(slotRead), 0) {
				return v
			}
			continue
		}
		if st != uint64(slotEmpty) {
			panic("lfq: protocol violation: slot observed in impossible state")
		}
		sw.Once()
	}
}

// packedBlock is the indirect/Ptr counterpart of block[T]. It is kept as
// a separate, non-generic type rather than parameterized over packedSlot
// because packedSlot packs its value into the same 128-bit word as its
// state, which only works for a uintptr-sized payload — block[T] still
// carries any type through its own separately addressed value field.
type packedBlock struct {
	slots        []packedSlot
	_            pad
	next         atomix.Pointer[packedBlock]
	_            pad
	readCount    atomix.Uint32
	headDeparted atomix.Bool
	cap          uint32
}

func newPackedBlock(capacity uint32) *packedBlock {
	return &packedBlock{slots: make([]packedSlot, capacity), cap: capacity}
}

func (b *packedBlock) installNext(capacity uint32) (next *packedBlock, installed bool) {
	if nb := b.next.LoadAcquire(); nb != nil {
		return nb, false
	}
	spare := newPackedBlock(capacity)
	if b.next.CompareAndSwapAcqRel(nil, spare) {
		return spare, true
	}
	return b.next.LoadAcquire(), false
}

func (b *packedBlock) markRead() {
	if b.readCount.AddAcqRel(1) == b.cap && b.headDeparted.LoadAcquire() {
		b.reclaim()
	}
}

func (b *packedBlock) departHead() {
	b.headDeparted.StoreRelease(true)
	if b.readCount.LoadAcquire() == b.cap {
		b.reclaim()
	}
}

func (b *packedBlock) reclaim() {
	b.slots = nil
}

// packedPosition is the position[T] counterpart for packed blocks.
type packedPosition struct {
	block *packedBlock
	index uint32
	lap   uint64
}

func (p *packedPosition) same(q *packedPosition) bool {
	return p.block == q.block && p.index == q.index && p.lap == q.lap
}

// IndirectQueue is an unbounded lock-free MPMC queue of uintptr values.
//
// It exists for callers passing indices, handles or other word-sized
// tokens through the queue rather than a full T, where Queue[T]'s
// per-slot 4-byte state word plus separate value field would cost an
// extra cache line and an extra atomic operation per slot for no benefit.
type IndirectQueue struct {
	c *packedCore
}

type packedCore struct {
	_               pad
	tail            atomix.Pointer[packedPosition]
	_               pad
	head            atomix.Pointer[packedPosition]
	_               pad
	blockCap        uint32
	refs            atomix.Int64
	blocksAllocated atomix.Int64
}

// NewIndirectQueue creates a fresh, empty, unbounded indirect queue.
func NewIndirectQueue(opts ...Option) *IndirectQueue {
	cfg := queueConfig{blockCap: defaultBlockCap}
	for _, opt := range opts {
		opt(&cfg)
	}
	bc := uint32(roundToPow2(cfg.blockCap))

	first := newPackedBlock(bc)
	c := &packedCore{blockCap: bc}
	c.refs.StoreRelaxed(1)
	c.blocksAllocated.StoreRelaxed(1)
	start := &packedPosition{block: first, index: 0, lap: 0}
	c.tail.StoreRelease(start)
	c.head.StoreRelease(start)
	return &IndirectQueue{c: c}
}

// BlockCap returns the per-block slot count in use.
func (q *IndirectQueue) BlockCap() int {
	q.mustOpen()
	return int(q.c.blockCap)
}

// BlocksAllocated returns the number of blocks allocated over the
// lifetime of the queue, including the initial one.
func (q *IndirectQueue) BlocksAllocated() int64 {
	q.mustOpen()
	return q.c.blocksAllocated.LoadRelaxed()
}

func (q *IndirectQueue) mustOpen() {
	if q.c == nil {
		panic("lfq: use of queue handle after Close")
	}
}

// Clone returns a new handle sharing this queue's core.
func (q *IndirectQueue) Clone() *IndirectQueue {
	q.mustOpen()
	q.c.refs.AddAcqRel(1)
	return &IndirectQueue{c: q.c}
}

// Close releases this handle, tearing down the core once the last clone
// has closed. See Queue[T].Close for the full contract.
func (q *IndirectQueue) Close() {
	q.mustOpen()
	c := q.c
	q.c = nil
	// Unlike Queue[T], abandoned uintptr payloads hold no GC references
	// of their own, so there is no teardown walk to run once the last
	// handle's release drives the count to zero — the blocks simply
	// become unreachable.
	c.refs.AddAcqRel(-1)
}

// Enqueue adds an element to the queue.
func (q *IndirectQueue) Enqueue(elem uintptr) error {
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
				b.slots[cur.index].write(uint64(elem))
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
			b.slots[cur.index].write(uint64(elem))
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element.
func (q *IndirectQueue) Dequeue() (uintptr, error) {
	q.mustOpen()
	c := q.c
	sw := spin.Wait{}
	for {
		cur := c.head.LoadAcquire()
		tail := c.tail.LoadAcquire()
		if cur.same(tail) {
			return 0, ErrEmpty
		}

		b := cur.block
		bc := c.blockCap

		if cur.index < bc-1 {
			next := &packedPosition{block: b, index: cur.index + 1, lap: cur.lap}
			if c.head.CompareAndSwapAcqRel(cur, next) {
				v := b.slots[cur.index].read()
				b.markRead()
				return uintptr(v), nil
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
			return uintptr(v), nil
		}
		sw.Once()
	}
}

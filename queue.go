// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// defaultBlockCap is the per-block slot count used when a queue is built
// without an explicit block size. It is a small power of two, like every
// size WithBlockCap produces after rounding.
const defaultBlockCap = 32

// core owns the two independently advancing cursors that name the next
// slot each role will touch, plus the bookkeeping a Queue handle needs
// for reference counting and instrumentation. It is reachable only
// through a Queue and is torn down when the last handle referencing it
// closes.
type core[T any] struct {
	_               pad
	tail            atomix.Pointer[position[T]] // producers CAS here
	_               pad
	head            atomix.Pointer[position[T]] // consumers CAS here
	_               pad
	blockCap        uint32
	refs            atomix.Int64
	blocksAllocated atomix.Int64
}

// Queue is the shared-ownership handle producers and consumers hold to
// reach an unbounded lock-free FIFO queue.
//
// Cloning a Queue is the sanctioned way to share it across goroutines:
// each producer and consumer keeps its own clone and calls Close when
// done with it. The underlying queue core and every remaining block are
// torn down when the last clone is closed.
type Queue[T any] struct {
	c *core[T]
}

// Option configures a Queue at construction time.
type Option func(*queueConfig)

type queueConfig struct {
	blockCap int
}

// WithBlockCap overrides the per-block slot count. It is rounded up to
// the next power of two (minimum 2). The default is 32.
func WithBlockCap(n int) Option {
	return func(c *queueConfig) { c.blockCap = n }
}

// NewQueue creates a fresh, empty, unbounded queue and returns the first
// handle to it.
func NewQueue[T any](opts ...Option) *Queue[T] {
	cfg := queueConfig{blockCap: defaultBlockCap}
	for _, opt := range opts {
		opt(&cfg)
	}
	bc := uint32(roundToPow2(cfg.blockCap))

	first := newBlock[T](bc)
	c := &core[T]{blockCap: bc}
	c.refs.StoreRelaxed(1)
	c.blocksAllocated.StoreRelaxed(1)
	start := &position[T]{block: first, index: 0, lap: 0}
	c.tail.StoreRelease(start)
	c.head.StoreRelease(start)
	return &Queue[T]{c: c}
}

// BlockCap returns the per-block slot count in use.
func (q *Queue[T]) BlockCap() int {
	q.mustOpen()
	return int(q.c.blockCap)
}

// BlocksAllocated returns the number of blocks allocated over the
// lifetime of the queue, including the initial one. It exists for
// instrumentation and tests; application code should not depend on its
// exact value.
func (q *Queue[T]) BlocksAllocated() int64 {
	q.mustOpen()
	return q.c.blocksAllocated.LoadRelaxed()
}

func (q *Queue[T]) mustOpen() {
	if q.c == nil {
		panic("lfq: use of queue handle after Close")
	}
}

// Clone returns a new handle sharing this queue's core. The core is torn
// down only once every clone, including this one, has been closed.
func (q *Queue[T]) Clone() *Queue[T] {
	q.mustOpen()
	q.c.refs.AddAcqRel(1)
	return &Queue[T]{c: q.c}
}

// Close releases this handle. The handle whose release drives the
// reference count to zero runs teardown: every slot between head and
// tail that was published but never dequeued has its value dropped, and
// the core becomes unreachable from this package.
//
// Close is idempotent-unsafe by design: calling it twice on the same
// handle, or using the handle afterward, is a usage error and panics,
// matching the protocol-violation handling used elsewhere in this
// package.
func (q *Queue[T]) Close() {
	q.mustOpen()
	c := q.c
	q.c = nil
	if c.refs.AddAcqRel(-1) == 0 {
		teardown(c)
	}
}

// teardown runs only after the reference count has reached zero, so it
// is single-threaded by construction and needs no ordering beyond the
// relaxed bookkeeping reads it performs.
func teardown[T any](c *core[T]) {
	head := c.head.LoadRelaxed()
	tail := c.tail.LoadRelaxed()
	b := head.block
	i := head.index
	for {
		end := b.cap
		last := b == tail.block
		if last {
			end = tail.index
		}
		for ; i < end; i++ {
			b.slots[i].reclaimWritten()
		}
		if last {
			return
		}
		b = b.next.LoadRelaxed()
		i = 0
	}
}

// Enqueue adds an element to the queue. The queue is unbounded: the only
// way Enqueue fails is a panic on allocator exhaustion, which is treated
// as fatal rather than surfaced through a backpressure return value.
func (q *Queue[T]) Enqueue(elem *T) error {
	q.mustOpen()
	c := q.c
	sw := spin.Wait{}
	for {
		cur := c.tail.LoadAcquire()
		b := cur.block
		bc := c.blockCap

		if cur.index < bc-1 {
			next := &position[T]{block: b, index: cur.index + 1, lap: cur.lap}
			if c.tail.CompareAndSwapAcqRel(cur, next) {
				s := &b.slots[cur.index]
				s.beginWrite()
				s.value = *elem
				s.publish()
				return nil
			}
			sw.Once()
			continue
		}

		// Last slot of this block: the producer that reserves it is
		// responsible for installing the successor.
		nb, installed := b.installNext(bc)
		if installed {
			c.blocksAllocated.AddAcqRel(1)
		}
		next := &position[T]{block: nb, index: 0, lap: cur.lap + 1}
		if c.tail.CompareAndSwapAcqRel(cur, next) {
			s := &b.slots[cur.index]
			s.beginWrite()
			s.value = *elem
			s.publish()
			return nil
		}
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element.
// Returns (zero-value, ErrEmpty) if the queue is observed empty at the
// linearization point.
func (q *Queue[T]) Dequeue() (T, error) {
	q.mustOpen()
	c := q.c
	sw := spin.Wait{}
	for {
		cur := c.head.LoadAcquire()
		tail := c.tail.LoadAcquire()
		if cur.same(tail) {
			var zero T
			return zero, ErrEmpty
		}

		b := cur.block
		bc := c.blockCap

		if cur.index < bc-1 {
			next := &position[T]{block: b, index: cur.index + 1, lap: cur.lap}
			if c.head.CompareAndSwapAcqRel(cur, next) {
				v := b.slots[cur.index].read()
				b.markRead()
				return v, nil
			}
			sw.Once()
			continue
		}

		nb := b.next.LoadAcquire()
		if nb == nil {
			// The producer holding this slot has reserved it but not yet
			// installed a successor. The slot handshake, not the cursor,
			// is the source of truth for value visibility, so wait
			// briefly and retry rather than assume emptiness.
			sw.Once()
			continue
		}
		next := &position[T]{block: nb, index: 0, lap: cur.lap + 1}
		if c.head.CompareAndSwapAcqRel(cur, next) {
			v := b.slots[cur.index].read()
			b.markRead()
			b.departHead()
			return v, nil
		}
		sw.Once()
	}
}

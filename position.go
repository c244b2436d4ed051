// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// position names a single slot: which block it lives in, its index
// within that block, and the lap — a monotonic per-cursor counter
// incremented on every block rollover, which defeats ABA when a freed
// block's address would otherwise be reused.
//
// Go has no portable way to pack a pointer, an index and a lap counter
// into one machine word without breaking the garbage collector's ability
// to track the pointer. position is the indirection that stands in for
// that packed word: a cursor is an atomic pointer to one of these, and
// advancing the cursor allocates a new position and compare-and-swaps the
// pointer across.
//
// position values are immutable once published and are never mutated in
// place.
type position[T any] struct {
	block *block[T]
	index uint32
	lap   uint64
}

// same reports whether p and q name the same slot. Used for empty
// detection, which must compare the full triple rather than just the
// index: after a block rollover, a stale head sharing an index with tail
// but pointing at a different block (or a different lap of the same
// block) is not actually empty.
func (p *position[T]) same(q *position[T]) bool {
	return p.block == q.block && p.index == q.index && p.lap == q.lap
}

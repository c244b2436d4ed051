// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// Builder creates queues with fluent configuration.
//
// Builder exists mainly so callers choosing between the generic, Indirect
// and Ptr flavors can share one block-size setting instead of threading an
// Option slice through three different constructors.
//
// Example:
//
//	b := lfq.New(64) // block size rounds up to the next power of 2
//	q := lfq.BuildQueue[Event](b)
//	idx := lfq.BuildIndirect(b)
//	ptr := lfq.BuildPtr(b)
type Builder struct {
	blockCap int
}

// New creates a queue builder with the given block size.
// Block size rounds up to the next power of 2; the minimum is 2.
func New(blockCap int) *Builder {
	return &Builder{blockCap: blockCap}
}

// BuildQueue creates a Queue[T] using the builder's block size.
func BuildQueue[T any](b *Builder) *Queue[T] {
	return NewQueue[T](WithBlockCap(b.blockCap))
}

// BuildIndirect creates an IndirectQueue using the builder's block size.
func BuildIndirect(b *Builder) *IndirectQueue {
	return NewIndirectQueue(WithBlockCap(b.blockCap))
}

// BuildPtr creates a PtrQueue using the builder's block size.
func BuildPtr(b *Builder) *PtrQueue {
	return NewPtrQueue(WithBlockCap(b.blockCap))
}

// roundToPow2 rounds n up to the next power of 2, with a floor of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

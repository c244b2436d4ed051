// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "unsafe"

// Producer is the interface for enqueueing elements into an unbounded
// lock-free queue.
//
// Enqueue never blocks and never reports the queue as full — the queue
// grows a new block instead. The only error it can return is a fatal
// allocator-exhaustion panic surfacing through the standard panic/recover
// mechanism, not through this return value; see [Queue.Enqueue].
type Producer[T any] interface {
	// Enqueue adds an element to the queue. The element is passed by
	// pointer to avoid copying large structs into the call; the queue
	// still takes its own copy, so the caller may reuse *elem afterward.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements from an unbounded
// lock-free queue.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element.
	// Returns (zero-value, ErrEmpty) if the queue is observed empty.
	Dequeue() (T, error)
}

// ProducerIndirect enqueues uintptr values (pool indices or handles) into
// an unbounded lock-free queue.
type ProducerIndirect interface {
	Enqueue(elem uintptr) error
}

// ConsumerIndirect dequeues uintptr values.
// Returns (0, ErrEmpty) if the queue is observed empty.
type ConsumerIndirect interface {
	Dequeue() (uintptr, error)
}

// ProducerPtr enqueues unsafe.Pointer values for zero-copy transfer between
// goroutines. Ownership of the pointee transfers to the consumer; the
// producer must not access it after Enqueue returns.
type ProducerPtr interface {
	Enqueue(elem unsafe.Pointer) error
}

// ConsumerPtr dequeues unsafe.Pointer values.
// Returns (nil, ErrEmpty) if the queue is observed empty.
type ConsumerPtr interface {
	Dequeue() (unsafe.Pointer, error)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq provides an unbounded, lock-free, multi-producer
// multi-consumer FIFO queue.
//
// The queue never reports full: instead of a fixed ring buffer it is a
// linked chain of fixed-capacity blocks, growing a new block whenever a
// producer runs off the end of the current one. Growth is itself
// lock-free — exactly one of the racing producers that reach a block's
// last slot installs the successor, and the rest link onto it.
//
// # Quick Start
//
//	q := lfq.NewQueue[Event]()
//
//	ev := Event{Kind: "tick"}
//	if err := q.Enqueue(&ev); err != nil {
//	    panic(err) // unreachable: Enqueue never returns an error
//	}
//
//	v, err := q.Dequeue()
//	if lfq.IsEmpty(err) {
//	    // nothing to do yet
//	}
//
// # Sharing a Queue
//
// A *Queue[T] is a handle, not the queue itself. Share it across
// goroutines with Clone, and Close every handle — including the
// original — when a goroutine is done with it:
//
//	q := lfq.NewQueue[Job]()
//	for range numWorkers {
//	    go func(h *lfq.Queue[Job]) {
//	        defer h.Close()
//	        for {
//	            job, err := h.Dequeue()
//	            if lfq.IsEmpty(err) {
//	                return
//	            }
//	            job.Run()
//	        }
//	    }(q.Clone())
//	}
//	q.Close()
//
// The underlying blocks are torn down once the last handle closes. Any
// value still sitting in a block at that point — enqueued but never
// dequeued — is dropped as part of teardown so it does not outlive the
// queue.
//
// # Queue Variants
//
//	NewQueue[T]()       - generic queue for any type
//	NewIndirectQueue()  - queue of uintptr values (pool indices, handles)
//	NewPtrQueue()       - queue of unsafe.Pointer (zero-copy object passing)
//
// Indirect and Ptr trade the generic queue's separate state-word-plus-
// value layout for a single packed 128-bit entry per slot, cutting an
// enqueue's atomics from two down to one. Use them when the payload is
// naturally word-sized:
//
//	// Free list of buffer indices
//	pool := make([][]byte, 1024)
//	free := lfq.NewIndirectQueue()
//	for i := range pool {
//	    pool[i] = make([]byte, 4096)
//	    free.Enqueue(uintptr(i))
//	}
//	idx, _ := free.Dequeue()
//	buf := pool[idx]
//
//	// Zero-copy object handoff
//	q := lfq.NewPtrQueue()
//	msg := &Message{Data: largePayload}
//	q.Enqueue(unsafe.Pointer(msg)) // ownership transfers; do not touch msg again
//	ptr, _ := q.Dequeue()
//	received := (*Message)(ptr)
//
// # Builder
//
// Builder exists for callers who want to share one block-size setting
// across the three flavors:
//
//	b := lfq.New(64)
//	q := lfq.BuildQueue[Event](b)
//	idx := lfq.BuildIndirect(b)
//	ptr := lfq.BuildPtr(b)
//
// # Block Size
//
// Queues grow in fixed-capacity blocks rather than growing a flat array.
// The per-block slot count defaults to 32 and can be overridden with
// WithBlockCap, rounding up to the next power of 2 (minimum 2). A larger
// block amortizes the cost of a successor-block allocation over more
// operations at the price of holding more slots' worth of memory live
// before the oldest block can be reclaimed.
//
// # Error Handling
//
// Dequeue returns [ErrEmpty], sourced from [code.hybscloud.com/iox] for
// consistency with the rest of this package's error handling, when the
// queue is observed empty at its linearization point. Enqueue never
// returns an error: there is no capacity to exhaust, and allocator
// exhaustion is a fatal condition reported as a panic, not a return
// value.
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        process(v)
//	        continue
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	lfq.IsEmpty(err)      // true if the queue was observed empty
//	lfq.IsSemantic(err)   // true if err is a control flow signal
//	lfq.IsNonFailure(err) // true if nil or ErrEmpty
//
// # Thread Safety
//
// Enqueue and Dequeue are each safe to call concurrently from any number
// of goroutines, in any mix. There is no producer or consumer count
// constraint to honor.
//
// # No Capacity, No Length, No Fairness
//
// The queue has no capacity and Cap is not provided. Length is not
// provided either: an accurate count across a growing chain of blocks
// would require the same expensive cross-core synchronization this
// package avoids everywhere else. There is no ordering guarantee across
// distinct producers beyond FIFO order preservation per value once
// enqueued — two producers racing for the same slot may interleave in
// either order, but a value never overtakes one enqueued strictly before
// it by the same producer.
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives but
// cannot observe happens-before relationships established purely through
// atomic acquire-release orderings on separate variables. High-
// contention stress tests in this package's test suite that rely on
// such cross-variable ordering skip themselves under the race detector
// by checking [RaceEnabled]; the runnable examples are excluded via
// //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for bounded-spin CPU pause
// hints.
package lfq

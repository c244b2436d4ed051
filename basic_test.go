// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/vectorq/lfq"
)

// =============================================================================
// Queue[T] - Basic Operations
// =============================================================================

func TestQueueBasic(t *testing.T) {
	q := lfq.NewQueue[int](lfq.WithBlockCap(4))
	defer q.Close()

	if q.BlockCap() != 4 {
		t.Fatalf("BlockCap: got %d, want 4", q.BlockCap())
	}

	for i := range 10 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	for i := range 10 {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i+100)
		}
	}

	if _, err := q.Dequeue(); !errors.Is(err, lfq.ErrEmpty) {
		t.Fatalf("Dequeue on empty: got %v, want ErrEmpty", err)
	}
}

// TestQueueUnbounded verifies that Enqueue never fails for lack of
// capacity, pushing well past several block boundaries.
func TestQueueUnbounded(t *testing.T) {
	q := lfq.NewQueue[int](lfq.WithBlockCap(4))
	defer q.Close()

	const n = 1000
	for i := range n {
		if err := q.Enqueue(&i); err != nil {
			t.Fatalf("Enqueue(%d): unexpected error %v", i, err)
		}
	}
	for i := range n {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if v != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, v, i)
		}
	}
}

// TestQueueInterleaved mixes enqueues and dequeues so the queue grows
// across many blocks while items are still being taken from the front,
// exercising the handshake without relying on bulk push-then-pop ordering.
func TestQueueInterleaved(t *testing.T) {
	q := lfq.NewQueue[int](lfq.WithBlockCap(4))
	defer q.Close()

	next := 0
	want := 0
	for round := range 200 {
		v := next
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
		next++
		if round%3 != 0 {
			continue
		}
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
		if got != want {
			t.Fatalf("Dequeue: got %d, want %d", got, want)
		}
		want++
	}
	for want < next {
		got, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue drain: %v", err)
		}
		if got != want {
			t.Fatalf("Dequeue drain: got %d, want %d", got, want)
		}
		want++
	}
}

// TestQueueBlockRollover verifies BlocksAllocated advances as producers
// cross block boundaries, using a block size of 8.
func TestQueueBlockRollover(t *testing.T) {
	q := lfq.NewQueue[int](lfq.WithBlockCap(8))
	defer q.Close()

	if got := q.BlocksAllocated(); got != 1 {
		t.Fatalf("BlocksAllocated before any push: got %d, want 1", got)
	}

	const n = 3*8 + 3
	for i := range n {
		if err := q.Enqueue(&i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if got := q.BlocksAllocated(); got < 4 {
		t.Fatalf("BlocksAllocated after %d pushes: got %d, want >= 4", n, got)
	}
	for range n {
		if _, err := q.Dequeue(); err != nil {
			t.Fatalf("Dequeue: %v", err)
		}
	}
}

// TestQueueWithBlockCapRounding verifies block size rounds up to a power
// of 2 with a floor of 2.
func TestQueueWithBlockCapRounding(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 2},
		{1, 2},
		{3, 4},
		{8, 8},
		{9, 16},
	}
	for _, c := range cases {
		q := lfq.NewQueue[int](lfq.WithBlockCap(c.in))
		if got := q.BlockCap(); got != c.want {
			t.Errorf("WithBlockCap(%d): BlockCap() = %d, want %d", c.in, got, c.want)
		}
		q.Close()
	}
}

// =============================================================================
// IndirectQueue - Basic Operations
// =============================================================================

func TestIndirectQueueBasic(t *testing.T) {
	q := lfq.NewIndirectQueue(lfq.WithBlockCap(4))
	defer q.Close()

	for i := range uintptr(10) {
		if err := q.Enqueue(i + 1); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := range uintptr(10) {
		v, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if v != i+1 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, v, i+1)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, lfq.ErrEmpty) {
		t.Fatalf("Dequeue on empty: got %v, want ErrEmpty", err)
	}
}

func TestIndirectQueueZeroValue(t *testing.T) {
	q := lfq.NewIndirectQueue(lfq.WithBlockCap(4))
	defer q.Close()

	if err := q.Enqueue(0); err != nil {
		t.Fatalf("Enqueue(0): %v", err)
	}
	v, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if v != 0 {
		t.Fatalf("Dequeue: got %d, want 0", v)
	}
}

// =============================================================================
// PtrQueue - Basic Operations
// =============================================================================

func TestPtrQueueBasic(t *testing.T) {
	q := lfq.NewPtrQueue(lfq.WithBlockCap(4))
	defer q.Close()

	type msg struct{ n int }
	msgs := make([]*msg, 10)
	for i := range msgs {
		msgs[i] = &msg{n: i}
		if err := q.Enqueue(unsafe.Pointer(msgs[i])); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	for i := range msgs {
		p, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		got := (*msg)(p)
		if got.n != i {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, got.n, i)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, lfq.ErrEmpty) {
		t.Fatalf("Dequeue on empty: got %v, want ErrEmpty", err)
	}
}

func TestPtrQueueNil(t *testing.T) {
	q := lfq.NewPtrQueue(lfq.WithBlockCap(4))
	defer q.Close()

	if err := q.Enqueue(nil); err != nil {
		t.Fatalf("Enqueue(nil): %v", err)
	}
	p, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if p != nil {
		t.Fatalf("Dequeue: got %v, want nil", p)
	}
}

// =============================================================================
// Builder
// =============================================================================

func TestBuilder(t *testing.T) {
	b := lfq.New(8)

	q := lfq.BuildQueue[int](b)
	if q.BlockCap() != 8 {
		t.Fatalf("BuildQueue BlockCap: got %d, want 8", q.BlockCap())
	}
	q.Close()

	idx := lfq.BuildIndirect(b)
	if idx.BlockCap() != 8 {
		t.Fatalf("BuildIndirect BlockCap: got %d, want 8", idx.BlockCap())
	}
	idx.Close()

	ptr := lfq.BuildPtr(b)
	if ptr.BlockCap() != 8 {
		t.Fatalf("BuildPtr BlockCap: got %d, want 8", ptr.BlockCap())
	}
	ptr.Close()
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// slotState is the four-state handshake word of a single slot. The
// sequence EMPTY -> WRITING -> WRITTEN -> READ is traversed exactly once
// per slot; no state is ever revisited.
type slotState uint32

const (
	slotEmpty slotState = iota
	slotWriting
	slotWritten
	slotRead
)

// slot holds at most one T plus the atomic state word that coordinates
// the producer that reserved it with the consumer that will read it.
//
// Reservation (who owns this slot) is decided by the cursor CAS in the
// queue core; this type only arbitrates the handoff of the value once a
// slot has been reserved. That split is what lets producers fill disjoint
// slots concurrently without interfering with each other.
type slot[T any] struct {
	state atomix.Uint32
	value T
	_     padWord
}

// beginWrite claims a freshly reserved slot for writing. The caller must
// already hold exclusive reservation of this slot via a successful tail
// cursor CAS, so the transition never contends; observing anything but
// EMPTY here means the reservation protocol was violated and is fatal.
func (s *slot[T]) beginWrite() {
	if !s.state.CompareAndSwapAcqRel(uint32(slotEmpty), uint32(slotWriting)) {
		panic("lfq: protocol violation: slot was not empty at reservation")
	}
}

// publish makes the written value visible to a consumer. The release
// ordering ensures a consumer that observes WRITTEN via acquire also
// observes the value bytes written just before this call.
func (s *slot[T]) publish() {
	s.state.StoreRelease(uint32(slotWritten))
}

// read waits for the producer to publish (the slot handshake, not the
// cursor, is the source of truth for value visibility) and then takes the
// value, transitioning the slot to its terminal READ state.
//
// The caller must already hold exclusive reservation of this slot via a
// successful head cursor CAS.
func (s *slot[T]) read() T {
	sw := spin.Wait{}
	for {
		st := s.state.LoadAcquire()
		if st == uint32(slotWritten) {
			break
		}
		// EMPTY is legitimate here: the producer's tail CAS reserves the
		// slot before its beginWrite runs.
		if st != uint32(slotWriting) && st != uint32(slotEmpty) {
			panic("lfq: protocol violation: slot observed in impossible state")
		}
		sw.Once()
	}

	v := s.value
	var zero T
	s.value = zero // release the reference so the collector can reclaim it
	s.state.StoreRelease(uint32(slotRead))
	return v
}

// reclaimWritten is used only by handle teardown: a slot between a
// dropped handle's head and tail that is still WRITTEN holds a live value
// that was never consumed. It is single-threaded by construction (runs
// only after the last handle reference is gone) and needs no atomic
// ordering beyond a plain read.
func (s *slot[T]) reclaimWritten() (T, bool) {
	if slotState(s.state.LoadRelaxed()) != slotWritten {
		var zero T
		return zero, false
	}
	v := s.value
	var zero T
	s.value = zero
	return v, true
}

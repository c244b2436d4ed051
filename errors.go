// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "code.hybscloud.com/iox"

// ErrEmpty indicates that Dequeue observed the queue empty at its
// linearization point.
//
// ErrEmpty is a control flow signal, not a failure: the queue is unbounded,
// so Enqueue never returns it. A caller that wants to wait for an item
// retries Dequeue after a backoff rather than treating ErrEmpty as an
// application error.
//
// This is an alias for [iox.ErrWouldBlock]: a non-blocking operation that
// cannot proceed immediately reports it through the same sentinel across
// this package's error handling, rather than minting a queue-specific one.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    v, err := q.Dequeue()
//	    if err == nil {
//	        backoff.Reset()
//	        return v
//	    }
//	    if lfq.IsEmpty(err) {
//	        backoff.Wait()
//	        continue
//	    }
//	    panic(err) // unreachable: Dequeue never returns anything else
//	}
var ErrEmpty = iox.ErrWouldBlock

// IsEmpty reports whether err indicates Dequeue observed the queue empty.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsEmpty(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal rather than a
// failure. Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrEmpty. Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

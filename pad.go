// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// pad is cache line padding to prevent false sharing between hot atomic
// fields that would otherwise share a cache line.
type pad [64]byte

// padShort pads the remainder of a cache line after an 8-byte field.
type padShort [64 - 8]byte

// padWord pads the remainder of a cache line after a 4-byte field.
type padWord [64 - 4]byte

// padDouble pads the remainder of a cache line after a 16-byte field.
type padDouble [64 - 16]byte

// File: buffer/wipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Optimizer-resistant memory clearing. The stores below must survive dead
// store elimination: a wiped region is about to be freed or handed to a
// new owner, so from the compiler's point of view the writes are dead.
// Word-sized stores go through sync/atomic, which the compiler treats as
// observable side effects; the unaligned head and tail are plain byte
// stores kept live by the KeepAlive fence.

package buffer

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

// wipe overwrites every byte of b with pattern.
func wipe(b []byte, pattern byte) {
	if len(b) == 0 {
		return
	}
	word := uint64(pattern) * 0x0101010101010101

	i := 0
	for ; i < len(b) && uintptr(unsafe.Pointer(&b[i]))&7 != 0; i++ {
		b[i] = pattern
	}
	for ; i+8 <= len(b); i += 8 {
		atomic.StoreUint64((*uint64)(unsafe.Pointer(&b[i])), word)
	}
	for ; i < len(b); i++ {
		b[i] = pattern
	}
	runtime.KeepAlive(&b[0])
}

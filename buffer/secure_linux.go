//go:build linux

// File: buffer/secure_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux pinning of secure regions. Mlock keeps sensitive bytes out of
// swap; failure (RLIMIT_MEMLOCK) is tolerated because wiping, not
// residency, is the hard guarantee.

package buffer

import "golang.org/x/sys/unix"

func lockRegion(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return unix.Mlock(b) == nil
}

func unlockRegion(b []byte) {
	if len(b) != 0 {
		_ = unix.Munlock(b)
	}
}

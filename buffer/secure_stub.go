//go:build !linux

// File: buffer/secure_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux platforms skip page pinning.

package buffer

func lockRegion(b []byte) bool { return false }

func unlockRegion(b []byte) {}

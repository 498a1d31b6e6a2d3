// File: buffer/secure.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SecureBytes owns a fixed-capacity byte region and guarantees that every
// byte ever written to it is overwritten with the configured clear pattern
// before the region is released or handed to a new owner.

package buffer

import "runtime"

// MaxBufferSize caps a single region at 1GB.
const MaxBufferSize = 1_000_000_000

// SecureBytes is a fixed-capacity memory region with overwrite-before-reuse
// semantics. It is a single-owner type: the Buffer or Ring that created it.
//
// Explicit Free is the normal release path. As a backstop, regions that
// reach the garbage collector without Free are wiped by a finalizer, so a
// leaked buffer still cannot carry its contents past its lifetime.
type SecureBytes struct {
	data    []byte
	pattern byte
	locked  bool
}

// NewSecureBytes allocates a zero-initialized region of the given capacity
// and best-effort pins it out of swap (see secure_linux.go).
//
// Panics if capacity exceeds MaxBufferSize or is negative.
func NewSecureBytes(capacity int) *SecureBytes {
	if capacity < 0 || capacity > MaxBufferSize {
		panic("secbuf: invalid secure region capacity")
	}
	s := &SecureBytes{data: make([]byte, capacity)}
	s.locked = lockRegion(s.data)
	runtime.SetFinalizer(s, (*SecureBytes).finalize)
	return s
}

// adoptSecureBytes wraps an existing slice, taking ownership of it.
// The slice is wiped on release like any other region.
func adoptSecureBytes(data []byte) *SecureBytes {
	s := &SecureBytes{data: data}
	runtime.SetFinalizer(s, (*SecureBytes).finalize)
	return s
}

// Cap returns the region capacity.
func (s *SecureBytes) Cap() int { return len(s.data) }

// SetWipePattern sets the byte future wipes overwrite the region with.
func (s *SecureBytes) SetWipePattern(p byte) { s.pattern = p }

// WipePattern returns the configured clear pattern.
func (s *SecureBytes) WipePattern() byte { return s.pattern }

// Region exposes the full backing span to the owning buffer type. The
// view is invalidated by Free.
func (s *SecureBytes) Region() []byte { return s.data }

// Wipe overwrites the full region with the clear pattern. Cannot fail.
func (s *SecureBytes) Wipe() {
	wipe(s.data, s.pattern)
}

// Free wipes the region, unpins it and drops the allocation. The region
// must not be used afterwards.
func (s *SecureBytes) Free() {
	if s.data == nil {
		return
	}
	wipe(s.data, s.pattern)
	if s.locked {
		unlockRegion(s.data)
		s.locked = false
	}
	s.data = nil
	runtime.SetFinalizer(s, nil)
}

func (s *SecureBytes) finalize() {
	if s.data != nil {
		wipe(s.data, s.pattern)
		if s.locked {
			unlockRegion(s.data)
		}
		s.data = nil
	}
}

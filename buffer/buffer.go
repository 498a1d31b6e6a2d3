// File: buffer/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linear read/write buffer over a SecureBytes region. Two cursors: writes
// append at the write frontier, reads advance an independent read cursor.
// Invariant: 0 <= rpos <= wpos <= capacity. Every failing operation leaves
// the buffer unchanged.
//
// Buffer is a single-owner type. Concurrency comes from many independent
// instances, not shared mutation of one.

package buffer

import (
	"fmt"

	"github.com/momentics/secbuf/api"
)

// Buffer is a position-tracked linear buffer with secure release.
type Buffer struct {
	mem  *SecureBytes
	rpos int
	wpos int
}

// New allocates a buffer with a zero-initialized region of the given
// capacity. The clear pattern defaults to 0x00.
func New(capacity int) *Buffer {
	return &Buffer{mem: NewSecureBytes(capacity)}
}

// NewWithPattern allocates a buffer whose wipes use the given pattern.
func NewWithPattern(capacity int, pattern byte) *Buffer {
	b := New(capacity)
	b.mem.SetWipePattern(pattern)
	return b
}

// FromBytes takes ownership of data as the backing region. The buffer's
// length is the slice length and the read cursor starts at zero. The slice
// must not be used by the caller afterwards; it will be wiped on release.
func FromBytes(data []byte) *Buffer {
	return &Buffer{mem: adoptSecureBytes(data), wpos: len(data)}
}

// Cap returns the region capacity.
func (b *Buffer) Cap() int { return b.mem.Cap() }

// Len returns the logical length: the write frontier.
func (b *Buffer) Len() int { return b.wpos }

// Pos returns the read cursor.
func (b *Buffer) Pos() int { return b.rpos }

// IsEmpty reports whether no bytes have been written.
func (b *Buffer) IsEmpty() bool { return b.wpos == 0 }

// Remaining returns the bytes readable between the read cursor and the
// write frontier.
func (b *Buffer) Remaining() int { return b.wpos - b.rpos }

// HasRemaining reports whether at least n bytes are readable.
func (b *Buffer) HasRemaining(n int) bool { return b.Remaining() >= n }

// Free returns the writable capacity past the write frontier.
func (b *Buffer) Free() int { return b.mem.Cap() - b.wpos }

// Bytes returns a view of the valid data, [0, Len). The view aliases the
// backing region and is invalidated by Burn, Resize and release.
func (b *Buffer) Bytes() []byte { return b.mem.Region()[:b.wpos] }

// SetWipePattern sets the clear pattern used by Burn and release paths.
func (b *Buffer) SetWipePattern(p byte) { b.mem.SetWipePattern(p) }

// WipePattern returns the configured clear pattern.
func (b *Buffer) WipePattern() byte { return b.mem.WipePattern() }

// SetPos moves the read cursor to p.
func (b *Buffer) SetPos(p int) error {
	if p < 0 || p > b.wpos {
		return fmt.Errorf("set pos %d of %d: %w", p, b.wpos, api.ErrOutOfRange)
	}
	b.rpos = p
	return nil
}

// IncrPos advances the read cursor by n without reading.
func (b *Buffer) IncrPos(n int) error {
	if n < 0 || b.rpos+n > b.wpos {
		return fmt.Errorf("skip %d of %d remaining: %w", n, b.Remaining(), api.ErrOutOfRange)
	}
	b.rpos += n
	return nil
}

// DecrPos rewinds the read cursor by n.
func (b *Buffer) DecrPos(n int) error {
	if n < 0 || n > b.rpos {
		return fmt.Errorf("rewind %d at pos %d: %w", n, b.rpos, api.ErrOutOfRange)
	}
	b.rpos -= n
	return nil
}

// SetLen moves the write frontier. Bytes between the old and new frontier
// keep whatever the region holds (zeros on a fresh or burned buffer).
func (b *Buffer) SetLen(n int) error {
	if n < 0 || n > b.mem.Cap() {
		return fmt.Errorf("set len %d of cap %d: %w", n, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	b.wpos = n
	if b.rpos > n {
		b.rpos = n
	}
	return nil
}

// Reset clears the cursors without touching the contents. Not a secure
// clear; use Burn when the contents are sensitive.
func (b *Buffer) Reset() {
	b.rpos = 0
	b.wpos = 0
}

// Burn overwrites the full backing region with the clear pattern and
// resets both cursors. Cannot fail and is never optimized away.
func (b *Buffer) Burn() {
	b.mem.Wipe()
	b.rpos = 0
	b.wpos = 0
}

// Release burns the buffer and frees the backing region. The buffer must
// not be used afterwards.
func (b *Buffer) Release() {
	b.mem.Free()
	b.rpos = 0
	b.wpos = 0
}

// Resize moves the contents into a region of newCap bytes, truncating the
// logical length if it no longer fits. The old region is wiped before it
// is dropped.
func (b *Buffer) Resize(newCap int) error {
	if newCap < 0 || newCap > MaxBufferSize {
		return fmt.Errorf("resize to %d: %w", newCap, api.ErrCapacityExceeded)
	}
	next := NewSecureBytes(newCap)
	next.SetWipePattern(b.mem.WipePattern())
	n := copy(next.Region(), b.mem.Region()[:b.wpos])
	b.mem.Free()
	b.mem = next
	if b.wpos > n {
		b.wpos = n
	}
	if b.rpos > b.wpos {
		b.rpos = b.wpos
	}
	return nil
}

// ShrinkToFit reallocates the region down to the logical length.
func (b *Buffer) ShrinkToFit() error {
	return b.Resize(b.wpos)
}

// File: ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity wrap-around byte buffer for streaming workloads. The
// backing region is allocated lazily on the first write, so connections
// that never stream pay nothing. Any copy crossing the capacity boundary
// is split into two contiguous sub-copies.
//
// Ring is a single-owner type; it is not safe for concurrent use.

package ring

import (
	"fmt"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
)

// MaxRingSize caps a single ring at 100MB.
const MaxRingSize = 100_000_000

// Ring is a circular byte buffer with secure release.
type Ring struct {
	mem      *buffer.SecureBytes // nil until first write
	capacity int
	head     int // read position
	tail     int // write position
	used     int
	pattern  byte
	pow2     bool
}

// New creates a ring of the given capacity. No memory is reserved until
// the first write. Panics if capacity is non-positive or above MaxRingSize.
func New(capacity int) *Ring {
	if capacity <= 0 || capacity > MaxRingSize {
		panic("secbuf: invalid ring capacity")
	}
	return &Ring{
		capacity: capacity,
		pow2:     capacity&(capacity-1) == 0,
	}
}

// NewPow2 creates a ring of capacity 1<<log2, wrapped with a bitmask
// instead of a modulo.
func NewPow2(log2 uint) *Ring {
	return New(1 << log2)
}

// Used returns the number of readable bytes.
func (r *Ring) Used() int { return r.used }

// Free returns the remaining write space.
func (r *Ring) Free() int { return r.capacity - r.used }

// Cap returns the ring capacity.
func (r *Ring) Cap() int { return r.capacity }

// IsEmpty reports whether no bytes are buffered.
func (r *Ring) IsEmpty() bool { return r.used == 0 }

// IsFull reports whether the ring is at capacity.
func (r *Ring) IsFull() bool { return r.used == r.capacity }

// Allocated reports whether the backing region exists yet.
func (r *Ring) Allocated() bool { return r.mem != nil }

// SetWipePattern sets the byte the backing span is overwritten with on
// Burn and release.
func (r *Ring) SetWipePattern(p byte) {
	r.pattern = p
	if r.mem != nil {
		r.mem.SetWipePattern(p)
	}
}

func (r *Ring) wrap(pos, delta int) int {
	next := pos + delta
	if r.pow2 {
		return next & (r.capacity - 1)
	}
	return next % r.capacity
}

func (r *Ring) backing() []byte {
	if r.mem == nil {
		r.mem = buffer.NewSecureBytes(r.capacity)
		r.mem.SetWipePattern(r.pattern)
	}
	return r.mem.Region()
}

// Write copies data into the ring starting at the write position, wrapping
// at capacity. All-or-nothing: if the data does not fit in the remaining
// space the ring is unchanged and ErrBufferFull is reported. The ring
// never grows implicitly.
func (r *Ring) Write(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(data) > r.Free() {
		return fmt.Errorf("write %d bytes, %d free: %w",
			len(data), r.Free(), api.ErrBufferFull)
	}
	span := r.backing()
	// First sub-copy runs to the capacity boundary, second from offset 0.
	n := copy(span[r.tail:], data)
	if n < len(data) {
		copy(span, data[n:])
	}
	r.tail = r.wrap(r.tail, len(data))
	r.used += len(data)
	return nil
}

// Read copies up to len(out) bytes from the read position into out and
// returns the count actually copied. Zero is a valid result.
func (r *Ring) Read(out []byte) int {
	n := r.copyOut(out)
	r.head = r.wrap(r.head, n)
	r.used -= n
	return n
}

// Peek is Read without consuming: the read position is unchanged.
func (r *Ring) Peek(out []byte) int {
	return r.copyOut(out)
}

func (r *Ring) copyOut(out []byte) int {
	if r.used == 0 || r.mem == nil || len(out) == 0 {
		return 0
	}
	span := r.mem.Region()
	total := min(len(out), r.used)
	first := min(total, r.capacity-r.head)
	copy(out, span[r.head:r.head+first])
	if first < total {
		copy(out[first:], span[:total-first])
	}
	return total
}

// ReadSlices returns up to two views over the readable bytes, split at the
// capacity boundary; the second is nil when the data is contiguous. Call
// Advance after consuming. The views alias the backing region.
func (r *Ring) ReadSlices() ([]byte, []byte) {
	if r.used == 0 || r.mem == nil {
		return nil, nil
	}
	span := r.mem.Region()
	first := min(r.used, r.capacity-r.head)
	p1 := span[r.head : r.head+first]
	if first < r.used {
		return p1, span[:r.used-first]
	}
	return p1, nil
}

// Advance consumes n bytes previously observed via ReadSlices or Peek.
func (r *Ring) Advance(n int) error {
	if n < 0 || n > r.used {
		return fmt.Errorf("advance %d of %d buffered: %w", n, r.used, api.ErrUnderflow)
	}
	r.head = r.wrap(r.head, n)
	r.used -= n
	return nil
}

// Clear resets the cursors without touching the contents. Not a secure
// clear; use Burn when buffered bytes are sensitive.
func (r *Ring) Clear() {
	r.head = 0
	r.tail = 0
	r.used = 0
}

// Burn overwrites the entire backing span, including stale wrapped
// regions, and resets the cursors. The allocation is kept for reuse.
func (r *Ring) Burn() {
	if r.mem != nil {
		r.mem.Wipe()
	}
	r.Clear()
}

// Release overwrites the entire backing span and frees the allocation.
// The ring returns to its unallocated state and may be written again.
func (r *Ring) Release() {
	if r.mem != nil {
		r.mem.Free()
		r.mem = nil
	}
	r.Clear()
}

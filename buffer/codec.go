// File: buffer/codec.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Wire codec. The only bit-exact contract of the library: u32/u64 are
// 4/8-byte big-endian, strings are framed as a 4-byte big-endian unsigned
// length followed by that many raw bytes. Matches common binary-protocol
// string framing and must round-trip exactly.

package buffer

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/secbuf/api"
)

// MaxStringLen caps a single framed string.
const MaxStringLen = 400_000

// PutByte appends one byte at the write frontier.
func (b *Buffer) PutByte(v byte) error {
	if b.wpos+1 > b.mem.Cap() {
		return fmt.Errorf("put byte at %d of cap %d: %w", b.wpos, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	b.mem.Region()[b.wpos] = v
	b.wpos++
	return nil
}

// GetByte reads one byte at the read cursor.
func (b *Buffer) GetByte() (byte, error) {
	if b.rpos >= b.wpos {
		return 0, fmt.Errorf("get byte: %w", api.ErrUnderflow)
	}
	v := b.mem.Region()[b.rpos]
	b.rpos++
	return v, nil
}

// GetBool reads one byte; zero is false, anything else true.
func (b *Buffer) GetBool() (bool, error) {
	v, err := b.GetByte()
	return v != 0, err
}

// PutU32 appends v in big-endian byte order.
func (b *Buffer) PutU32(v uint32) error {
	if b.wpos+4 > b.mem.Cap() {
		return fmt.Errorf("put u32 at %d of cap %d: %w", b.wpos, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	binary.BigEndian.PutUint32(b.mem.Region()[b.wpos:], v)
	b.wpos += 4
	return nil
}

// GetU32 reads a big-endian uint32 at the read cursor.
func (b *Buffer) GetU32() (uint32, error) {
	if b.rpos+4 > b.wpos {
		return 0, fmt.Errorf("get u32: %w", api.ErrUnderflow)
	}
	v := binary.BigEndian.Uint32(b.mem.Region()[b.rpos:])
	b.rpos += 4
	return v, nil
}

// PutU64 appends v in big-endian byte order.
func (b *Buffer) PutU64(v uint64) error {
	if b.wpos+8 > b.mem.Cap() {
		return fmt.Errorf("put u64 at %d of cap %d: %w", b.wpos, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	binary.BigEndian.PutUint64(b.mem.Region()[b.wpos:], v)
	b.wpos += 8
	return nil
}

// GetU64 reads a big-endian uint64 at the read cursor.
func (b *Buffer) GetU64() (uint64, error) {
	if b.rpos+8 > b.wpos {
		return 0, fmt.Errorf("get u64: %w", api.ErrUnderflow)
	}
	v := binary.BigEndian.Uint64(b.mem.Region()[b.rpos:])
	b.rpos += 8
	return v, nil
}

// PutBytes appends data with a single bounds check.
func (b *Buffer) PutBytes(data []byte) error {
	if b.wpos+len(data) > b.mem.Cap() {
		return fmt.Errorf("put %d bytes at %d of cap %d: %w",
			len(data), b.wpos, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	copy(b.mem.Region()[b.wpos:], data)
	b.wpos += len(data)
	return nil
}

// GetBytes reads n bytes as an owned copy.
func (b *Buffer) GetBytes(n int) ([]byte, error) {
	ref, err := b.GetBytesRef(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, ref)
	return out, nil
}

// GetBytesRef reads n bytes as a view into the backing region, avoiding
// the copy. The view is invalidated by Burn, Resize and release.
func (b *Buffer) GetBytesRef(n int) ([]byte, error) {
	if n < 0 || b.rpos+n > b.wpos {
		return nil, fmt.Errorf("get %d bytes, %d remaining: %w", n, b.Remaining(), api.ErrUnderflow)
	}
	ref := b.mem.Region()[b.rpos : b.rpos+n]
	b.rpos += n
	return ref, nil
}

// PutString frames s with a 4-byte big-endian length prefix.
func (b *Buffer) PutString(s []byte) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("put string of %d bytes: %w", len(s), api.ErrCapacityExceeded)
	}
	if b.wpos+4+len(s) > b.mem.Cap() {
		return fmt.Errorf("put string of %d bytes at %d of cap %d: %w",
			len(s), b.wpos, b.mem.Cap(), api.ErrCapacityExceeded)
	}
	// Both writes are covered by the check above, so the operation is
	// atomic: no prefix without its payload.
	binary.BigEndian.PutUint32(b.mem.Region()[b.wpos:], uint32(len(s)))
	copy(b.mem.Region()[b.wpos+4:], s)
	b.wpos += 4 + len(s)
	return nil
}

// GetString reads one length-prefixed string as an owned copy. A declared
// length that exceeds the remaining bytes or MaxStringLen reports
// ErrMalformedLength with the read cursor unchanged.
func (b *Buffer) GetString() ([]byte, error) {
	n, err := b.peekStringLen()
	if err != nil {
		return nil, err
	}
	b.rpos += 4
	out := make([]byte, n)
	copy(out, b.mem.Region()[b.rpos:b.rpos+n])
	b.rpos += n
	return out, nil
}

// SkipString advances past one length-prefixed string without copying it.
func (b *Buffer) SkipString() error {
	n, err := b.peekStringLen()
	if err != nil {
		return err
	}
	b.rpos += 4 + n
	return nil
}

func (b *Buffer) peekStringLen() (int, error) {
	if b.rpos+4 > b.wpos {
		return 0, fmt.Errorf("string length prefix: %w", api.ErrUnderflow)
	}
	n := int(binary.BigEndian.Uint32(b.mem.Region()[b.rpos:]))
	if n > MaxStringLen || b.rpos+4+n > b.wpos {
		return 0, fmt.Errorf("declared string length %d, %d remaining: %w",
			n, b.wpos-b.rpos-4, api.ErrMalformedLength)
	}
	return n, nil
}

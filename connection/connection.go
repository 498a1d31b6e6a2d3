// File: connection/connection.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Connection-scoped buffer lifecycle. A BufferSet owns named buffer slots
// (read, write, a list of stream rings) plus a bounded outbound packet
// queue, and guarantees that everything it owns is burned on the way out —
// whether the connection ends normally, errors out, or is torn down by an
// idle sweep.
//
// BufferSet is a single-owner type: one logical connection, one owner at
// a time.

package connection

import (
	"fmt"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
	"github.com/momentics/secbuf/ring"
)

// BufferSource supplies and reclaims buffers for a pool-backed set.
// *pool.Pool and pool.FastSource both satisfy it.
type BufferSource interface {
	Acquire(size int) *buffer.Buffer
	Release(*buffer.Buffer)
}

// BufferSet owns the buffers of one logical connection.
type BufferSet struct {
	cfg api.ConnectionConfig
	src BufferSource // nil: direct allocation

	read    *buffer.Buffer
	write   *buffer.Buffer
	streams []*ring.Ring

	packets     *queue.Queue // FIFO of *buffer.Buffer
	packetBytes int

	lastActivity time.Time
	closed       bool
}

// New creates a buffer set whose slots are allocated directly.
func New(cfg api.ConnectionConfig) *BufferSet {
	return &BufferSet{
		cfg:          cfg,
		packets:      queue.New(),
		lastActivity: time.Now(),
	}
}

// NewPooled creates a buffer set that acquires its slot buffers from src
// and returns them there on cleanup.
func NewPooled(src BufferSource, cfg api.ConnectionConfig) *BufferSet {
	s := New(cfg)
	s.src = src
	return s
}

func (s *BufferSet) touch() {
	s.lastActivity = time.Now()
}

func (s *BufferSet) acquire(capacity int) *buffer.Buffer {
	if s.src != nil {
		return s.src.Acquire(capacity)
	}
	return buffer.NewWithPattern(capacity, s.cfg.WipePattern)
}

func (s *BufferSet) dispose(buf *buffer.Buffer) {
	if s.src != nil {
		s.src.Release(buf)
		return
	}
	buf.Release()
}

// InitReadBuf creates (or replaces) the read slot. A previous buffer in
// the slot is burned before it is let go.
func (s *BufferSet) InitReadBuf(capacity int) *buffer.Buffer {
	s.touch()
	if s.read != nil {
		s.dispose(s.read)
	}
	s.read = s.acquire(capacity)
	return s.read
}

// InitWriteBuf creates (or replaces) the write slot.
func (s *BufferSet) InitWriteBuf(capacity int) *buffer.Buffer {
	s.touch()
	if s.write != nil {
		s.dispose(s.write)
	}
	s.write = s.acquire(capacity)
	return s.write
}

// AddStreamBuf appends a stream ring of the given capacity. Ring memory is
// allocated lazily on the ring's first write.
func (s *BufferSet) AddStreamBuf(capacity int) *ring.Ring {
	s.touch()
	r := ring.New(capacity)
	r.SetWipePattern(s.cfg.WipePattern)
	s.streams = append(s.streams, r)
	return r
}

// ReadBuf returns the read slot, nil when uninitialized.
func (s *BufferSet) ReadBuf() *buffer.Buffer {
	s.touch()
	return s.read
}

// WriteBuf returns the write slot, nil when uninitialized.
func (s *BufferSet) WriteBuf() *buffer.Buffer {
	s.touch()
	return s.write
}

// StreamBufs returns the stream rings in creation order.
func (s *BufferSet) StreamBufs() []*ring.Ring {
	s.touch()
	return s.streams
}

// EnqueuePacket appends buf to the outbound queue. When either the count
// bound or the byte bound would be exceeded the queue is unchanged and
// ErrQueueFull is reported; the caller applies backpressure. The set takes
// ownership of an accepted packet.
func (s *BufferSet) EnqueuePacket(buf *buffer.Buffer) error {
	if s.packets.Length() >= s.cfg.MaxPacketQueueSize {
		return fmt.Errorf("%d packets queued: %w", s.packets.Length(), api.ErrQueueFull)
	}
	if s.packetBytes+buf.Len() > s.cfg.MaxPacketQueueBytes {
		return fmt.Errorf("%d bytes queued, packet of %d: %w",
			s.packetBytes, buf.Len(), api.ErrQueueFull)
	}
	s.touch()
	s.packetBytes += buf.Len()
	s.packets.Add(buf)
	return nil
}

// DequeuePacket removes the oldest packet, transferring ownership to the
// caller. ok is false when the queue is empty.
func (s *BufferSet) DequeuePacket() (*buffer.Buffer, bool) {
	if s.packets.Length() == 0 {
		return nil, false
	}
	s.touch()
	buf := s.packets.Remove().(*buffer.Buffer)
	s.packetBytes -= buf.Len()
	return buf, true
}

// PacketQueueLen returns the queued packet count.
func (s *BufferSet) PacketQueueLen() int { return s.packets.Length() }

// PacketQueueBytes returns the total queued payload bytes.
func (s *BufferSet) PacketQueueBytes() int { return s.packetBytes }

// IsQueueNearFull reports whether either queue bound is at 80% or more.
func (s *BufferSet) IsQueueNearFull() bool {
	return s.packets.Length()*100 >= s.cfg.MaxPacketQueueSize*80 ||
		s.packetBytes*100 >= s.cfg.MaxPacketQueueBytes*80
}

// LastActivity returns the time of the most recent buffer access.
func (s *BufferSet) LastActivity() time.Time { return s.lastActivity }

// IdleFor returns how long the set has been untouched as of now.
func (s *BufferSet) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.lastActivity)
}

// IsIdle reports whether the set has been untouched for at least the
// configured IdleTimeout. A zero timeout disables idleness.
func (s *BufferSet) IsIdle(now time.Time) bool {
	return s.cfg.IdleTimeout > 0 && s.IdleFor(now) >= s.cfg.IdleTimeout
}

// MaintainIdle is the caller-driven idle sweep hook: when the set is idle
// and aggressive shrinking is enabled, wasteful buffers are reallocated
// tightly. Reports whether a shrink pass ran. The library never schedules
// this itself.
func (s *BufferSet) MaintainIdle(now time.Time) bool {
	if !s.cfg.EnableAggressiveShrinking || !s.IsIdle(now) {
		return false
	}
	s.shrinkWasteful()
	return true
}

// Reset clears cursors and drops queued packets without wiping slot
// contents. Not a secure clear; use Burn for sensitive teardown.
func (s *BufferSet) Reset() {
	if s.read != nil {
		s.read.Reset()
	}
	if s.write != nil {
		s.write.Reset()
	}
	for _, r := range s.streams {
		r.Clear()
	}
	for s.packets.Length() > 0 {
		buf := s.packets.Remove().(*buffer.Buffer)
		s.dispose(buf)
	}
	s.packetBytes = 0
}

// Burn overwrites every owned buffer in place — slots, stream rings and
// queued packets — without freeing allocations. Queued packets are still
// dropped from the queue: their payloads no longer exist.
func (s *BufferSet) Burn() {
	if s.read != nil {
		s.read.Burn()
	}
	if s.write != nil {
		s.write.Burn()
	}
	for _, r := range s.streams {
		r.Burn()
	}
	for s.packets.Length() > 0 {
		buf := s.packets.Remove().(*buffer.Buffer)
		s.dispose(buf)
	}
	s.packetBytes = 0
}

// AggressiveCleanup burns and releases everything the set owns. Pooled
// buffers go back to their originating pool; direct allocations are freed.
// The set is left empty but usable.
func (s *BufferSet) AggressiveCleanup() {
	if s.read != nil {
		s.dispose(s.read)
		s.read = nil
	}
	if s.write != nil {
		s.dispose(s.write)
		s.write = nil
	}
	for _, r := range s.streams {
		r.Release()
	}
	s.streams = nil
	for s.packets.Length() > 0 {
		buf := s.packets.Remove().(*buffer.Buffer)
		s.dispose(buf)
	}
	s.packetBytes = 0
}

// Close is the exit-path hook: it runs AggressiveCleanup exactly once.
// Defer it at connection setup so teardown happens on every path out,
// including panics unwinding through the owner.
func (s *BufferSet) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.AggressiveCleanup()
}

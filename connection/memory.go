// File: connection/memory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Memory accounting and the waste policy. A connection that allocated a
// 64K read buffer and holds 100 bytes in it is wasting 65436 bytes; the
// thresholds deciding when that matters come from ConnectionConfig, never
// from constants baked in here.

package connection

import (
	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
)

// MemoryUsage computes allocation accounting across every buffer the set
// owns. Stream rings are counted only once their lazy backing exists.
func (s *BufferSet) MemoryUsage() api.MemoryStats {
	var m api.MemoryStats

	if s.read != nil {
		m.ReadBufBytes = s.read.Cap()
		m.TotalUsed += s.read.Len()
	}
	if s.write != nil {
		m.WriteBufBytes = s.write.Cap()
		m.TotalUsed += s.write.Len()
	}
	for _, r := range s.streams {
		if r.Allocated() {
			m.StreamBufBytes += r.Cap()
			m.TotalUsed += r.Used()
		}
	}
	for i := 0; i < s.packets.Length(); i++ {
		buf := s.packets.Get(i).(*buffer.Buffer)
		m.PacketQueueBytes += buf.Cap()
		m.TotalUsed += buf.Len()
	}

	m.TotalBytes = m.ReadBufBytes + m.WriteBufBytes + m.StreamBufBytes + m.PacketQueueBytes
	m.TotalWasted = m.TotalBytes - m.TotalUsed
	return m
}

// IsProblematic reports whether the set's memory efficiency has fallen
// below MinEfficiency or its absolute waste exceeds MaxWastedBytes. Zero
// thresholds disable the corresponding check.
func (s *BufferSet) IsProblematic() bool {
	m := s.MemoryUsage()
	if s.cfg.MinEfficiency > 0 && m.Efficiency() < s.cfg.MinEfficiency {
		return true
	}
	if s.cfg.MaxWastedBytes > 0 && m.TotalWasted > s.cfg.MaxWastedBytes {
		return true
	}
	return false
}

// ForceShrink reallocates every slot buffer with an excessive wasted
// fraction into a tightly sized replacement, copying live data and wiping
// the old region before it is dropped. Returns the number of bytes
// reclaimed.
func (s *BufferSet) ForceShrink() int {
	s.touch()
	return s.shrinkWasteful()
}

func (s *BufferSet) shrinkWasteful() int {
	reclaimed := 0
	reclaimed += s.shrinkSlot(&s.read)
	reclaimed += s.shrinkSlot(&s.write)
	return reclaimed
}

// shrinkSlot tightens one slot in place when its waste crosses the
// configured policy. Shrunk buffers leave the pool's capacity classes, so
// a later release frees them instead of recycling a short buffer.
func (s *BufferSet) shrinkSlot(slot **buffer.Buffer) int {
	buf := *slot
	if buf == nil || !wasteful(buf, s.cfg) {
		return 0
	}
	before := buf.Cap()
	if err := buf.ShrinkToFit(); err != nil {
		return 0
	}
	return before - buf.Cap()
}

func wasteful(buf *buffer.Buffer, cfg api.ConnectionConfig) bool {
	wasted := buf.Cap() - buf.Len()
	if wasted <= 0 {
		return false
	}
	if cfg.MaxWastedBytes > 0 && wasted > cfg.MaxWastedBytes {
		return true
	}
	if cfg.MinEfficiency > 0 && float64(buf.Len()) < cfg.MinEfficiency*float64(buf.Cap()) {
		return true
	}
	return false
}

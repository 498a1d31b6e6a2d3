// File: api/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Diagnostic snapshots. The library performs no logging or persistence;
// an external monitoring collaborator renders these as it sees fit.

package api

// PoolStats is a point-in-time snapshot of a mutex pool.
type PoolStats struct {
	AcquireCount uint64
	HitCount     uint64
	MissCount    uint64
	ReleaseCount uint64
	Available    int
	BufferSize   int
	MaxPoolSize  int
}

// HitRate reports HitCount/AcquireCount, or 0 before the first acquire.
func (s PoolStats) HitRate() float64 {
	if s.AcquireCount == 0 {
		return 0
	}
	return float64(s.HitCount) / float64(s.AcquireCount)
}

// FastPoolStats is a point-in-time snapshot of a FastPool. Counters use
// relaxed atomics; values are eventually consistent under load.
//
// Cache hits and pool hits are tracked separately so an operator can tell
// an undersized private cache apart from undersized shared capacity.
type FastPoolStats struct {
	AcquireCount  uint64
	CacheHitCount uint64
	PoolHitCount  uint64
	MissCount     uint64
	ReleaseCount  uint64
	Available     int
}

// CacheHitRate reports CacheHitCount/AcquireCount.
func (s FastPoolStats) CacheHitRate() float64 {
	if s.AcquireCount == 0 {
		return 0
	}
	return float64(s.CacheHitCount) / float64(s.AcquireCount)
}

// PoolHitRate reports PoolHitCount/AcquireCount.
func (s FastPoolStats) PoolHitRate() float64 {
	if s.AcquireCount == 0 {
		return 0
	}
	return float64(s.PoolHitCount) / float64(s.AcquireCount)
}

// MemoryStats aggregates allocation accounting across the buffers owned by
// one connection buffer set.
type MemoryStats struct {
	ReadBufBytes     int
	WriteBufBytes    int
	StreamBufBytes   int
	PacketQueueBytes int

	// TotalBytes is the sum of allocated capacities.
	TotalBytes int
	// TotalUsed is the sum of logical lengths.
	TotalUsed int
	// TotalWasted is TotalBytes - TotalUsed.
	TotalWasted int
}

// Efficiency reports TotalUsed/TotalBytes. A set that owns no allocated
// memory is fully efficient by definition.
func (s MemoryStats) Efficiency() float64 {
	if s.TotalBytes == 0 {
		return 1
	}
	return float64(s.TotalUsed) / float64(s.TotalBytes)
}

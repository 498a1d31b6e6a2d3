// File: api/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Caller-supplied configuration. The library never invents limits on its
// own: every bound and threshold below is explicit.

package api

import "time"

// PoolConfig describes one pool instance.
type PoolConfig struct {
	// BufferSize is the default capacity of buffers the pool allocates.
	// For FastPool it is the single capacity class the pool serves.
	BufferSize int `yaml:"buffer_size"`

	// MaxPoolSize bounds the number of idle buffers retained per capacity
	// class. Excess returns are wiped and freed.
	MaxPoolSize int `yaml:"max_pool_size"`

	// MinPoolSize is the number of buffers pre-allocated at construction.
	MinPoolSize int `yaml:"min_pool_size"`

	// CacheSize bounds each FastPool per-worker private cache.
	// Zero selects DefaultCacheSize.
	CacheSize int `yaml:"cache_size"`

	// WipePattern is the byte every released region is overwritten with.
	WipePattern byte `yaml:"wipe_pattern"`
}

// DefaultCacheSize is used when PoolConfig.CacheSize is zero.
const DefaultCacheSize = 16

// ConnectionConfig describes limits and policy for one connection buffer
// set. Zero thresholds disable the corresponding policy check.
type ConnectionConfig struct {
	// MaxPacketQueueSize bounds the number of queued outbound packets.
	MaxPacketQueueSize int `yaml:"max_packet_queue_size"`

	// MaxPacketQueueBytes bounds the total payload bytes in the queue.
	MaxPacketQueueBytes int `yaml:"max_packet_queue_bytes"`

	// IdleTimeout is the inactivity span after which the caller may treat
	// the connection's buffers as eligible for shrink or cleanup. The
	// library never runs its own timer; callers drive idleness checks.
	IdleTimeout time.Duration `yaml:"-"`

	// EnableAggressiveShrinking allows MaintainIdle to reallocate wasteful
	// buffers once the connection is idle.
	EnableAggressiveShrinking bool `yaml:"enable_aggressive_shrinking"`

	// MinEfficiency is the used/allocated fraction below which the
	// connection reports itself problematic.
	MinEfficiency float64 `yaml:"min_efficiency"`

	// MaxWastedBytes is the absolute waste bound above which the
	// connection reports itself problematic.
	MaxWastedBytes int `yaml:"max_wasted_bytes"`

	// WipePattern is the byte owned regions are overwritten with.
	WipePattern byte `yaml:"wipe_pattern"`
}

// File: pool/fastpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Two-level buffer pool. Each worker owns a private cache it accesses with
// no synchronization at all; behind it sits a shared lock-free arena
// (internal/concurrency.MPMCQueue) handling cross-worker traffic. The
// acquire cascade is private cache, then shared arena, then fresh
// allocation.
//
// Lifetime invariant: a buffer is, at any instant, checked out, in exactly
// one private cache, or in the shared arena. Every release path burns the
// buffer before it becomes reachable again, so the next owner can never
// observe a previous owner's bytes.
//
// A FastPool serves one capacity class (cfg.BufferSize). Callers needing
// several sizes shard FastPools per class.

package pool

import (
	"sync/atomic"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
	"github.com/momentics/secbuf/internal/concurrency"
)

// FastPool is a lock-free pool shared by many workers.
type FastPool struct {
	cfg    api.PoolConfig
	shared *concurrency.MPMCQueue[*buffer.Buffer]

	acquires  atomic.Uint64
	cacheHits atomic.Uint64
	poolHits  atomic.Uint64
	misses    atomic.Uint64
	releases  atomic.Uint64
}

// NewFast creates a pool whose shared arena holds up to MaxPoolSize idle
// buffers, pre-warmed with MinPoolSize.
func NewFast(cfg api.PoolConfig) *FastPool {
	size := cfg.MaxPoolSize
	if size < 2 {
		size = 2
	}
	p := &FastPool{
		cfg:    cfg,
		shared: concurrency.NewMPMCQueue[*buffer.Buffer](size),
	}
	p.Warm(cfg.MinPoolSize)
	return p
}

func (p *FastPool) alloc() *buffer.Buffer {
	return buffer.NewWithPattern(p.cfg.BufferSize, p.cfg.WipePattern)
}

// Acquire returns a clean buffer from the shared arena, or a fresh
// allocation when the arena is empty. Workers holding a Local handle
// should acquire through it instead.
func (p *FastPool) Acquire() *buffer.Buffer {
	p.acquires.Add(1)
	if buf, ok := p.shared.Pop(); ok {
		p.poolHits.Add(1)
		return buf
	}
	p.misses.Add(1)
	return p.alloc()
}

// Release burns buf and pushes it to the shared arena; when the arena is
// at capacity — or the buffer no longer matches the pool's class — the
// burned buffer is freed instead.
func (p *FastPool) Release(buf *buffer.Buffer) {
	p.releases.Add(1)
	buf.Burn()
	if buf.Cap() != p.cfg.BufferSize || !p.shared.Push(buf) {
		buf.Release()
	}
}

// Local creates a private cache handle for one worker. The handle is
// accessed without synchronization and must be confined to that worker;
// create one per goroutine at spawn time. Cache capacity comes from
// cfg.CacheSize (DefaultCacheSize when zero).
func (p *FastPool) Local() *Local {
	n := p.cfg.CacheSize
	if n <= 0 {
		n = api.DefaultCacheSize
	}
	return &Local{pool: p, cache: make([]*buffer.Buffer, 0, n)}
}

// Available returns the approximate idle count in the shared arena.
// Buffers parked in Local caches are not included.
func (p *FastPool) Available() int {
	return p.shared.Len()
}

// Stats returns an eventually-consistent snapshot of the pool counters.
func (p *FastPool) Stats() api.FastPoolStats {
	return api.FastPoolStats{
		AcquireCount:  p.acquires.Load(),
		CacheHitCount: p.cacheHits.Load(),
		PoolHitCount:  p.poolHits.Load(),
		MissCount:     p.misses.Load(),
		ReleaseCount:  p.releases.Load(),
		Available:     p.shared.Len(),
	}
}

// Warm pushes fresh buffers into the shared arena until it holds about n.
// Concurrent Warm calls may transiently overshoot by a small constant;
// excess buffers are rejected by the arena bound and freed.
func (p *FastPool) Warm(n int) {
	for p.shared.Len() < n {
		buf := p.alloc()
		if !p.shared.Push(buf) {
			buf.Release()
			return
		}
	}
}

// Drain removes and frees every buffer in the shared arena. Local caches
// are unaffected; flush them from their owning workers.
func (p *FastPool) Drain() {
	for {
		buf, ok := p.shared.Pop()
		if !ok {
			return
		}
		buf.Release()
	}
}

// Local is one worker's private buffer cache. None of its methods
// synchronize; the handle must stay confined to the worker it was created
// for.
type Local struct {
	pool  *FastPool
	cache []*buffer.Buffer
}

// Acquire pops from the private cache when possible, then falls back to
// the shared arena, then to fresh allocation.
func (l *Local) Acquire() *buffer.Buffer {
	p := l.pool
	if n := len(l.cache); n > 0 {
		p.acquires.Add(1)
		p.cacheHits.Add(1)
		buf := l.cache[n-1]
		l.cache[n-1] = nil
		l.cache = l.cache[:n-1]
		return buf
	}
	return p.Acquire()
}

// Release burns buf, then parks it in the private cache if there is room,
// else hands it to the shared arena, else frees it.
func (l *Local) Release(buf *buffer.Buffer) {
	p := l.pool
	p.releases.Add(1)
	buf.Burn()
	if buf.Cap() == p.cfg.BufferSize && len(l.cache) < cap(l.cache) {
		l.cache = append(l.cache, buf)
		return
	}
	if buf.Cap() != p.cfg.BufferSize || !p.shared.Push(buf) {
		buf.Release()
	}
}

// Flush pushes every cached buffer back to the shared arena, freeing
// whatever the arena will not take. Call before the worker exits so its
// cache does not strand pool capacity.
func (l *Local) Flush() {
	for _, buf := range l.cache {
		if !l.pool.shared.Push(buf) {
			buf.Release()
		}
	}
	l.cache = l.cache[:0]
}

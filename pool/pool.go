// File: pool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Mutex-guarded buffer pool. All acquire/release traffic against one
// instance serializes through a single critical section: correctness over
// raw throughput. Use FastPool when the lock becomes the ceiling.
//
// Idle buffers are grouped by capacity class (power-of-two rounded). An
// acquired buffer is absent from the idle lists until released; every
// released buffer is burned before it becomes visible to the next owner.

package pool

import (
	"sync"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
)

// minClass is the smallest capacity class served by a pool.
const minClass = 64

// classFor rounds size up to its capacity class.
func classFor(size int) int {
	c := minClass
	for c < size {
		c <<= 1
	}
	return c
}

// Pool is a synchronized collection of reusable buffers.
type Pool struct {
	mu   sync.Mutex
	cfg  api.PoolConfig
	idle map[int][]*buffer.Buffer // capacity class -> idle buffers

	acquires uint64
	hits     uint64
	misses   uint64
	releases uint64
}

// New creates a pool and pre-warms it with cfg.MinPoolSize buffers of the
// default class.
func New(cfg api.PoolConfig) *Pool {
	p := &Pool{
		cfg:  cfg,
		idle: map[int][]*buffer.Buffer{},
	}
	cls := classFor(cfg.BufferSize)
	if cls <= buffer.MaxBufferSize {
		for i := 0; i < cfg.MinPoolSize; i++ {
			p.idle[cls] = append(p.idle[cls], p.alloc(cls))
		}
	}
	return p
}

func (p *Pool) alloc(capacity int) *buffer.Buffer {
	return buffer.NewWithPattern(capacity, p.cfg.WipePattern)
}

// Acquire returns a burned-clean buffer of at least size bytes: an idle
// buffer of the rounded capacity class when one exists, else a fresh
// allocation. A zero size requests the configured default BufferSize.
// Sizes whose class would round past buffer.MaxBufferSize get an
// exact-size allocation instead; Release recognizes the off-class
// capacity and frees it rather than pooling.
func (p *Pool) Acquire(size int) *buffer.Buffer {
	if size <= 0 {
		size = p.cfg.BufferSize
	}
	cls := classFor(size)
	if cls > buffer.MaxBufferSize {
		p.mu.Lock()
		p.acquires++
		p.misses++
		p.mu.Unlock()
		return p.alloc(size)
	}

	p.mu.Lock()
	p.acquires++
	if free := p.idle[cls]; len(free) > 0 {
		buf := free[len(free)-1]
		free[len(free)-1] = nil
		p.idle[cls] = free[:len(free)-1]
		p.hits++
		p.mu.Unlock()
		return buf
	}
	p.misses++
	p.mu.Unlock()

	return p.alloc(cls)
}

// Release burns buf and reinserts it when the class holds fewer than
// MaxPoolSize idle buffers; otherwise the burned buffer is freed. Buffers
// whose capacity is not an exact class (e.g. after ShrinkToFit) are never
// reinserted: a later Acquire of their class would come up short.
func (p *Pool) Release(buf *buffer.Buffer) {
	buf.Burn()

	cls := buf.Cap()
	if cls != classFor(cls) || cls < minClass {
		p.mu.Lock()
		p.releases++
		p.mu.Unlock()
		buf.Release()
		return
	}

	p.mu.Lock()
	p.releases++
	if len(p.idle[cls]) < p.cfg.MaxPoolSize {
		p.idle[cls] = append(p.idle[cls], buf)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	buf.Release()
}

// Available returns the total idle buffer count across classes.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, free := range p.idle {
		total += len(free)
	}
	return total
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() api.PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	avail := 0
	for _, free := range p.idle {
		avail += len(free)
	}
	return api.PoolStats{
		AcquireCount: p.acquires,
		HitCount:     p.hits,
		MissCount:    p.misses,
		ReleaseCount: p.releases,
		Available:    avail,
		BufferSize:   p.cfg.BufferSize,
		MaxPoolSize:  p.cfg.MaxPoolSize,
	}
}

// Grow pre-allocates default-class buffers until the class holds
// min(target, MaxPoolSize) idle buffers.
func (p *Pool) Grow(target int) {
	cls := classFor(p.cfg.BufferSize)
	if cls > buffer.MaxBufferSize {
		return
	}
	if target > p.cfg.MaxPoolSize {
		target = p.cfg.MaxPoolSize
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.idle[cls]) < target {
		p.idle[cls] = append(p.idle[cls], p.alloc(cls))
	}
}

// Shrink trims every class down to MinPoolSize idle buffers, freeing the
// excess.
func (p *Pool) Shrink() {
	p.mu.Lock()
	var victims []*buffer.Buffer
	for cls, free := range p.idle {
		if len(free) > p.cfg.MinPoolSize {
			victims = append(victims, free[p.cfg.MinPoolSize:]...)
			p.idle[cls] = free[:p.cfg.MinPoolSize]
		}
	}
	p.mu.Unlock()
	for _, buf := range victims {
		buf.Release()
	}
}

// Clear removes and frees every idle buffer.
func (p *Pool) Clear() {
	p.mu.Lock()
	var victims []*buffer.Buffer
	for cls, free := range p.idle {
		victims = append(victims, free...)
		delete(p.idle, cls)
	}
	p.mu.Unlock()
	for _, buf := range victims {
		buf.Release()
	}
}

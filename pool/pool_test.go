// File: pool/pool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
	"github.com/momentics/secbuf/pool"
)

func poolCfg() api.PoolConfig {
	return api.PoolConfig{
		BufferSize:  256,
		MaxPoolSize: 4,
		MinPoolSize: 0,
	}
}

func TestPoolMissThenHit(t *testing.T) {
	p := pool.New(poolCfg())

	buf := p.Acquire(0)
	require.NotNil(t, buf)
	assert.Equal(t, 256, buf.Cap())

	st := p.Stats()
	assert.Equal(t, uint64(1), st.AcquireCount)
	assert.Equal(t, uint64(0), st.HitCount)
	assert.Equal(t, uint64(1), st.MissCount)

	p.Release(buf)
	buf2 := p.Acquire(0)
	assert.Same(t, buf, buf2)

	st = p.Stats()
	assert.Equal(t, uint64(1), st.HitCount)
	assert.InDelta(t, 0.5, st.HitRate(), 1e-9)
}

func TestPoolPreWarm(t *testing.T) {
	cfg := poolCfg()
	cfg.MinPoolSize = 3
	p := pool.New(cfg)
	assert.Equal(t, 3, p.Available())

	p.Acquire(0)
	assert.Equal(t, uint64(1), p.Stats().HitCount)
}

func TestPoolCapacityClasses(t *testing.T) {
	p := pool.New(poolCfg())

	small := p.Acquire(100)
	assert.Equal(t, 128, small.Cap())
	large := p.Acquire(1000)
	assert.Equal(t, 1024, large.Cap())
	tiny := p.Acquire(1)
	assert.Equal(t, 64, tiny.Cap())

	p.Release(small)
	p.Release(large)

	// A 1000-byte request must find the 1024 buffer, not the 128 one.
	again := p.Acquire(1000)
	assert.Same(t, large, again)
}

func TestPoolReleaseBurnsBeforeReuse(t *testing.T) {
	p := pool.New(poolCfg())

	buf := p.Acquire(0)
	require.NoError(t, buf.PutString([]byte("session token")))
	p.Release(buf)

	clean := p.Acquire(0)
	require.Same(t, buf, clean)
	assert.Equal(t, 0, clean.Len())

	// Expose the full region and verify no residue survived the burn.
	require.NoError(t, clean.SetLen(clean.Cap()))
	for i, b := range clean.Bytes() {
		require.Zerof(t, b, "stale byte at offset %d", i)
	}
}

func TestPoolEvictsAboveMax(t *testing.T) {
	p := pool.New(poolCfg())

	var held []*buffer.Buffer
	for i := 0; i < 6; i++ {
		held = append(held, p.Acquire(0))
	}
	for _, buf := range held {
		p.Release(buf)
	}

	// MaxPoolSize is 4: two of the six were freed instead of retained.
	assert.Equal(t, 4, p.Available())
	assert.Equal(t, uint64(6), p.Stats().ReleaseCount)
}

func TestPoolRejectsOffClassCapacity(t *testing.T) {
	p := pool.New(poolCfg())

	buf := p.Acquire(0)
	require.NoError(t, buf.PutBytes(make([]byte, 100)))
	require.NoError(t, buf.ShrinkToFit())
	assert.Equal(t, 100, buf.Cap())

	// A 100-byte buffer must not be recycled into any class; a later
	// Acquire(128) served by it would come up short.
	p.Release(buf)
	assert.Equal(t, 0, p.Available())
}

func TestPoolAcquireBeyondLastClass(t *testing.T) {
	p := pool.New(poolCfg())

	// 600M rounds past buffer.MaxBufferSize; the pool must serve the
	// exact size instead of panicking on an oversized class.
	const size = 600_000_000
	require.Less(t, size, buffer.MaxBufferSize)
	buf := p.Acquire(size)
	require.NotNil(t, buf)
	assert.Equal(t, size, buf.Cap())
	assert.Equal(t, uint64(1), p.Stats().MissCount)

	// Off-class capacity: freed on release, never pooled.
	p.Release(buf)
	assert.Equal(t, 0, p.Available())
}

func TestPoolGrowShrinkClear(t *testing.T) {
	cfg := poolCfg()
	cfg.MinPoolSize = 1
	p := pool.New(cfg)

	p.Grow(10) // clamped to MaxPoolSize
	assert.Equal(t, 4, p.Available())

	p.Shrink()
	assert.Equal(t, 1, p.Available())

	p.Clear()
	assert.Equal(t, 0, p.Available())

	// The pool stays usable after Clear.
	buf := p.Acquire(0)
	require.NotNil(t, buf)
	assert.Equal(t, 256, buf.Cap())
}

func TestPoolAcquireSizeZeroUsesDefault(t *testing.T) {
	cfg := poolCfg()
	cfg.BufferSize = 512
	p := pool.New(cfg)
	assert.Equal(t, 512, p.Acquire(0).Cap())
	assert.Equal(t, 512, p.Acquire(-1).Cap())
}

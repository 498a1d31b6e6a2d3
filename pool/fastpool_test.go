// File: pool/fastpool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool_test

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/buffer"
	"github.com/momentics/secbuf/pool"
)

func fastCfg() api.PoolConfig {
	return api.PoolConfig{
		BufferSize:  256,
		MaxPoolSize: 64,
		MinPoolSize: 0,
		CacheSize:   4,
	}
}

func TestFastPoolSharedArenaRoundTrip(t *testing.T) {
	p := pool.NewFast(fastCfg())

	buf := p.Acquire()
	require.NotNil(t, buf)
	assert.Equal(t, 256, buf.Cap())
	assert.Equal(t, uint64(1), p.Stats().MissCount)

	p.Release(buf)
	assert.Equal(t, 1, p.Available())

	again := p.Acquire()
	assert.Same(t, buf, again)
	assert.Equal(t, uint64(1), p.Stats().PoolHitCount)
}

func TestFastPoolWarmAndDrain(t *testing.T) {
	p := pool.NewFast(fastCfg())

	p.Warm(8)
	assert.Equal(t, 8, p.Available())

	p.Drain()
	assert.Equal(t, 0, p.Available())
}

func TestFastPoolPreWarmFromConfig(t *testing.T) {
	cfg := fastCfg()
	cfg.MinPoolSize = 5
	p := pool.NewFast(cfg)
	assert.Equal(t, 5, p.Available())
}

func TestFastPoolRejectsOffClassBuffer(t *testing.T) {
	p := pool.NewFast(fastCfg())

	buf := p.Acquire()
	require.NoError(t, buf.PutBytes(make([]byte, 100)))
	require.NoError(t, buf.ShrinkToFit())

	p.Release(buf)
	assert.Equal(t, 0, p.Available())
}

func TestLocalCacheHit(t *testing.T) {
	p := pool.NewFast(fastCfg())
	l := p.Local()

	buf := l.Acquire()
	l.Release(buf)

	// The buffer stays in the private cache, never touching the arena.
	assert.Equal(t, 0, p.Available())

	again := l.Acquire()
	assert.Same(t, buf, again)
	assert.Equal(t, uint64(1), p.Stats().CacheHitCount)
}

func TestLocalOverflowSpillsToShared(t *testing.T) {
	p := pool.NewFast(fastCfg()) // CacheSize 4
	l := p.Local()

	var held []*buffer.Buffer
	for i := 0; i < 6; i++ {
		held = append(held, l.Acquire())
	}
	for _, buf := range held {
		l.Release(buf)
	}

	// Four fill the private cache, the remaining two spill to the arena.
	assert.Equal(t, 2, p.Available())
}

func TestLocalReleaseBurnsEvenWhenCached(t *testing.T) {
	p := pool.NewFast(fastCfg())
	l := p.Local()

	buf := l.Acquire()
	require.NoError(t, buf.PutString([]byte("private key material")))
	l.Release(buf)

	clean := l.Acquire()
	require.Same(t, buf, clean)
	assert.Equal(t, 0, clean.Len())
	require.NoError(t, clean.SetLen(clean.Cap()))
	for i, b := range clean.Bytes() {
		require.Zerof(t, b, "stale byte at offset %d", i)
	}
}

func TestLocalFlushReturnsCacheToArena(t *testing.T) {
	p := pool.NewFast(fastCfg())
	l := p.Local()

	var held []*buffer.Buffer
	for i := 0; i < 3; i++ {
		held = append(held, l.Acquire())
	}
	for _, buf := range held {
		l.Release(buf)
	}
	assert.Equal(t, 0, p.Available())

	l.Flush()
	assert.Equal(t, 3, p.Available())

	// The flushed cache does not serve hits.
	l.Acquire()
	assert.Equal(t, uint64(0), p.Stats().CacheHitCount)
}

func TestFastPoolStatsConsistency(t *testing.T) {
	p := pool.NewFast(fastCfg())
	l := p.Local()

	for i := 0; i < 50; i++ {
		a := l.Acquire()
		b := p.Acquire()
		l.Release(a)
		p.Release(b)
	}

	st := p.Stats()
	assert.Equal(t, st.AcquireCount, st.CacheHitCount+st.PoolHitCount+st.MissCount)
	assert.Equal(t, st.AcquireCount, st.ReleaseCount)
	assert.Positive(t, st.CacheHitRate())
}

func TestFastSourceSizedAcquire(t *testing.T) {
	p := pool.NewFast(fastCfg())
	src := p.Source()

	small := src.Acquire(100)
	assert.Equal(t, 256, small.Cap())
	big := src.Acquire(1024)
	assert.Equal(t, 1024, big.Cap())

	src.Release(small)
	src.Release(big)

	// The class buffer is pooled; the oversize one is freed.
	assert.Equal(t, 1, p.Available())
}

// Stress: concurrent workers stamp an owner tag into every held buffer and
// verify it on release. A buffer visible to two owners at once would trip
// the tag check.
func TestFastPoolConcurrentOwnership(t *testing.T) {
	cfg := fastCfg()
	cfg.MaxPoolSize = 32
	p := pool.NewFast(cfg)

	var violations atomic.Int64
	var g errgroup.Group
	workers := 8
	iters := 5000

	for w := 0; w < workers; w++ {
		tag := byte(w + 1)
		g.Go(func() error {
			l := p.Local()
			defer l.Flush()
			for i := 0; i < iters; i++ {
				buf := l.Acquire()
				if buf.Len() != 0 {
					violations.Add(1)
				}
				if err := buf.PutByte(tag); err != nil {
					return err
				}
				if err := buf.SetPos(0); err != nil {
					return err
				}
				got, err := buf.GetByte()
				if err != nil {
					return err
				}
				if got != tag {
					violations.Add(1)
				}
				l.Release(buf)
				if i%64 == 0 {
					runtime.Gosched()
				}
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Zero(t, violations.Load(), "buffer observed by two owners")

	st := p.Stats()
	assert.Equal(t, uint64(workers*iters), st.AcquireCount)
	assert.Equal(t, st.AcquireCount, st.CacheHitCount+st.PoolHitCount+st.MissCount)
}

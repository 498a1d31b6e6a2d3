package ring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/secbuf/api"
	"github.com/momentics/secbuf/ring"
)

func TestLazyAllocation(t *testing.T) {
	r := ring.New(4096)
	assert.False(t, r.Allocated())
	assert.Equal(t, 4096, r.Cap())
	assert.Equal(t, 0, r.Used())

	out := make([]byte, 8)
	assert.Equal(t, 0, r.Read(out), "reading an unallocated ring yields nothing")
	assert.False(t, r.Allocated())

	require.NoError(t, r.Write([]byte{1}))
	assert.True(t, r.Allocated())
}

func TestSequentialChunks(t *testing.T) {
	r := ring.New(4096)
	require.NoError(t, r.Write([]byte("chunk 1")))
	require.NoError(t, r.Write([]byte("chunk 2")))
	assert.Equal(t, 14, r.Used())

	out := make([]byte, 14)
	n := r.Read(out)
	assert.Equal(t, 14, n)
	assert.Equal(t, "chunk 1chunk 2", string(out))
	assert.True(t, r.IsEmpty())
}

func TestWrapAroundBoundary(t *testing.T) {
	r := ring.New(8)
	require.NoError(t, r.Write([]byte("12345")))
	assert.Equal(t, 3, r.Free())
	tmp := make([]byte, 3)
	assert.Equal(t, 3, r.Read(tmp)) // head at 3, two bytes buffered
	assert.Equal(t, 6, r.Free())

	require.NoError(t, r.Write([]byte("6789"))) // tail wraps past capacity
	assert.Equal(t, 6, r.Used())

	out := make([]byte, 6)
	assert.Equal(t, 6, r.Read(out))
	assert.Equal(t, "456789", string(out))
}

func TestChunksAcrossPrimedBoundary(t *testing.T) {
	// Prime the cursors near the boundary, then run the two-chunk
	// sequence so both copies straddle the wrap point.
	r := ring.New(16)
	require.NoError(t, r.Write([]byte("0123456789ab")))
	tmp := make([]byte, 12)
	require.Equal(t, 12, r.Read(tmp)) // head = tail = 12

	require.NoError(t, r.Write([]byte("chunk 1")))
	require.NoError(t, r.Write([]byte("chunk 2")))
	out := make([]byte, 14)
	require.Equal(t, 14, r.Read(out))
	assert.Equal(t, "chunk 1chunk 2", string(out))
}

func TestWriteFullIsAtomic(t *testing.T) {
	r := ring.New(8)
	require.NoError(t, r.Write([]byte("123456")))

	err := r.Write([]byte("abc")) // 6+3 > 8
	assert.ErrorIs(t, err, api.ErrBufferFull)
	assert.Equal(t, 6, r.Used(), "failed write must not consume space")

	out := make([]byte, 8)
	assert.Equal(t, 6, r.Read(out))
	assert.Equal(t, "123456", string(out[:6]))
}

func TestShortRead(t *testing.T) {
	r := ring.New(32)
	require.NoError(t, r.Write([]byte("abc")))
	out := make([]byte, 10)
	assert.Equal(t, 3, r.Read(out))
	assert.Equal(t, "abc", string(out[:3]))
	assert.Equal(t, 0, r.Read(out))
}

func TestPeekDoesNotConsume(t *testing.T) {
	r := ring.New(16)
	require.NoError(t, r.Write([]byte("peekable")))

	out := make([]byte, 8)
	assert.Equal(t, 8, r.Peek(out))
	assert.Equal(t, "peekable", string(out))
	assert.Equal(t, 8, r.Used())

	assert.Equal(t, 8, r.Read(out))
	assert.Equal(t, "peekable", string(out))
}

func TestReadSlicesAndAdvance(t *testing.T) {
	r := ring.New(8)
	require.NoError(t, r.Write([]byte("12345")))
	tmp := make([]byte, 4)
	require.Equal(t, 4, r.Read(tmp))
	require.NoError(t, r.Write([]byte("6789ab"))) // wraps

	p1, p2 := r.ReadSlices()
	assert.Equal(t, "5678", string(p1))
	assert.Equal(t, "9ab", string(p2))

	require.NoError(t, r.Advance(5))
	assert.Equal(t, 2, r.Used())
	assert.ErrorIs(t, r.Advance(3), api.ErrUnderflow)

	out := make([]byte, 2)
	require.Equal(t, 2, r.Read(out))
	assert.Equal(t, "ab", string(out))
}

func TestPow2MaskWrap(t *testing.T) {
	r := ring.NewPow2(4) // 16 bytes
	assert.Equal(t, 16, r.Cap())
	for i := 0; i < 10; i++ {
		require.NoError(t, r.Write([]byte("abcdefghij")))
		out := make([]byte, 10)
		require.Equal(t, 10, r.Read(out))
		require.Equal(t, "abcdefghij", string(out))
	}
}

func TestBurnAndRelease(t *testing.T) {
	r := ring.New(64)
	r.SetWipePattern(0xCC)
	require.NoError(t, r.Write([]byte("secret stream")))

	r.Burn()
	assert.True(t, r.IsEmpty())
	assert.True(t, r.Allocated(), "burn keeps the allocation")

	require.NoError(t, r.Write([]byte("again")))
	r.Release()
	assert.False(t, r.Allocated())
	assert.True(t, r.IsEmpty())

	// The ring is reusable after release; backing comes back on write.
	require.NoError(t, r.Write([]byte("fresh")))
	out := make([]byte, 5)
	assert.Equal(t, 5, r.Read(out))
	assert.Equal(t, "fresh", string(out))
}

func TestFullCapacityCycle(t *testing.T) {
	r := ring.New(8)
	require.NoError(t, r.Write([]byte("12345678")))
	assert.True(t, r.IsFull())
	assert.ErrorIs(t, r.Write([]byte{0}), api.ErrBufferFull)

	out := make([]byte, 8)
	assert.Equal(t, 8, r.Read(out))
	assert.Equal(t, "12345678", string(out))
	assert.True(t, r.IsEmpty())
}

// File: pool/source.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/secbuf/buffer"

// FastSource adapts a FastPool to sized-acquire callers such as
// connection.BufferSet. Requests within the pool's capacity class are
// served from the pool; larger requests get a dedicated allocation that
// Release recognizes by its capacity and frees rather than pooling.
type FastSource struct {
	pool *FastPool
}

// Source returns a sized-acquire adapter over the pool.
func (p *FastPool) Source() *FastSource {
	return &FastSource{pool: p}
}

// Acquire returns a clean buffer of at least size bytes.
func (s *FastSource) Acquire(size int) *buffer.Buffer {
	if size <= s.pool.cfg.BufferSize {
		return s.pool.Acquire()
	}
	return buffer.NewWithPattern(size, s.pool.cfg.WipePattern)
}

// Release burns buf and returns it to the pool when it matches the pool's
// class; oversize buffers are burned and freed.
func (s *FastSource) Release(buf *buffer.Buffer) {
	s.pool.Release(buf)
}

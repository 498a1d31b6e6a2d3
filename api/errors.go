// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error values for buffer, ring, pool and connection operations.
// All of them report local, recoverable conditions: the failing
// operation leaves its receiver unchanged.

package api

import "errors"

var (
	// ErrCapacityExceeded indicates a write would exceed the buffer capacity.
	ErrCapacityExceeded = errors.New("buffer capacity exceeded")

	// ErrUnderflow indicates a read requested more bytes than are available
	// between the read cursor and the write frontier.
	ErrUnderflow = errors.New("buffer underflow")

	// ErrMalformedLength indicates a decoded length prefix is inconsistent
	// with the remaining bytes. It signals protocol-level corruption.
	ErrMalformedLength = errors.New("malformed length prefix")

	// ErrOutOfRange indicates an explicit position outside [0, length].
	ErrOutOfRange = errors.New("position out of range")

	// ErrBufferFull indicates a ring write exceeds the remaining capacity.
	// The caller should drain the ring and retry.
	ErrBufferFull = errors.New("ring buffer full")

	// ErrQueueFull indicates a packet enqueue would exceed a configured
	// bound. The caller applies backpressure.
	ErrQueueFull = errors.New("packet queue full")
)

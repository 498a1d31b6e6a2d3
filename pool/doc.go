// Package pool
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffer pooling and lifecycle reuse for secbuf.
//
// Two implementations share one contract: an acquired buffer is owned
// exclusively by the caller until released, and every released buffer is
// burned (overwritten with its clear pattern) before it can be observed
// by the next owner.
//
//   - Pool: one mutex per instance, capacity-class idle lists. Simple,
//     correct, a throughput ceiling under heavy contention.
//   - FastPool: per-worker private caches over a lock-free MPMC arena.
//     No global serialization on the hot path.
package pool

// File: internal/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded MPMC queue in the style of Dmitry Vyukov: a fixed slot arena
// where each slot carries a sequence counter acting as a generation tag.
// A slot's sequence only ever moves forward, so a popped slot cannot be
// observed by a second consumer before a producer reclaims it. This is the
// hand-off structure for pooled buffers: no value is ever lost or yielded
// twice.

package concurrency

import "sync/atomic"

const cacheLinePad = 64

type slot[T any] struct {
	seq atomic.Uint64
	val T
}

// MPMCQueue is a bounded multi-producer/multi-consumer queue. Capacity is
// rounded up to a power of two. Push and Pop never block.
type MPMCQueue[T any] struct {
	mask  uint64
	slots []slot[T]
	_     [cacheLinePad]byte
	enq   atomic.Uint64
	_     [cacheLinePad]byte
	deq   atomic.Uint64
}

// NewMPMCQueue creates a queue holding at least capacity items.
func NewMPMCQueue[T any](capacity int) *MPMCQueue[T] {
	size := 2
	for size < capacity {
		size <<= 1
	}
	q := &MPMCQueue[T]{
		mask:  uint64(size - 1),
		slots: make([]slot[T], size),
	}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// Push appends v; reports false when the queue is full.
func (q *MPMCQueue[T]) Push(v T) bool {
	for {
		pos := q.enq.Load()
		s := &q.slots[pos&q.mask]
		switch diff := int64(s.seq.Load()) - int64(pos); {
		case diff == 0:
			if q.enq.CompareAndSwap(pos, pos+1) {
				s.val = v
				s.seq.Store(pos + 1)
				return true
			}
		case diff < 0:
			return false
		default:
			// Another producer won the slot; reload and retry.
		}
	}
}

// Pop removes the oldest item; ok is false when the queue is empty. The
// slot's value is cleared so the queue does not retain a reference to a
// handed-out item.
func (q *MPMCQueue[T]) Pop() (item T, ok bool) {
	for {
		pos := q.deq.Load()
		s := &q.slots[pos&q.mask]
		switch diff := int64(s.seq.Load()) - int64(pos+1); {
		case diff == 0:
			if q.deq.CompareAndSwap(pos, pos+1) {
				item = s.val
				var zero T
				s.val = zero
				s.seq.Store(pos + q.mask + 1)
				return item, true
			}
		case diff < 0:
			return item, false
		default:
			// Another consumer won the slot; reload and retry.
		}
	}
}

// Len returns the approximate number of buffered items. The two counters
// are read independently, so the value may be briefly stale; acceptable
// for sizing heuristics and diagnostics.
func (q *MPMCQueue[T]) Len() int {
	enq := q.enq.Load()
	deq := q.deq.Load()
	if enq < deq {
		return 0
	}
	return int(enq - deq)
}

// Cap returns the slot count.
func (q *MPMCQueue[T]) Cap() int {
	return len(q.slots)
}

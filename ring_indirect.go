// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc

import (
	"context"
	"math"
	"slices"

	"code.hybscloud.com/atomix"
)

// RingIndirect is a ticket-based SPMC ring for uintptr handles.
//
// Same algorithm as Ring, with handles stored in atomix.Uintptr slots.
// Zero marks an empty slot and cannot be pushed.
//
// Handles are opaque to the garbage collector. Use indices into a
// caller-owned pool, never addresses of Go-allocated memory.
//
// Memory: n slots for capacity n (8 bytes per slot)
type RingIndirect struct {
	_       pad
	pptr    uint64 // Producer cursor (producer only)
	_       pad
	gptr    atomix.Int64 // Consumer cursor (FAA)
	_       pad
	ticket  atomix.Int64 // Published but unclaimed items
	_       pad
	buffer  []atomix.Uintptr
	mask    uint64
	backoff Backoff // Producer only
	_       pad
}

// NewRingIndirect creates a new ring for uintptr handles with exactly
// capacity slots. Panics if capacity is not a power of 2.
func NewRingIndirect(capacity int) *RingIndirect {
	mustCapacity(capacity)

	return &RingIndirect{
		buffer:  make([]atomix.Uintptr, capacity),
		mask:    uint64(capacity) - 1,
		backoff: defaultBackoff(),
	}
}

// Push publishes a non-zero handle (single producer only).
// Waits with the ring's Backoff while the target slot is occupied.
// Panics if elem is zero.
func (q *RingIndirect) Push(elem uintptr) {
	if elem == 0 {
		panic("spmc: zero handle")
	}

	slot := &q.buffer[q.pptr&q.mask]
	if !slot.CompareAndSwapAcqRel(0, elem) {
		for !slot.CompareAndSwapAcqRel(0, elem) {
			q.backoff.Wait()
		}
		q.backoff.Reset()
	}
	q.publish()
}

// TryPush publishes a non-zero handle if the target slot is free.
// Returns ErrWouldBlock if the ring is full.
func (q *RingIndirect) TryPush(elem uintptr) error {
	if elem == 0 {
		panic("spmc: zero handle")
	}

	if !q.buffer[q.pptr&q.mask].CompareAndSwapAcqRel(0, elem) {
		return ErrWouldBlock
	}
	q.publish()
	return nil
}

// PushContext publishes a non-zero handle like Push, returning ctx.Err()
// if ctx is done before the target slot frees up.
func (q *RingIndirect) PushContext(ctx context.Context, elem uintptr) error {
	if elem == 0 {
		panic("spmc: zero handle")
	}

	slot := &q.buffer[q.pptr&q.mask]
	if !slot.CompareAndSwapAcqRel(0, elem) {
		for !slot.CompareAndSwapAcqRel(0, elem) {
			if err := ctx.Err(); err != nil {
				q.backoff.Reset()
				return err
			}
			q.backoff.Wait()
		}
		q.backoff.Reset()
	}
	q.publish()
	return nil
}

func (q *RingIndirect) publish() {
	q.pptr++
	q.ticket.Add(1)
}

// Pop claims the next published handle (multiple consumers safe).
// Returns (0, ErrWouldBlock) if nothing is available.
func (q *RingIndirect) Pop() (uintptr, error) {
	if q.ticket.Add(-1) < 0 {
		q.ticket.Add(1)
		return 0, ErrWouldBlock
	}
	return q.claim(), nil
}

// PopBatch claims every handle available at the time of the call and
// appends them to dst in claim order.
func (q *RingIndirect) PopBatch(dst []uintptr) ([]uintptr, int) {
	return q.popBatch(dst, math.MaxInt64)
}

// PopBatchMax is PopBatch claiming at most limit handles.
func (q *RingIndirect) PopBatchMax(dst []uintptr, limit int) ([]uintptr, int) {
	if limit <= 0 {
		return dst, 0
	}
	return q.popBatch(dst, int64(limit))
}

func (q *RingIndirect) popBatch(dst []uintptr, limit int64) ([]uintptr, int) {
	n := q.ticket.Load()
	if n <= 0 {
		return dst, 0
	}

	n = takeTickets(&q.ticket, min(n, limit))
	if n == 0 {
		return dst, 0
	}

	dst = slices.Grow(dst, int(n))
	for range n {
		dst = append(dst, q.claim())
	}
	return dst, int(n)
}

// claim takes the next logical index and swaps its slot back to zero.
// The caller must hold a ticket.
func (q *RingIndirect) claim() uintptr {
	idx := uint64(q.gptr.Add(1) - 1)
	return q.buffer[idx&q.mask].SwapAcqRel(0)
}

// Available returns a snapshot of published but unclaimed handles.
func (q *RingIndirect) Available() int {
	return int(max(q.ticket.Load(), 0))
}

// Cap returns the fixed slot count.
func (q *RingIndirect) Cap() int {
	return len(q.buffer)
}

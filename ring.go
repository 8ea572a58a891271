// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc

import (
	"context"
	"math"
	"slices"
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Ring is a ticket-based single-producer multi-consumer bounded queue of
// *T handles.
//
// The producer publishes into slots with CAS from nil and then raises the
// ticket counter. Consumers take a ticket with FAA, undoing it when none
// was available, and then claim a unique logical index with a second FAA on
// the consumer cursor. A slot is written before its ticket is raised, so a
// claimed index always holds its item.
//
// nil marks an empty slot and cannot be pushed.
//
// Memory: n slots for capacity n (8 bytes per slot)
type Ring[T any] struct {
	_       pad
	pptr    uint64 // Producer cursor (producer only)
	_       pad
	gptr    atomix.Int64 // Consumer cursor (FAA)
	_       pad
	ticket  atomix.Int64 // Published but unclaimed items, transiently negative
	_       pad
	buffer  []atomic.Pointer[T]
	mask    uint64
	backoff Backoff // Producer only
	_       pad
}

// NewRing creates a new ring with exactly capacity slots.
// Panics if capacity is not a power of 2.
func NewRing[T any](capacity int) *Ring[T] {
	mustCapacity(capacity)

	return &Ring[T]{
		buffer:  make([]atomic.Pointer[T], capacity),
		mask:    uint64(capacity) - 1,
		backoff: defaultBackoff(),
	}
}

// Push publishes elem (single producer only).
//
// If the target slot still holds an item from the previous lap, Push waits
// with the ring's Backoff until a consumer drains it. Push never fails; it
// stalls for as long as the ring stays full. Panics if elem is nil.
func (q *Ring[T]) Push(elem *T) {
	if elem == nil {
		panic("spmc: nil handle")
	}

	slot := &q.buffer[q.pptr&q.mask]
	if !slot.CompareAndSwap(nil, elem) {
		for !slot.CompareAndSwap(nil, elem) {
			q.backoff.Wait()
		}
		q.backoff.Reset()
	}
	q.publish()
}

// TryPush publishes elem if the target slot is free (single producer only).
// Returns ErrWouldBlock if the ring is full. Panics if elem is nil.
func (q *Ring[T]) TryPush(elem *T) error {
	if elem == nil {
		panic("spmc: nil handle")
	}

	if !q.buffer[q.pptr&q.mask].CompareAndSwap(nil, elem) {
		return ErrWouldBlock
	}
	q.publish()
	return nil
}

// PushContext publishes elem like Push, but gives up when ctx is done
// (single producer only).
//
// Returns ctx.Err() if the slot did not free up in time. A failed push
// leaves the ring unchanged; the next push targets the same slot.
func (q *Ring[T]) PushContext(ctx context.Context, elem *T) error {
	if elem == nil {
		panic("spmc: nil handle")
	}

	slot := &q.buffer[q.pptr&q.mask]
	if !slot.CompareAndSwap(nil, elem) {
		for !slot.CompareAndSwap(nil, elem) {
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

// publish advances the producer cursor and signals the item to consumers.
// Must run after the slot write.
func (q *Ring[T]) publish() {
	q.pptr++
	q.ticket.Add(1)
}

// Pop claims the next published handle (multiple consumers safe).
// Returns (nil, ErrWouldBlock) if nothing is available. Never waits.
func (q *Ring[T]) Pop() (*T, error) {
	if q.ticket.Add(-1) < 0 {
		q.ticket.Add(1)
		return nil, ErrWouldBlock
	}
	return q.claim(), nil
}

// PopBatch claims every handle available at the time of the call and
// appends them to dst in claim order (multiple consumers safe).
// Returns the extended slice and the number of handles appended.
func (q *Ring[T]) PopBatch(dst []*T) ([]*T, int) {
	return q.popBatch(dst, math.MaxInt64)
}

// PopBatchMax is PopBatch claiming at most limit handles.
func (q *Ring[T]) PopBatchMax(dst []*T, limit int) ([]*T, int) {
	if limit <= 0 {
		return dst, 0
	}
	return q.popBatch(dst, int64(limit))
}

func (q *Ring[T]) popBatch(dst []*T, limit int64) ([]*T, int) {
	n := q.ticket.Load()
	if n <= 0 {
		return dst, 0
	}
	n = min(n, limit)

	n = takeTickets(&q.ticket, n)
	if n == 0 {
		return dst, 0
	}

	dst = slices.Grow(dst, int(n))
	for range n {
		dst = append(dst, q.claim())
	}
	return dst, int(n)
}

// claim takes the next logical index and empties its slot.
// The caller must hold a ticket.
func (q *Ring[T]) claim() *T {
	idx := uint64(q.gptr.Add(1) - 1)
	return q.buffer[idx&q.mask].Swap(nil)
}

// Available returns a snapshot of published but unclaimed items.
// Exact only while no goroutine is inside Push or Pop.
func (q *Ring[T]) Available() int {
	return int(max(q.ticket.Load(), 0))
}

// Cap returns the fixed slot count (not the number of queued items).
func (q *Ring[T]) Cap() int {
	return len(q.buffer)
}

// takeTickets subtracts want from ticket and returns how many of those
// tickets were really there, handing any surplus back.
//
// Other consumers may have drained the counter since want was read, so the
// pre-subtract value can be below want or even non-positive.
func takeTickets(ticket *atomix.Int64, want int64) int64 {
	prev := ticket.Add(-want) + want
	if prev <= 0 {
		ticket.Add(want)
		return 0
	}
	if surplus := want - prev; surplus > 0 {
		ticket.Add(surplus)
		return prev
	}
	return want
}

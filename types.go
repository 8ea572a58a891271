// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc

// Queue is the combined producer-consumer interface for a ring of *T handles.
//
// The ring transports handles only. It never copies, owns or frees the
// value behind a handle: the producer hands the pointer over, and the one
// consumer that claims it becomes responsible for it.
//
// The interface intentionally excludes length because an exact count in a
// lock-free queue is stale the moment it is read. [Ring.Available] exposes
// the availability counter as a snapshot.
//
// Example:
//
//	q := spmc.NewRing[Task](1024)
//
//	// Producer (one goroutine)
//	q.Push(&Task{ID: 1})
//
//	// Consumers (any number of goroutines)
//	task, err := q.Pop()
//	if err == nil {
//	    task.Run()
//	}
type Queue[T any] interface {
	Producer[T]
	BatchConsumer[T]
	Cap() int
}

// Producer is the interface for publishing handles.
//
// Only one goroutine may call producer methods. The ring cannot detect a
// second producer; violating the constraint corrupts the ring.
type Producer[T any] interface {
	// Push publishes elem, waiting while the target slot is still occupied.
	// Push never fails. It stalls for as long as consumers leave the ring
	// full.
	Push(elem *T)

	// TryPush publishes elem if the target slot is free.
	// Returns ErrWouldBlock otherwise, leaving the ring unchanged.
	TryPush(elem *T) error
}

// Consumer is the interface for claiming single handles.
//
// Consumer methods are safe for concurrent use by any number of goroutines,
// concurrently with the producer.
type Consumer[T any] interface {
	// Pop claims and returns the next published handle (non-blocking).
	// Returns (nil, ErrWouldBlock) if nothing is available.
	Pop() (*T, error)
}

// BatchConsumer claims every available handle in one call.
type BatchConsumer[T any] interface {
	Consumer[T]

	// PopBatch appends all currently available handles to dst in claim
	// order and returns the extended slice together with the number of
	// handles appended. Returns (dst, 0) if nothing is available.
	PopBatch(dst []*T) ([]*T, int)
}

// QueueIndirect is the combined interface for rings of uintptr handles.
//
// Indirect rings pass indices or handles into a caller-owned pool instead
// of pointers. The zero value marks an empty slot and cannot be pushed;
// offset pool indices by one when index 0 is in use.
//
// Example (work pool):
//
//	jobs := make([]Job, 1024)
//	q := spmc.NewRingIndirect(1024)
//
//	// Producer publishes 1-based job indices
//	q.Push(uintptr(i + 1))
//
//	// Consumer resolves the handle back into the pool
//	h, err := q.Pop()
//	if err == nil {
//	    jobs[h-1].Run()
//	}
type QueueIndirect interface {
	ProducerIndirect
	BatchConsumerIndirect
	Cap() int
}

// ProducerIndirect publishes uintptr handles (single producer only).
type ProducerIndirect interface {
	// Push publishes a non-zero handle, waiting while the slot is occupied.
	Push(elem uintptr)

	// TryPush publishes a non-zero handle if the target slot is free.
	// Returns ErrWouldBlock otherwise.
	TryPush(elem uintptr) error
}

// ConsumerIndirect claims uintptr handles (multiple consumers safe).
type ConsumerIndirect interface {
	// Pop claims and returns the next published handle.
	// Returns (0, ErrWouldBlock) immediately if nothing is available.
	Pop() (uintptr, error)
}

// BatchConsumerIndirect claims every available uintptr handle in one call.
type BatchConsumerIndirect interface {
	ConsumerIndirect
	PopBatch(dst []uintptr) ([]uintptr, int)
}

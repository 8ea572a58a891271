// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spmc provides a ticket-based single-producer multi-consumer ring.
//
// The ring carries pointer-sized handles from one producer goroutine to any
// number of consumer goroutines without locks. It is meant to sit beneath a
// dispatcher or worker pool: the producer publishes units of work and
// consumers race to claim them.
//
//   - Ring[T]:      handles are *T, nil marks an empty slot
//   - RingIndirect: handles are non-zero uintptr values (pool indices)
//
// # Quick Start
//
//	q := spmc.NewRing[Task](1024)
//
//	// Producer (exactly one goroutine)
//	q.Push(&Task{ID: 1})
//
//	// Consumers (any number of goroutines)
//	task, err := q.Pop()
//	if spmc.IsWouldBlock(err) {
//	    // Nothing available - try again later
//	}
//
// Builder API for non-default producer wait policies:
//
//	q := spmc.BuildRing[Task](spmc.New(1024).Spin())
//	q := spmc.New(1024).Yield().BuildIndirect()
//
// # Algorithm
//
// Three cursors coordinate the ring, each on its own cache line:
//
//	pptr   - producer cursor, plain, touched by the producer only
//	gptr   - consumer cursor, FAA, one unique logical index per claim
//	ticket - published but unclaimed items, FAA, may dip below zero
//
// Push CASes the slot at pptr from empty to the handle and only then raises
// ticket. Pop lowers ticket and gives it back if it was not positive;
// otherwise it takes the next gptr value and swaps that slot back to empty.
// Because every ticket is raised after its slot is written, the slot behind
// a claimed index is always populated.
//
// PopBatch reads ticket, subtracts the snapshot in one FAA, returns any
// surplus that concurrent consumers took in the meantime, and claims the
// rest in order.
//
// # Work Distribution
//
//	q := spmc.NewRing[Task](1024)
//
//	// Dispatcher
//	go func() {
//	    for task := range tasks {
//	        q.Push(task)
//	    }
//	}()
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        backoff := iox.Backoff{}
//	        var batch []*Task
//	        for {
//	            var n int
//	            batch, n = q.PopBatch(batch[:0])
//	            if n == 0 {
//	                backoff.Wait()
//	                continue
//	            }
//	            backoff.Reset()
//	            for _, t := range batch {
//	                t.Execute()
//	            }
//	        }
//	    }()
//	}
//
// # Backpressure
//
// Push never fails. When the producer laps a slot that no consumer has
// drained yet, Push waits with the ring's [Backoff] policy until the slot
// frees up, however long that takes. The default [SpinBackoff] resumes
// within microseconds; a sleeping policy such as [iox.Backoff] frees the
// producer's core but may wake up to 100ms after a slot frees. Size the
// ring for the expected burst, or use the bounded variants:
//
//	err := q.TryPush(task)                 // ErrWouldBlock if full
//	err := q.PushContext(ctx, task)        // ctx.Err() on timeout
//
// A failed TryPush or PushContext leaves the ring unchanged.
//
// # Capacity and Length
//
// Capacity is used exactly as given and must be a power of 2 (1 allowed):
//
//	spmc.NewRing[int](1024)  // 1024 slots
//	spmc.NewRing[int](1000)  // panics
//
// Validate untrusted configuration with [CheckCapacity] first.
//
// Cap reports the slot count, never the number of queued items. Available
// is a snapshot of the ticket counter; it is exact only at quiescence.
//
// # Thread Safety
//
// Exactly one goroutine may call Push, TryPush and PushContext. The ring
// cannot detect a second producer. Pop, PopBatch and PopBatchMax are safe
// from any number of goroutines, concurrently with the producer.
//
// No fairness between consumers is provided. Draining a quiescent ring
// returns items in publish order.
//
// # Ownership
//
// The ring moves handles and never dereferences, copies or frees what they
// refer to. Publishing transfers the referent to whichever consumer claims
// it.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic counters and indirect slots,
// [code.hybscloud.com/spin] for the default producer backoff, and
// [golang.org/x/sys/cpu] for cache line padding.
package spmc

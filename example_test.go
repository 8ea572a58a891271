// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spmc"
)

// ExampleNewRing demonstrates publishing handles and draining them in order.
func ExampleNewRing() {
	q := spmc.NewRing[string](4)

	for _, s := range []string{"A", "B", "C", "D"} {
		q.Push(&s)
	}

	for {
		p, err := q.Pop()
		if err != nil {
			break
		}
		fmt.Println(*p)
	}

	// Output:
	// A
	// B
	// C
	// D
}

// ExampleRing_PopBatch demonstrates claiming everything available at once.
func ExampleRing_PopBatch() {
	q := spmc.NewRing[int](8)

	for i := 1; i <= 5; i++ {
		v := i * 10
		q.Push(&v)
	}

	batch, n := q.PopBatch(nil)
	fmt.Println("claimed:", n)
	for _, p := range batch {
		fmt.Println(*p)
	}

	_, n = q.PopBatch(batch[:0])
	fmt.Println("claimed:", n)

	// Output:
	// claimed: 5
	// 10
	// 20
	// 30
	// 40
	// 50
	// claimed: 0
}

// ExampleRing_workers demonstrates a dispatcher feeding a pool of workers.
func ExampleRing_workers() {
	type Task struct {
		ID int
	}

	q := spmc.NewRing[Task](16)
	const numTasks = 8

	var mu sync.Mutex
	var done []int

	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for {
				task, err := q.Pop()
				if err != nil {
					backoff.Wait()
					continue
				}
				backoff.Reset()
				if task.ID < 0 {
					return
				}
				mu.Lock()
				done = append(done, task.ID)
				mu.Unlock()
			}
		}()
	}

	for i := range numTasks {
		q.Push(&Task{ID: i})
	}
	// One stop marker per worker
	for range 3 {
		q.Push(&Task{ID: -1})
	}
	wg.Wait()

	sort.Ints(done)
	fmt.Println(done)

	// Output:
	// [0 1 2 3 4 5 6 7]
}

// ExampleRing_PushContext demonstrates bounding a push on a full ring.
func ExampleRing_PushContext() {
	q := spmc.NewRing[int](2)
	a, b, c := 1, 2, 3
	q.Push(&a)
	q.Push(&b)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := q.PushContext(ctx, &c)
	fmt.Println(errors.Is(err, context.DeadlineExceeded))
	fmt.Println(spmc.IsWouldBlock(q.TryPush(&c)))

	// Output:
	// true
	// true
}

// ExampleNewRingIndirect demonstrates passing pool indices.
func ExampleNewRingIndirect() {
	bufferPool := make([][]byte, 4)
	for i := range bufferPool {
		bufferPool[i] = make([]byte, 1024)
	}

	q := spmc.NewRingIndirect(8)

	// Handles are 1-based: zero marks an empty slot
	for i := range bufferPool {
		q.Push(uintptr(i + 1))
	}

	handles, _ := q.PopBatch(nil)
	for h := range slices.Values(handles) {
		buf := bufferPool[h-1]
		fmt.Printf("Got buffer %d with len %d\n", h-1, len(buf))
	}

	// Output:
	// Got buffer 0 with len 1024
	// Got buffer 1 with len 1024
	// Got buffer 2 with len 1024
	// Got buffer 3 with len 1024
}

// ExampleCheckCapacity demonstrates validating configuration up front.
func ExampleCheckCapacity() {
	for _, n := range []int{1, 1000, 1024} {
		if err := spmc.CheckCapacity(n); err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println("ok:", spmc.NewRing[int](n).Cap())
	}

	// Output:
	// ok: 1
	// spmc: capacity must be a power of two: got 1000
	// ok: 1024
}

// ExampleBuildRing demonstrates the builder API.
func ExampleBuildRing() {
	ring := spmc.BuildRing[int](spmc.New(64).Spin())
	indirect := spmc.New(64).Yield().BuildIndirect()

	fmt.Println("Ring capacity:", ring.Cap())
	fmt.Println("RingIndirect capacity:", indirect.Cap())

	// Output:
	// Ring capacity: 64
	// RingIndirect capacity: 64
}

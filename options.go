// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc

import (
	"fmt"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// Options configures ring creation.
type Options struct {
	// Exact slot count, a power of 2
	capacity int

	// Producer wait policy constructor, called once per built ring
	newBackoff func() Backoff
}

// Builder creates rings with fluent configuration.
//
// Example:
//
//	// Default ring with a spinning producer
//	q := spmc.BuildRing[Task](spmc.New(1024))
//
//	// Sleeping producer for rings drained by slow consumers
//	q := spmc.BuildRing[Task](spmc.New(1024).Backoff(func() spmc.Backoff {
//	    return &iox.Backoff{}
//	}))
//
//	// Indirect ring for pool indices
//	q := spmc.New(4096).Yield().BuildIndirect()
type Builder struct {
	opts Options
}

// New creates a ring builder with the given capacity.
//
// Capacity is used as is; it is never rounded. It must be a power of 2
// (1 is allowed). Panics otherwise; use [CheckCapacity] to validate
// untrusted configuration first.
//
// Example:
//
//	b := spmc.New(1024)
//	q := spmc.BuildRing[int](b)
func New(capacity int) *Builder {
	mustCapacity(capacity)
	return &Builder{opts: Options{capacity: capacity}}
}

// Backoff sets the constructor of the wait policy used by Push while the
// ring is full. Every ring built afterwards gets its own policy from
// newPolicy, so one builder can serve many rings. A nil constructor
// restores the default ([SpinBackoff]).
func (b *Builder) Backoff(newPolicy func() Backoff) *Builder {
	b.opts.newBackoff = newPolicy
	return b
}

// Spin selects [SpinBackoff] for the producer.
func (b *Builder) Spin() *Builder {
	return b.Backoff(func() Backoff { return &SpinBackoff{} })
}

// Yield selects [YieldBackoff] for the producer.
func (b *Builder) Yield() *Builder {
	return b.Backoff(func() Backoff { return YieldBackoff{} })
}

// BuildRing creates a Ring[T] from the builder configuration.
func BuildRing[T any](b *Builder) *Ring[T] {
	q := NewRing[T](b.opts.capacity)
	if b.opts.newBackoff != nil {
		q.backoff = b.opts.newBackoff()
	}
	return q
}

// Build creates a Queue[T] from the builder configuration.
func Build[T any](b *Builder) Queue[T] {
	return BuildRing[T](b)
}

// BuildIndirect creates a RingIndirect from the builder configuration.
func (b *Builder) BuildIndirect() *RingIndirect {
	q := NewRingIndirect(b.opts.capacity)
	if b.opts.newBackoff != nil {
		q.backoff = b.opts.newBackoff()
	}
	return q
}

// CheckCapacity reports whether capacity can be used to build a ring.
// Returns an error wrapping ErrInvalidCapacity if it cannot.
func CheckCapacity(capacity int) error {
	if capacity < 1 || bits.OnesCount64(uint64(capacity)) != 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

func mustCapacity(capacity int) {
	if err := CheckCapacity(capacity); err != nil {
		panic(err)
	}
}

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spmc

import (
	"runtime"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Backoff is the wait policy applied by Push while the target slot still
// holds an item that no consumer has drained yet.
//
// Wait is called once per failed publish attempt. Reset is called after
// a stalled publish completes. Each ring owns its Backoff and has a single
// producer, so an instance is never used by two goroutines at once.
//
// [SpinBackoff] is the default. [iox.Backoff] also satisfies Backoff; it
// sleeps between attempts (500µs growing to 100ms), trading wake-up latency
// for an idle producer core.
type Backoff interface {
	Wait()
	Reset()
}

// SpinBackoff busy-waits with CPU pause instructions, yielding the
// processor as the wait grows. The producer resumes within microseconds of
// a slot freeing up.
type SpinBackoff struct {
	sw spin.Wait
}

// Wait executes one adaptive spin step.
func (b *SpinBackoff) Wait() {
	b.sw.Once()
}

// Reset restarts the spin sequence.
func (b *SpinBackoff) Reset() {
	b.sw = spin.Wait{}
}

// YieldBackoff yields the processor between attempts.
// This is the plain yield-spin: no growth, no bound.
type YieldBackoff struct{}

// Wait yields the processor.
func (YieldBackoff) Wait() {
	runtime.Gosched()
}

// Reset is a no-op.
func (YieldBackoff) Reset() {}

func defaultBackoff() Backoff {
	return &SpinBackoff{}
}

var _ Backoff = (*iox.Backoff)(nil)

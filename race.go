// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package spmc

// RaceEnabled is true when the race detector is active.
// Used by tests to skip timing-sensitive concurrent tests and to shrink
// stress workloads, since instrumented atomics run much slower.
const RaceEnabled = true

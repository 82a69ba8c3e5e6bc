// Copyright 2025 hwscan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hwscan

import (
	"log/slog"
	"sync"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

// DeviceType distinguishes a many-compute-unit accelerator from a
// CPU-like topology, the one bit of device shape PlanGeometry needs to
// pick its per-block multiplier κ.
type DeviceType int

const (
	// Accelerator reports many independent compute units — the default
	// for any pool with more than one worker.
	Accelerator DeviceType = iota
	// CPULike reports a single compute unit, e.g. GOMAXPROCS=1 or a
	// pool explicitly sized to one worker for deterministic tests.
	CPULike
)

// Device bundles a command queue (the worker pool), a topology (Type),
// and a logger every kernel stage and error reports through.
type Device struct {
	Pool   *workerpool.Pool
	Type   DeviceType
	Logger *slog.Logger

	// Trace, if set, is invoked after each kernel stage completes.
	Trace TraceFunc
}

// NewDevice builds a Device around pool, inferring DeviceType from its
// worker count. A nil pool is not valid; callers own the pool's
// lifecycle (Close) exactly as with workerpool.Pool itself.
func NewDevice(pool *workerpool.Pool) *Device {
	typ := Accelerator
	if pool.NumWorkers() <= 1 {
		typ = CPULike
	}
	return &Device{Pool: pool, Type: typ, Logger: slog.Default()}
}

// wavefrontFor returns the SIMD lane width for T — for exactly the
// types dispatchKernel0Simd/dispatchKernel2Simd recognize. Every other type,
// including arbitrary Combiner element types that don't satisfy
// hwy.Lanes at all, degrades to a wavefront of 1: the geometry still
// holds (B = W·κ ≥ κ), it is simply not SIMD-accelerated at the
// per-lane level, and kernel0Scalar/kernel2Scalar are used instead.
func wavefrontFor[T any]() int {
	var zero T
	switch any(zero).(type) {
	case int32:
		return hwy.MaxLanes[int32]()
	case int64:
		return hwy.MaxLanes[int64]()
	case uint32:
		return hwy.MaxLanes[uint32]()
	case uint64:
		return hwy.MaxLanes[uint64]()
	case float32:
		return hwy.MaxLanes[float32]()
	case float64:
		return hwy.MaxLanes[float64]()
	default:
		return 1
	}
}

// logger returns d.Logger, falling back to slog.Default for a zero-value
// Device (e.g. one built by hand in a test rather than via NewDevice).
func (d *Device) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// event is the completion signal a submitted kernel stage hands back:
// submission itself does not block, but the dispatcher must wait() on
// the event from the previous stage before submitting the next one, and
// on the Kernel 2 event before the facade returns.
type event struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	err error
}

func (e *event) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

// wait blocks until the stage this event belongs to has finished, and
// returns the first error any of its tasks reported, if any.
func (e *event) wait() error {
	e.wg.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// submit enqueues fn on the device's pool without blocking the caller,
// returning an event the caller waits on explicitly. Submission itself
// is non-blocking; the call becomes blocking only at an explicit wait,
// even though workerpool.Pool's own ParallelFor is itself synchronous.
func (d *Device) submit(fn func() error) *event {
	ev := &event{}
	ev.wg.Add(1)
	go func() {
		defer ev.wg.Done()
		if err := fn(); err != nil {
			ev.fail(err)
		}
	}()
	return ev
}

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
	"context"
	"time"
)

// waitEvent always waits for ev's stage to actually finish — kernels
// cannot be interrupted mid-task, and the caller's aux buffers are
// released back to their pool the moment runScan returns, so returning
// before the stage's goroutine is done would let it keep writing into a
// buffer another dispatch has already reused. A cancelled ctx therefore
// does not shorten the wait; it only changes what error is surfaced
// once the wait completes.
func waitEvent(ctx context.Context, ev *event) error {
	err := ev.wait()
	if ctx != nil {
		if cErr := ctx.Err(); cErr != nil {
			return cErr
		}
	}
	return err
}

// runStage submits fn to dev, waits for it to finish, records the
// stage's duration at Debug level and via dev.trace, and wraps any
// failure as a DeviceError tagged with stage. runScan calls runStage
// once per kernel, in order, and each call blocks until its stage is
// actually done — the dispatcher never submits a kernel's tasks until
// the previous kernel's wait returns.
func runStage(dev *Device, stage Stage, ctx context.Context, fn func()) error {
	start := time.Now()
	ev := dev.submit(func() error {
		fn()
		return nil
	})
	err := waitEvent(ctx, ev)
	dur := time.Since(start)
	dev.logger().Debug("kernel stage complete", "stage", stage.String(), "dur", dur)
	dev.trace(stage, start)
	if err != nil {
		return &DeviceError{Stage: stage, Err: err}
	}
	return nil
}

// runScan is the kernel dispatcher: it binds geometry and buffers to
// the three kernels and enqueues them in order, Kernel 0 across blocks,
// Kernel 1 once, Kernel 2 across blocks, with a full wait between each
// stage.
func runScan[T any](ctx context.Context, dev *Device, data []T, n int, out []T, init T, inclusive bool, c IdentityCombiner[T]) error {
	geo := PlanGeometry[T](n, dev, wavefrontFor[T]())
	blockSize := geo.BlockSize()

	aux := acquireAuxBuffers[T](geo.K)
	defer aux.release()

	blockBounds := func(k int) (start, live int) {
		start = k * blockSize
		live = blockSize
		if rem := n - start; rem < live {
			live = rem
		}
		if live < 0 {
			live = 0
		}
		return start, live
	}

	blockSlice := func(start, live int) []T {
		if live <= 0 || start >= len(data) {
			return nil
		}
		end := start + live
		if end > len(data) {
			end = len(data)
		}
		return data[start:end]
	}

	if err := runStage(dev, StageK0, ctx, func() {
		dev.Pool.ParallelForAtomicBatched(geo.K, 1, func(from, to int) {
			for k := from; k < to; k++ {
				start, live := blockBounds(k)
				aux.preSum[k] = kernel0(blockSlice(start, live), live, c)
			}
		})
	}); err != nil {
		return err
	}

	if err := runStage(dev, StageK1, ctx, func() {
		kernel1(aux.preSum, aux.postSum, c)
	}); err != nil {
		return err
	}

	return runStage(dev, StageK2, ctx, func() {
		dev.Pool.ParallelForAtomicBatched(geo.K, 1, func(from, to int) {
			for k := from; k < to; k++ {
				start, live := blockBounds(k)
				if live <= 0 {
					continue
				}
				base := aux.postSum[k]
				if !inclusive {
					base = c.Combine(init, base)
				}
				kernel2(blockSlice(start, live), out[start:start+live], live, base, inclusive, c)
			}
		})
	})
}

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

import "unsafe"

const (
	// defaultKappa is the per-block multiplier on an accelerator-shaped
	// device.
	defaultKappa = 4
	// cpuLikeKappa is used instead when the device reports a single
	// compute unit.
	cpuLikeKappa = 1
	// kernel1CapacityBytes bounds how many bytes of per-block sums
	// Kernel 1's single task may fold over in one pass, standing in for
	// a local/shared-memory scratchpad budget that geometry planning
	// retries against. 64 KiB comfortably covers the K ≤ B invariant for
	// any realistic B while still being small enough to exercise the
	// retry path for very large N with a small wavefront.
	kernel1CapacityBytes = 1 << 16
	// maxKappaDoublings bounds the retry loop so it always terminates;
	// each doubling roughly halves K, so this many doublings exhausts
	// any plausible N long before it is reached.
	maxKappaDoublings = 24
)

// Geometry is the block/count layout one scan dispatch uses, computed
// by PlanGeometry.
type Geometry struct {
	N         int // live element count
	NPrime    int // N rounded up to a multiple of 2B
	K         int // number of blocks, N'/(2B)
	B         int // per-block size, W·κ
	Wavefront int // SIMD lane width W used to derive B
}

// BlockSize returns 2B, the number of elements one block (one Kernel 0 /
// Kernel 2 task) covers.
func (g Geometry) BlockSize() int { return 2 * g.B }

// PlanGeometry chooses B, N′, and K for an N-element scan of element
// type T on dev. wavefrontWidth should come from wavefrontFor[T]().
func PlanGeometry[T any](n int, dev *Device, wavefrontWidth int) Geometry {
	if wavefrontWidth <= 0 {
		wavefrontWidth = 1
	}
	kappa := defaultKappa
	if dev != nil && dev.Type == CPULike {
		kappa = cpuLikeKappa
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize <= 0 {
		elemSize = 1
	}

	for attempt := 0; attempt < maxKappaDoublings; attempt++ {
		b := wavefrontWidth * kappa
		if b <= 0 {
			b = 1
		}
		block := 2 * b
		nPrime := n
		if nPrime <= 0 {
			nPrime = block
		} else {
			nPrime = ((n + block - 1) / block) * block
		}
		k := nPrime / block

		if (k <= b && k*elemSize <= kernel1CapacityBytes) || attempt == maxKappaDoublings-1 {
			return Geometry{N: n, NPrime: nPrime, K: k, B: b, Wavefront: wavefrontWidth}
		}
		kappa *= 2
	}
	// Unreachable: the loop above always returns on its last iteration.
	panic("hwscan: PlanGeometry fell through its retry loop")
}

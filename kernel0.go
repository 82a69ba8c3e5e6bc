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
	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/algo"
)

// kernel0 is the per-block scan kernel. It is handed one block — at
// most 2B input elements, of which only the first live are "real"
// (positions at or past N contribute nothing, same as never loading
// them) — and returns the block's ⊕-reduction, the value Kernel 1 will
// fold into postSum[k].
//
// It does not write to the output; that happens only in Kernel 2's pass.
func kernel0[T any](block []T, live int, c IdentityCombiner[T]) T {
	if sum, ok := dispatchKernel0Simd(block, live, c); ok {
		return sum
	}
	return kernel0Scalar(block, live, c)
}

// kernel0Scalar folds the block's live prefix left-to-right under an
// arbitrary associative Combiner. This is what "an in-scratchpad
// Hillis-Steele scan" degrades to once there is no real SIMD width to
// exploit — entirely sufficient here because the parallelism this engine
// cares about is across blocks (goroutine tasks), not across lanes
// within one.
func kernel0Scalar[T any](block []T, live int, c IdentityCombiner[T]) T {
	if live <= 0 {
		return c.Identity()
	}
	acc := block[0]
	for i := 1; i < live; i++ {
		acc = c.Combine(acc, block[i])
	}
	return acc
}

// kernel0Simd computes the block reduction using algo.BasePrefixSumVec's
// Hillis-Steele in-vector scan, carrying the running sum between vectors
// exactly as BasePrefixSum does over a whole slice — bounded here to the
// block's live prefix instead of a whole array, and returning only the
// final carry (the block sum) rather than writing a scanned array back
// out.
func kernel0Simd[T hwy.Integers | hwy.FloatsNative](block []T, live int) T {
	lanes := hwy.MaxLanes[T]()
	if lanes <= 0 {
		lanes = 1
	}

	var carry T
	i := 0
	for ; i+lanes <= live; i += lanes {
		v := hwy.Load(block[i : i+lanes])
		prefixed := algo.BasePrefixSumVec(v)
		prefixed = hwy.Add(prefixed, hwy.Set[T](carry))
		carry = hwy.GetLane(prefixed, lanes-1)
	}
	for ; i < live; i++ {
		carry += block[i]
	}
	return carry
}

// dispatchKernel0Simd applies kernel0Simd when T is one of the native
// numeric types it's instantiated for and c is the built-in Sum
// combiner for that type; any(c).(Sum[U]) can only succeed when T == U,
// since distinct generic instantiations of a named type are distinct
// dynamic types, so the any(block).([]U) assertion right below it is
// always safe once the Sum[U] case has matched.
//
// Only the wide integer and floating-point types are covered: 8- and
// 16-bit accumulators overflow too quickly to make prefix sums over
// them common in practice, so the scalar path (still correct, just
// un-vectorized) is a fine fallback for those rather than doubling the
// size of this switch for a case nobody hits.
func dispatchKernel0Simd[T any](block []T, live int, c IdentityCombiner[T]) (T, bool) {
	switch any(c).(type) {
	case Sum[int32]:
		return any(kernel0Simd(any(block).([]int32), live)).(T), true
	case Sum[int64]:
		return any(kernel0Simd(any(block).([]int64), live)).(T), true
	case Sum[uint32]:
		return any(kernel0Simd(any(block).([]uint32), live)).(T), true
	case Sum[uint64]:
		return any(kernel0Simd(any(block).([]uint64), live)).(T), true
	case Sum[float32]:
		return any(kernel0Simd(any(block).([]float32), live)).(T), true
	case Sum[float64]:
		return any(kernel0Simd(any(block).([]float64), live)).(T), true
	default:
		var zero T
		return zero, false
	}
}

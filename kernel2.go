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

// kernel2 is the per-block addition kernel. It re-derives the block's
// local scan (rather than persisting and re-reading Kernel 0's — either
// is a valid way to get the same values) and writes the final,
// carry-corrected values to out[0:live].
//
// base is postSum[k] for inclusive mode, or init⊕postSum[k] for
// exclusive mode — computed once by the dispatcher so this kernel never
// needs to know which mode produced it, only how to fold it in:
//
//	inclusive: out[j]  = base ⊕ localInclusive[j]
//	exclusive: out[j]  = base ⊕ localExclusive[j],  localExclusive[0] = identity
func kernel2[T any](in, out []T, live int, base T, inclusive bool, c IdentityCombiner[T]) {
	if dispatchKernel2Simd(in, out, live, base, inclusive, c) {
		return
	}
	kernel2Scalar(in, out, live, base, inclusive, c)
}

func kernel2Scalar[T any](in, out []T, live int, base T, inclusive bool, c IdentityCombiner[T]) {
	carry := c.Identity()
	for i := 0; i < live; i++ {
		if inclusive {
			carry = c.Combine(carry, in[i])
			out[i] = c.Combine(base, carry)
		} else {
			out[i] = c.Combine(base, carry)
			carry = c.Combine(carry, in[i])
		}
	}
}

// kernel2Simd is kernel2's SIMD fast path for the Sum combiner over a
// native numeric type, built on the same algo.BasePrefixSumVec
// Hillis-Steele step as kernel0Simd. For exclusive mode it derives the
// block-local *exclusive* scan from the inclusive one by sliding each
// vector's lanes up by one and inserting the carry from the previous
// vector into the newly opened lane 0 — the vector analogue of the
// scalar "emit carry, then update it" ordering in kernel2Scalar.
func kernel2Simd[T hwy.Integers | hwy.FloatsNative](in, out []T, live int, base T, inclusive bool) {
	lanes := hwy.MaxLanes[T]()
	if lanes <= 0 {
		lanes = 1
	}

	var carry T
	baseVec := hwy.Set[T](base)
	i := 0
	for ; i+lanes <= live; i += lanes {
		v := hwy.Load(in[i : i+lanes])
		inclusiveVec := hwy.Add(algo.BasePrefixSumVec(v), hwy.Set[T](carry))

		localVec := inclusiveVec
		if !inclusive {
			shifted := hwy.SlideUpLanes(inclusiveVec, 1)
			localVec = hwy.InsertLane(shifted, 0, carry)
		}

		hwy.Store(hwy.Add(localVec, baseVec), out[i:i+lanes])
		carry = hwy.GetLane(inclusiveVec, lanes-1)
	}

	for ; i < live; i++ {
		v := in[i]
		if inclusive {
			carry += v
			out[i] = base + carry
		} else {
			out[i] = base + carry
			carry += v
		}
	}
}

// dispatchKernel2Simd mirrors dispatchKernel0Simd's reasoning: it
// applies only for the Sum combiner over the same wide numeric types,
// for the same "8/16-bit accumulators rarely make sense" reason.
func dispatchKernel2Simd[T any](in, out []T, live int, base T, inclusive bool, c IdentityCombiner[T]) bool {
	switch any(c).(type) {
	case Sum[int32]:
		kernel2Simd(any(in).([]int32), any(out).([]int32), live, any(base).(int32), inclusive)
	case Sum[int64]:
		kernel2Simd(any(in).([]int64), any(out).([]int64), live, any(base).(int64), inclusive)
	case Sum[uint32]:
		kernel2Simd(any(in).([]uint32), any(out).([]uint32), live, any(base).(uint32), inclusive)
	case Sum[uint64]:
		kernel2Simd(any(in).([]uint64), any(out).([]uint64), live, any(base).(uint64), inclusive)
	case Sum[float32]:
		kernel2Simd(any(in).([]float32), any(out).([]float32), live, any(base).(float32), inclusive)
	case Sum[float64]:
		kernel2Simd(any(in).([]float64), any(out).([]float64), live, any(base).(float64), inclusive)
	default:
		return false
	}
	return true
}

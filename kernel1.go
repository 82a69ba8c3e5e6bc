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

// kernel1 is the intra-block carry scan kernel. It writes the exclusive
// scan of preSum into postSum, seeded with the combiner's Identity() —
// never init; init is injected exactly once, by kernel2.
//
// This is a single sequential fold rather than a task spread across
// goroutines: K ≤ B by PlanGeometry's own invariant, and B already
// bounds the per-element work one Kernel 0/2 task does, so there is
// nothing to gain from spreading a fold over at most B values further.
func kernel1[T any](preSum, postSum []T, c IdentityCombiner[T]) {
	carry := c.Identity()
	for i, v := range preSum {
		postSum[i] = carry
		carry = c.Combine(carry, v)
	}
}

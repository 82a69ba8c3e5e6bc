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

// Package hwscan implements a three-pass parallel prefix-sum (scan)
// engine over a worker pool and go-highway's SIMD primitives, following
// the block-scan / carry-scan / block-add structure of GPU scan
// accelerators but targeting CPU goroutines and lanes instead of
// work-groups and wavefronts.
package hwscan

import (
	"context"
	"math"
)

// InclusiveScan writes, into out[0:in.Len()], the ⊕-prefix of in such
// that out[i] = in[0] ⊕ in[1] ⊕ ... ⊕ in[i]. ctx may be nil; if non-nil
// and already cancelled (or cancelled before the current kernel stage
// finishes), InclusiveScan still waits for that stage to complete — a
// kernel cannot be interrupted mid-task — but returns ctx.Err() wrapped
// in a DeviceError instead of nil once it does, and out's contents are
// then unspecified.
func InclusiveScan[T any](ctx context.Context, dev *Device, in Input[T], out []T, c IdentityCombiner[T]) error {
	var zero T
	return scan(ctx, dev, in, out, zero, true, c)
}

// ExclusiveScan writes, into out[0:in.Len()], the ⊕-prefix of in such
// that out[0] = init and out[i] = init ⊕ in[0] ⊕ ... ⊕ in[i-1] for i>0.
// See InclusiveScan's doc comment for ctx and error semantics.
func ExclusiveScan[T any](ctx context.Context, dev *Device, in Input[T], out []T, init T, c IdentityCombiner[T]) error {
	return scan(ctx, dev, in, out, init, false, c)
}

func scan[T any](ctx context.Context, dev *Device, in Input[T], out []T, init T, inclusive bool, c IdentityCombiner[T]) (err error) {
	defer func() {
		if err != nil {
			dev.logger().Warn("scan failed", "err", err)
		}
	}()

	if dev == nil || dev.Pool == nil {
		return &InvalidArgument{Reason: "nil device or device has no worker pool"}
	}
	if c == nil {
		return &InvalidArgument{Reason: "nil combiner"}
	}
	if in.Kind() != HostSlice && in.Kind() != DeviceSlice && in.Kind() != ProducerOnly {
		return &InvalidArgument{Reason: "input is not a recognized Kind"}
	}

	n := in.Len()
	if n < 0 {
		return &InvalidArgument{Reason: "input has negative length"}
	}
	if n > math.MaxInt32 {
		return &OverflowError{N: int64(n)}
	}
	if len(out) < n {
		return &InvalidArgument{Reason: "output shorter than input"}
	}
	if n == 0 {
		return nil
	}

	data := in.materialize()
	if len(data) < n {
		return &InvalidArgument{Reason: "producer yielded fewer elements than its advertised length"}
	}

	return runScan(ctx, dev, data, n, out, init, inclusive, c)
}

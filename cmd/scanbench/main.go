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

// Command scanbench drives hwscan's InclusiveScan/ExclusiveScan over a
// generated input of a chosen element type and size, and reports each
// kernel stage's wall time via the engine's trace hook.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/ajroetker/hwscan"
	"github.com/spf13/cobra"
)

var (
	elemType  string
	n         int
	workers   int
	exclusive bool
	verbose   bool
)

func main() {
	root := &cobra.Command{
		Use:   "scanbench",
		Short: "Benchmark hwscan's prefix-sum engine over a synthetic input",
		RunE:  runBench,
	}
	root.Flags().StringVar(&elemType, "type", "int32", "element type: int32, int64, uint32, uint64, float32, float64")
	root.Flags().IntVar(&n, "n", 1_000_000, "number of elements to scan")
	root.Flags().IntVar(&workers, "workers", runtime.GOMAXPROCS(0), "worker pool size (1 selects the CPU-like geometry)")
	root.Flags().BoolVar(&exclusive, "exclusive", false, "run an exclusive scan instead of inclusive")
	root.Flags().BoolVar(&verbose, "v", false, "log each kernel stage's duration")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBench(cmd *cobra.Command, args []string) error {
	if n < 0 {
		return fmt.Errorf("n must be non-negative, got %d", n)
	}

	pool := workerpool.New(workers)
	defer pool.Close()

	dev := hwscan.NewDevice(pool)
	dev.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	if verbose {
		dev.Trace = func(stage hwscan.Stage, dur time.Duration) {
			dev.Logger.Info("stage complete", "stage", stage.String(), "dur", dur)
		}
	}

	return benchType(cmd.Context(), dev, elemType, n, exclusive)
}

func benchType(ctx context.Context, dev *hwscan.Device, elemType string, n int, exclusive bool) error {
	switch elemType {
	case "int32":
		return benchNumeric[int32](ctx, dev, n, exclusive)
	case "int64":
		return benchNumeric[int64](ctx, dev, n, exclusive)
	case "uint32":
		return benchNumeric[uint32](ctx, dev, n, exclusive)
	case "uint64":
		return benchNumeric[uint64](ctx, dev, n, exclusive)
	case "float32":
		return benchFloat[float32](ctx, dev, n, exclusive)
	case "float64":
		return benchFloat[float64](ctx, dev, n, exclusive)
	default:
		return fmt.Errorf("unsupported --type %q", elemType)
	}
}

func benchNumeric[T hwy.Integers](ctx context.Context, dev *hwscan.Device, n int, exclusive bool) error {
	in := make([]T, n)
	for i := range in {
		in[i] = T(i%97) + 1
	}
	out := make([]T, n)

	start := time.Now()
	var err error
	if exclusive {
		err = hwscan.ExclusiveScan(ctx, dev, hwscan.FromSlice(in), out, 0, hwscan.Sum[T]{})
	} else {
		err = hwscan.InclusiveScan(ctx, dev, hwscan.FromSlice(in), out, hwscan.Sum[T]{})
	}
	if err != nil {
		return err
	}
	fmt.Printf("n=%d type=%T total=%s last=%v\n", n, in[0], time.Since(start), out[len(out)-1])
	return nil
}

func benchFloat[T hwy.FloatsNative](ctx context.Context, dev *hwscan.Device, n int, exclusive bool) error {
	in := make([]T, n)
	for i := range in {
		in[i] = T(1) / T(i+1)
	}
	out := make([]T, n)

	start := time.Now()
	var err error
	if exclusive {
		err = hwscan.ExclusiveScan(ctx, dev, hwscan.FromSlice(in), out, 0, hwscan.Sum[T]{})
	} else {
		err = hwscan.InclusiveScan(ctx, dev, hwscan.FromSlice(in), out, hwscan.Sum[T]{})
	}
	if err != nil {
		return err
	}
	fmt.Printf("n=%d type=%T total=%s last=%v\n", n, in[0], time.Since(start), out[len(out)-1])
	return nil
}

package hwscan

import (
	"context"
	"math"
	"testing"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

func newTestDevice(t *testing.T, workers int) *Device {
	t.Helper()
	pool := workerpool.New(workers)
	t.Cleanup(pool.Close)
	return NewDevice(pool)
}

func TestInclusiveScanSum(t *testing.T) {
	dev := newTestDevice(t, 4)
	in := make([]int32, 137)
	for i := range in {
		in[i] = int32(i + 1)
	}
	out := make([]int32, len(in))

	if err := InclusiveScan(context.Background(), dev, FromSlice(in), out, Sum[int32]{}); err != nil {
		t.Fatalf("InclusiveScan: %v", err)
	}

	var want int32
	for i := range in {
		want += in[i]
		if out[i] != want {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestExclusiveScanSum(t *testing.T) {
	dev := newTestDevice(t, 4)
	in := make([]int32, 201)
	for i := range in {
		in[i] = int32(i + 1)
	}
	out := make([]int32, len(in))

	if err := ExclusiveScan(context.Background(), dev, FromSlice(in), out, 100, Sum[int32]{}); err != nil {
		t.Fatalf("ExclusiveScan: %v", err)
	}

	carry := int32(100)
	for i := range in {
		if out[i] != carry {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], carry)
		}
		carry += in[i]
	}
}

func TestScanSingleBlockMatchesMultiBlock(t *testing.T) {
	// n below 2B for a CPU-like device (kappa=1) exercises the K=1
	// degenerate geometry; n above it exercises K>1. Both must agree
	// with the same naive reference.
	dev := newTestDevice(t, 1)
	for _, n := range []int{1, 2, 3, 16, 500} {
		in := make([]int32, n)
		for i := range in {
			in[i] = int32((i%7)+1)
		}
		out := make([]int32, n)
		if err := InclusiveScan(nil, dev, FromSlice(in), out, Sum[int32]{}); err != nil {
			t.Fatalf("n=%d: InclusiveScan: %v", n, err)
		}
		var want int32
		for i := range in {
			want += in[i]
			if out[i] != want {
				t.Fatalf("n=%d: out[%d] = %v, want %v", n, i, out[i], want)
			}
		}
	}
}

func TestScanEmptyIsNoop(t *testing.T) {
	dev := newTestDevice(t, 2)
	out := []int32{42}
	if err := InclusiveScan(nil, dev, FromSlice([]int32{}), out, Sum[int32]{}); err != nil {
		t.Fatalf("InclusiveScan on empty input: %v", err)
	}
	if out[0] != 42 {
		t.Errorf("N=0 scan touched out: got %v, want untouched 42", out[0])
	}
}

func TestScanRejectsShortOutput(t *testing.T) {
	dev := newTestDevice(t, 2)
	in := []int32{1, 2, 3}
	out := make([]int32, 2)
	err := InclusiveScan(nil, dev, FromSlice(in), out, Sum[int32]{})
	if _, ok := err.(*InvalidArgument); !ok {
		t.Fatalf("err = %v (%T), want *InvalidArgument", err, err)
	}
}

func TestScanRejectsNilDevice(t *testing.T) {
	in := []int32{1, 2, 3}
	out := make([]int32, 3)
	err := InclusiveScan(nil, nil, FromSlice(in), out, Sum[int32]{})
	if _, ok := err.(*InvalidArgument); !ok {
		t.Fatalf("err = %v (%T), want *InvalidArgument", err, err)
	}
}

func TestScanRejectsOverflow(t *testing.T) {
	dev := newTestDevice(t, 1)
	huge := FromProducer[int32](math.MaxInt32+1, func() (int32, bool) {
		t.Fatal("producer must not be invoked before the overflow check")
		return 0, false
	})
	err := InclusiveScan(nil, dev, huge, nil, Sum[int32]{})
	if _, ok := err.(*OverflowError); !ok {
		t.Fatalf("err = %v (%T), want *OverflowError", err, err)
	}
}

func TestScanFromProducer(t *testing.T) {
	dev := newTestDevice(t, 3)
	const n = 250
	i := 0
	producer := FromProducer[int32](n, func() (int32, bool) {
		if i >= n {
			return 0, false
		}
		v := int32(i + 1)
		i++
		return v, true
	})
	out := make([]int32, n)
	if err := InclusiveScan(nil, dev, producer, out, Sum[int32]{}); err != nil {
		t.Fatalf("InclusiveScan: %v", err)
	}
	var want int32
	for j := 0; j < n; j++ {
		want += int32(j + 1)
		if out[j] != want {
			t.Fatalf("out[%d] = %v, want %v", j, out[j], want)
		}
	}
}

func TestExclusiveScanNonAdditiveCombinerWithInit(t *testing.T) {
	dev := newTestDevice(t, 2)
	in := []int32{2, 2, 2, 2}
	out := make([]int32, len(in))

	if err := ExclusiveScan(nil, dev, FromSlice(in), out, 1, Product[int32]{}); err != nil {
		t.Fatalf("ExclusiveScan: %v", err)
	}

	want := []int32{1, 2, 4, 8}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestScanNonNativeCombiner(t *testing.T) {
	dev := newTestDevice(t, 2)
	concat := Func[string]{
		Op:   func(a, b string) string { return a + b },
		Elem: "",
	}
	in := []string{"a", "b", "c", "d", "e"}
	out := make([]string, len(in))

	if err := InclusiveScan(nil, dev, FromSlice(in), out, concat); err != nil {
		t.Fatalf("InclusiveScan: %v", err)
	}
	want := []string{"a", "ab", "abc", "abcd", "abcde"}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %q, want %q", i, out[i], want[i])
		}
	}
}

func TestScanLargeFloatMatchesCompensatedReference(t *testing.T) {
	dev := newTestDevice(t, 4)
	const n = 20000
	in := make([]float64, n)
	for i := range in {
		in[i] = 1.0 / float64(i+1)
	}
	out := make([]float64, n)
	if err := InclusiveScan(nil, dev, FromSlice(in), out, Sum[float64]{}); err != nil {
		t.Fatalf("InclusiveScan: %v", err)
	}

	// Kahan-compensated reference scan.
	var sum, comp float64
	for i := range in {
		y := in[i] - comp
		t2 := sum + y
		comp = (t2 - sum) - y
		sum = t2

		got, want := out[i], sum
		diff := math.Abs(got - want)
		tol := 1e-9 * math.Abs(want)
		if diff > tol && diff > 1e-12 {
			t.Fatalf("out[%d] = %v, want %v (diff %v exceeds tolerance)", i, got, want, diff)
		}
	}
}

func TestScanCancelledContext(t *testing.T) {
	dev := newTestDevice(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make([]int32, 5000)
	for i := range in {
		in[i] = 1
	}
	out := make([]int32, len(in))

	err := InclusiveScan(ctx, dev, FromSlice(in), out, Sum[int32]{})
	if err == nil {
		t.Fatal("expected an error from a pre-cancelled context")
	}
	var devErr *DeviceError
	if de, ok := err.(*DeviceError); ok {
		devErr = de
	} else {
		t.Fatalf("err = %v (%T), want *DeviceError", err, err)
	}
	if devErr.Err != context.Canceled {
		t.Errorf("DeviceError.Err = %v, want context.Canceled", devErr.Err)
	}
}

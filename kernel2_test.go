package hwscan

import "testing"

func TestKernel2ScalarInclusive(t *testing.T) {
	var c Sum[int32]
	in := []int32{1, 2, 3, 4}
	out := make([]int32, len(in))

	kernel2Scalar(in, out, len(in), 10, true, c)

	want := []int32{11, 13, 16, 20}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestKernel2ScalarExclusive(t *testing.T) {
	var c Sum[int32]
	in := []int32{1, 2, 3, 4}
	out := make([]int32, len(in))

	kernel2Scalar(in, out, len(in), 10, false, c)

	want := []int32{10, 11, 13, 16}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestKernel2SimdMatchesScalarAcrossSizes(t *testing.T) {
	var c Sum[int32]
	for _, n := range []int{0, 1, 7, 8, 9, 64, 100} {
		for _, inclusive := range []bool{true, false} {
			in := make([]int32, n)
			for i := range in {
				in[i] = int32(i + 1)
			}
			wantOut := make([]int32, n)
			kernel2Scalar(in, wantOut, n, 5, inclusive, c)

			gotOut := make([]int32, n)
			kernel2(in, gotOut, n, 5, inclusive, c)

			for i := range wantOut {
				if gotOut[i] != wantOut[i] {
					t.Errorf("n=%d inclusive=%v: out[%d] = %v, want %v", n, inclusive, i, gotOut[i], wantOut[i])
				}
			}
		}
	}
}

func TestKernel2NonNativeTypeUsesScalarPath(t *testing.T) {
	max := Func[int]{
		Op: func(a, b int) int {
			if a > b {
				return a
			}
			return b
		},
		Elem: 0,
	}
	in := []int{3, 1, 4, 1, 5}
	out := make([]int, len(in))

	kernel2(in, out, len(in), 2, true, max)

	want := []int{3, 3, 4, 4, 5}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

package hwscan

import "testing"

func TestKernel1ExclusiveFold(t *testing.T) {
	var c Sum[int32]
	preSum := []int32{3, 5, 2, 7}
	postSum := make([]int32, len(preSum))

	kernel1(preSum, postSum, c)

	want := []int32{0, 3, 8, 10}
	for i := range want {
		if postSum[i] != want[i] {
			t.Errorf("postSum[%d] = %v, want %v", i, postSum[i], want[i])
		}
	}
}

func TestKernel1EmptyIsNoop(t *testing.T) {
	var c Sum[int32]
	kernel1(nil, nil, c) // must not panic
}

func TestKernel1SeedsWithIdentityNeverInit(t *testing.T) {
	var c Product[int32]
	preSum := []int32{2, 3, 4}
	postSum := make([]int32, len(preSum))

	kernel1(preSum, postSum, c)

	if postSum[0] != c.Identity() {
		t.Errorf("postSum[0] = %v, want combiner identity %v", postSum[0], c.Identity())
	}
	want := []int32{1, 2, 6}
	for i := range want {
		if postSum[i] != want[i] {
			t.Errorf("postSum[%d] = %v, want %v", i, postSum[i], want[i])
		}
	}
}

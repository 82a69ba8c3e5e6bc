package hwscan

import "testing"

func TestSumIdentity(t *testing.T) {
	var s Sum[int32]
	if got := s.Identity(); got != 0 {
		t.Errorf("Sum[int32].Identity() = %v, want 0", got)
	}
	if got := s.Combine(3, 4); got != 7 {
		t.Errorf("Sum.Combine(3, 4) = %v, want 7", got)
	}
}

func TestProductIdentity(t *testing.T) {
	var p Product[float64]
	if got := p.Identity(); got != 1 {
		t.Errorf("Product[float64].Identity() = %v, want 1", got)
	}
	if got := p.Combine(3, 4); got != 12 {
		t.Errorf("Product.Combine(3, 4) = %v, want 12", got)
	}
}

func TestFuncCombiner(t *testing.T) {
	max := Func[int]{
		Op: func(a, b int) int {
			if a > b {
				return a
			}
			return b
		},
		Elem: 0,
	}
	if got := max.Combine(5, 9); got != 9 {
		t.Errorf("max.Combine(5, 9) = %v, want 9", got)
	}
	if got := max.Identity(); got != 0 {
		t.Errorf("max.Identity() = %v, want 0", got)
	}
}

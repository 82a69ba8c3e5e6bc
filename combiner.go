package hwscan

import "github.com/ajroetker/go-highway/hwy"

// Combiner is the associative binary operation ⊕ a scan combines elements
// with. Implementations must be associative; this package has no way to
// verify that at runtime and does not try.
type Combiner[T any] interface {
	Combine(a, b T) T
}

// IdentityCombiner is a Combiner that can also produce its own neutral
// element e, satisfying e ⊕ x = x ⊕ e = x. Both InclusiveScan and
// ExclusiveScan require one: Kernel 1 always seeds its carry fold with
// Identity(), in both scan modes, so there is no combiner-less path
// through the dispatcher, and no runtime panic for a combiner that
// can't produce an identity.
type IdentityCombiner[T any] interface {
	Combiner[T]
	Identity() T
}

// Sum is the addition combiner over any native numeric type. It is also
// the combiner this package's SIMD fast path (kernel0Simd/kernel2Simd)
// recognizes by type switch.
type Sum[T hwy.Integers | hwy.FloatsNative] struct{}

func (Sum[T]) Combine(a, b T) T { return a + b }
func (Sum[T]) Identity() T      { var zero T; return zero }

// Product is the multiplication combiner over any native numeric type.
type Product[T hwy.Integers | hwy.FloatsNative] struct{}

func (Product[T]) Combine(a, b T) T { return a * b }
func (Product[T]) Identity() T      { return T(1) }

// Func adapts an arbitrary associative function plus its identity element
// into an IdentityCombiner. Use this for combiners that are neither Sum
// nor Product (min/max, set union, string concatenation, ...).
type Func[T any] struct {
	Op   func(a, b T) T
	Elem T
}

func (f Func[T]) Combine(a, b T) T { return f.Op(a, b) }
func (f Func[T]) Identity() T      { return f.Elem }

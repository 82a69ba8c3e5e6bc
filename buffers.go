package hwscan

import (
	"reflect"
	"sync"
)

// bufferPools caches one *sync.Pool per element type, so repeated
// dispatches over the same T (the common case: a process scanning many
// batches of the same element type) reuse backing arrays instead of
// allocating preSum/postSum afresh every call. Keyed by reflect.Type
// rather than parameterized on Device, since Device has no type
// parameter of its own and every dispatch already carries T at its call
// site (see dispatch.go's runScan[T]).
var bufferPools sync.Map // reflect.Type -> *sync.Pool of *[]T

func poolFor[T any]() *sync.Pool {
	key := reflect.TypeOf((*T)(nil)).Elem()
	if v, ok := bufferPools.Load(key); ok {
		return v.(*sync.Pool)
	}
	p := &sync.Pool{New: func() any {
		s := make([]T, 0)
		return &s
	}}
	actual, _ := bufferPools.LoadOrStore(key, p)
	return actual.(*sync.Pool)
}

// acquireAux hands back a K-element auxiliary buffer (preSum or
// postSum) with no observable pre-existing content, even when the
// backing array is reused from a pool.
func acquireAux[T any](k int) []T {
	p := poolFor[T]()
	ptr := p.Get().(*[]T)
	buf := *ptr
	if cap(buf) < k {
		buf = make([]T, k)
	} else {
		buf = buf[:k]
		var zero T
		for i := range buf {
			buf[i] = zero
		}
	}
	return buf
}

// releaseAux returns buf to its type's pool. Callers must not use buf
// after releasing it.
func releaseAux[T any](buf []T) {
	p := poolFor[T]()
	b := buf[:0]
	p.Put(&b)
}

// auxBuffers holds the two K-sized arrays one dispatch needs. A
// separately persisted "last live value per block" buffer is
// deliberately not allocated here: Kernel 2 recomputes each block's
// local scan from scratch, which already yields that value, so keeping
// a third buffer around would duplicate it without saving a combine.
type auxBuffers[T any] struct {
	preSum  []T
	postSum []T
}

func acquireAuxBuffers[T any](k int) auxBuffers[T] {
	return auxBuffers[T]{
		preSum:  acquireAux[T](k),
		postSum: acquireAux[T](k),
	}
}

func (a auxBuffers[T]) release() {
	releaseAux(a.preSum)
	releaseAux(a.postSum)
}

package hwscan

// Kind tags how an Input's elements are produced.
type Kind int

const (
	// HostSlice wraps a plain, random-access, mutable slice.
	HostSlice Kind = iota
	// DeviceSlice wraps a slice already resident on the execution device.
	// In this engine host memory and device memory are the same address
	// space, so DeviceSlice and HostSlice behave identically today; the
	// distinction is kept so a future backend that wraps real device
	// buffers only has to change what DeviceSlice holds.
	DeviceSlice
	// ProducerOnly wraps a pull-style, forward-only generator. It may
	// only be used as scan input, never as output: its generator returns
	// ok == false once exhausted.
	ProducerOnly
)

// Input is the tagged union of scan input sources. Construct one with
// FromSlice, FromDeviceSlice, or FromProducer.
type Input[T any] struct {
	kind Kind
	data []T
	next func() (T, bool)
	n    int
}

// FromSlice wraps a host-resident, random-access slice as scan input.
func FromSlice[T any](data []T) Input[T] {
	return Input[T]{kind: HostSlice, data: data, n: len(data)}
}

// FromDeviceSlice wraps a device-resident, random-access slice as scan
// input. See the Kind.DeviceSlice doc comment for why this is distinct
// from FromSlice even though both hold a plain Go slice today.
func FromDeviceSlice[T any](data []T) Input[T] {
	return Input[T]{kind: DeviceSlice, data: data, n: len(data)}
}

// FromProducer wraps a pull-style generator as scan input. n is the
// number of elements the generator will yield; next must return
// ok == false exactly once n elements have been produced.
func FromProducer[T any](n int, next func() (T, bool)) Input[T] {
	return Input[T]{kind: ProducerOnly, next: next, n: n}
}

// Kind reports how this Input is backed.
func (in Input[T]) Kind() Kind { return in.kind }

// Len reports the number of elements this Input will yield.
func (in Input[T]) Len() int { return in.n }

// materialize realizes a ProducerOnly input into a plain slice, since
// the three kernels all need random access within a block. HostSlice and
// DeviceSlice are returned as-is (already random access).
//
// A ProducerOnly *output* is rejected structurally rather than at
// runtime: every facade entry point takes out []T directly (see
// scan.go), and Input is never used as an output parameter.
func (in Input[T]) materialize() []T {
	if in.kind != ProducerOnly {
		return in.data
	}
	data := make([]T, in.n)
	for i := 0; i < in.n; i++ {
		v, ok := in.next()
		if !ok {
			return data[:i]
		}
		data[i] = v
	}
	return data
}

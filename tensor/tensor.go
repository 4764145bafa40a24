// Package tensor defines the opaque tensor handle and the hierarchical
// tensor dictionary passed between computation modules.
package tensor

import "strconv"

// Tensor is an opaque handle to backend data. The contract layer only ever
// looks at shape and dtype; values never cross this interface.
type Tensor interface {

	// Shape returns the ordered axis sizes.
	Shape() []int

	// Dtype returns the element type tag.
	Dtype() Dtype
}

// Backend allocates concrete tensors. Concrete models receive one at
// construction instead of resolving a math library through global state.
type Backend interface {

	// Zeros allocates a zero-filled tensor of the given shape and dtype.
	Zeros(shape []int, dt Dtype) (Tensor, error)

	// Name identifies the backend in checkpoints and error messages.
	Name() string
}

// Numel returns the number of elements a shape holds.
func Numel(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// ShapeString renders a shape like (6, 8, 2).
func ShapeString(shape []int) string {
	out := "("
	for i, s := range shape {
		if i != 0 {
			out += ", "
		}
		out += strconv.Itoa(s)
	}
	return out + ")"
}

// SameShape reports whether two shapes agree axis by axis.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

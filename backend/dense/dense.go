// Package dense implements the host-memory reference tensor backend.
package dense

import "errors"
import "fmt"

import "github.com/specware/modelspec/tensor"

// Tensor is a host-memory tensor. The backing store is private and copied
// on the way in and out, so instances behave as immutable values inside
// the contract layer.
type Tensor struct {
	shape []int
	dtype tensor.Dtype
	data  []byte
}

// Zeros allocates a zero-filled tensor.
func Zeros(shape []int, dt tensor.Dtype) (*Tensor, error) {
	if dt.Size() == 0 {
		return nil, errors.New("invalid dtype")
	}
	for _, s := range shape {
		if s < 0 {
			return nil, fmt.Errorf("negative axis in shape %s", tensor.ShapeString(shape))
		}
	}
	return &Tensor{
		shape: append([]int(nil), shape...),
		dtype: dt,
		data:  make([]byte, tensor.Numel(shape)*dt.Size()),
	}, nil
}

// FromFloat32 builds an f32 tensor from a value slice. The slice length
// must match the shape's element count.
func FromFloat32(shape []int, vals []float32) (*Tensor, error) {
	if tensor.Numel(shape) != len(vals) {
		return nil, fmt.Errorf("shape %s needs %d values, got %d",
			tensor.ShapeString(shape), tensor.Numel(shape), len(vals))
	}
	t, err := Zeros(shape, tensor.F32)
	if err != nil {
		return nil, err
	}
	encodeFloat32(t.data, vals)
	return t, nil
}

// MustFromFloat32 is FromFloat32 for statically known values.
func MustFromFloat32(shape []int, vals []float32) *Tensor {
	t, err := FromFloat32(shape, vals)
	if err != nil {
		panic(err.Error())
	}
	return t
}

// FromInt64 builds an i64 tensor from a value slice.
func FromInt64(shape []int, vals []int64) (*Tensor, error) {
	if tensor.Numel(shape) != len(vals) {
		return nil, fmt.Errorf("shape %s needs %d values, got %d",
			tensor.ShapeString(shape), tensor.Numel(shape), len(vals))
	}
	t, err := Zeros(shape, tensor.I64)
	if err != nil {
		return nil, err
	}
	encodeInt64(t.data, vals)
	return t, nil
}

// Shape returns a copy of the axis sizes.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Dtype returns the element type tag.
func (t *Tensor) Dtype() tensor.Dtype {
	return t.dtype
}

// Float32s decodes the backing store of an f32 tensor.
func (t *Tensor) Float32s() ([]float32, error) {
	if t.dtype != tensor.F32 {
		return nil, fmt.Errorf("tensor is %s, not f32", t.dtype)
	}
	out := make([]float32, len(t.data)/4)
	decodeFloat32(out, t.data)
	return out, nil
}

// Int64s decodes the backing store of an i64 tensor.
func (t *Tensor) Int64s() ([]int64, error) {
	if t.dtype != tensor.I64 {
		return nil, fmt.Errorf("tensor is %s, not i64", t.dtype)
	}
	out := make([]int64, len(t.data)/8)
	decodeInt64(out, t.data)
	return out, nil
}

// Clone returns an independent copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape: append([]int(nil), t.shape...),
		dtype: t.dtype,
		data:  append([]byte(nil), t.data...),
	}
}

// Equal reports byte-for-byte equality of shape, dtype and data.
func (t *Tensor) Equal(o *Tensor) bool {
	if o == nil || t.dtype != o.dtype || !tensor.SameShape(t.shape, o.shape) {
		return false
	}
	if len(t.data) != len(o.data) {
		return false
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Backend allocates dense tensors. It is stateless; the zero value is
// usable.
type Backend struct{}

// New returns the dense backend.
func New() Backend {
	return Backend{}
}

// Zeros implements tensor.Backend.
func (Backend) Zeros(shape []int, dt tensor.Dtype) (tensor.Tensor, error) {
	return Zeros(shape, dt)
}

// Name implements tensor.Backend.
func (Backend) Name() string {
	return "dense"
}

var _ tensor.Backend = Backend{}
var _ tensor.Tensor = (*Tensor)(nil)

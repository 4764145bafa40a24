//go:build cgo

// Package cu implements the device-memory tensor backend for CUDA users.
// Shape and dtype stay on the host, so validation and filtering never
// touch the device; only explicit uploads and downloads move bytes.
//
// The package needs a CUDA toolchain to build, like the rest of the
// gorgonia.org/cu ecosystem.
package cu

import "unsafe"

import "github.com/pkg/errors"
import "gorgonia.org/cu"

import "github.com/specware/modelspec/tensor"

// Tensor is a tensor whose bytes live in device memory.
type Tensor struct {
	shape []int
	dtype tensor.Dtype
	ptr   cu.DevicePtr
	size  int64
}

// Shape returns a copy of the axis sizes.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Dtype returns the element type tag.
func (t *Tensor) Dtype() tensor.Dtype {
	return t.dtype
}

// Float32s downloads an f32 tensor to the host.
func (t *Tensor) Float32s() ([]float32, error) {
	if t.dtype != tensor.F32 {
		return nil, errors.Errorf("tensor is %s, not f32", t.dtype)
	}
	out := make([]float32, t.size/4)
	if t.size == 0 {
		return out, nil
	}
	if err := cu.MemcpyDtoH(unsafe.Pointer(&out[0]), t.ptr, t.size); err != nil {
		return nil, errors.Wrap(err, "copy to host")
	}
	return out, nil
}

// Free releases the device allocation. The tensor must not be used after.
func (t *Tensor) Free() error {
	if t.size == 0 {
		return nil
	}
	return cu.MemFree(t.ptr)
}

// Backend owns a locked CUDA context and allocates device tensors.
type Backend struct {
	ctx *cu.CUContext
}

// New acquires the numbered device and locks a context on it.
func New(device int) (*Backend, error) {
	dev, err := cu.GetDevice(device)
	if err != nil {
		return nil, errors.Wrap(err, "get device")
	}
	ctx, err := dev.MakeContext(cu.SchedAuto)
	if err != nil {
		return nil, errors.Wrap(err, "make context")
	}
	if err := ctx.Lock(); err != nil {
		ctx.Destroy()
		return nil, errors.Wrap(err, "lock context")
	}
	return &Backend{ctx: &ctx}, nil
}

// Zeros implements tensor.Backend with a zeroed device allocation.
func (b *Backend) Zeros(shape []int, dt tensor.Dtype) (tensor.Tensor, error) {
	if dt.Size() == 0 {
		return nil, errors.New("invalid dtype")
	}
	t := &Tensor{
		shape: append([]int(nil), shape...),
		dtype: dt,
		size:  int64(tensor.Numel(shape) * dt.Size()),
	}
	if t.size == 0 {
		return t, nil
	}
	ptr, err := cu.MemAlloc(t.size)
	if err != nil {
		return nil, errors.Wrap(err, "allocate device memory")
	}
	if err := cu.MemsetD8(ptr, 0, t.size); err != nil {
		cu.MemFree(ptr)
		return nil, errors.Wrap(err, "zero device memory")
	}
	t.ptr = ptr
	return t, nil
}

// FromFloat32 uploads host values into a new f32 device tensor.
func (b *Backend) FromFloat32(shape []int, vals []float32) (*Tensor, error) {
	if tensor.Numel(shape) != len(vals) {
		return nil, errors.Errorf("shape %s needs %d values, got %d",
			tensor.ShapeString(shape), tensor.Numel(shape), len(vals))
	}
	t := &Tensor{
		shape: append([]int(nil), shape...),
		dtype: tensor.F32,
		size:  int64(len(vals) * 4),
	}
	if t.size == 0 {
		return t, nil
	}
	ptr, err := cu.MemAlloc(t.size)
	if err != nil {
		return nil, errors.Wrap(err, "allocate device memory")
	}
	if err := cu.MemcpyHtoD(ptr, unsafe.Pointer(&vals[0]), t.size); err != nil {
		cu.MemFree(ptr)
		return nil, errors.Wrap(err, "copy to device")
	}
	t.ptr = ptr
	return t, nil
}

// Name implements tensor.Backend.
func (b *Backend) Name() string {
	return "cu"
}

// Close unlocks and destroys the context. Tensors must be freed first.
func (b *Backend) Close() error {
	if b.ctx == nil {
		return nil
	}
	b.ctx.Unlock()
	b.ctx.Destroy()
	b.ctx = nil
	return nil
}

var _ tensor.Backend = (*Backend)(nil)
var _ tensor.Tensor = (*Tensor)(nil)

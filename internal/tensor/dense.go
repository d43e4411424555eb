// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Dense is a dtype-tagged dense buffer with row-major layout.
//
// It backs every numeric object in the adapter: model parameters, the
// flat parameter vector, and minibatch feature/label tensors. The raw
// storage is a byte slice reinterpreted through typed views, so a
// precision conversion produces a new buffer while leaving readers of
// the old one intact.
type Dense struct {
	data  []byte
	shape Shape
	dtype DataType
}

// NewDense allocates a zero-filled buffer with the given shape and type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Dense{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromSlice creates a buffer from a Go slice, copying the data.
// The slice length must equal the shape's element count.
func FromSlice[T DType](data []T, shape Shape) (*Dense, error) {
	var dummy T
	dtype := inferDataType(dummy)
	d, err := NewDense(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	if len(data) > 0 {
		dst := unsafe.Slice((*T)(unsafe.Pointer(&d.data[0])), len(data))
		copy(dst, data)
	}
	return d, nil
}

// FromFloats creates a 1-D vector from any float slice, inferring the
// precision tag from the element type.
func FromFloats[F constraints.Float](data []F) (*Dense, error) {
	switch xs := any(data).(type) {
	case []float32:
		return FromSlice(xs, Shape{len(xs)})
	case []float64:
		return FromSlice(xs, Shape{len(xs)})
	default:
		return nil, fmt.Errorf("unsupported float element type %T", data)
	}
}

// Shape returns the buffer's shape.
func (d *Dense) Shape() Shape {
	return d.shape
}

// DType returns the buffer's data type.
func (d *Dense) DType() DataType {
	return d.dtype
}

// NumElements returns the total number of elements.
func (d *Dense) NumElements() int {
	return d.shape.NumElements()
}

// AsFloat32 interprets the data as []float32.
// Panics if the buffer's dtype is not Float32.
func (d *Dense) AsFloat32() []float32 {
	if d.dtype != Float32 {
		panic(fmt.Sprintf("buffer dtype is %s, not float32", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the buffer's dtype is not Float64.
func (d *Dense) AsFloat64() []float64 {
	if d.dtype != Float64 {
		panic(fmt.Sprintf("buffer dtype is %s, not float64", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the buffer's dtype is not Int32.
func (d *Dense) AsInt32() []int32 {
	if d.dtype != Int32 {
		panic(fmt.Sprintf("buffer dtype is %s, not int32", d.dtype))
	}
	if len(d.data) == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&d.data[0])), d.NumElements())
}

// FloatAt reads element i widened to float64, regardless of dtype.
func (d *Dense) FloatAt(i int) float64 {
	switch d.dtype {
	case Float32:
		return float64(d.AsFloat32()[i])
	case Float64:
		return d.AsFloat64()[i]
	case Int32:
		return float64(d.AsInt32()[i])
	default:
		panic("unknown data type")
	}
}

// SetFloatAt writes element i, narrowing from float64 as needed.
func (d *Dense) SetFloatAt(i int, v float64) {
	switch d.dtype {
	case Float32:
		d.AsFloat32()[i] = float32(v)
	case Float64:
		d.AsFloat64()[i] = v
	case Int32:
		d.AsInt32()[i] = int32(v)
	default:
		panic("unknown data type")
	}
}

// Clone returns a deep copy sharing no storage with the receiver.
func (d *Dense) Clone() *Dense {
	data := make([]byte, len(d.data))
	copy(data, d.data)
	return &Dense{
		data:  data,
		shape: d.shape.Clone(),
		dtype: d.dtype,
	}
}

// CopyFrom copies element data from src into the receiver.
// Shapes and dtypes must match exactly.
func (d *Dense) CopyFrom(src *Dense) error {
	if d.dtype != src.dtype {
		return fmt.Errorf("dtype mismatch: %s vs %s", d.dtype, src.dtype)
	}
	if !d.shape.Equal(src.shape) {
		return fmt.Errorf("shape mismatch: %v vs %v", d.shape, src.shape)
	}
	copy(d.data, src.data)
	return nil
}

// Convert returns a copy of the buffer with elements cast to dtype.
// When dtype equals the receiver's, Convert still returns a fresh copy.
func (d *Dense) Convert(dtype DataType) *Dense {
	if dtype == d.dtype {
		return d.Clone()
	}
	out, err := NewDense(d.shape, dtype)
	if err != nil {
		panic(err) // receiver shape already validated
	}
	for i := 0; i < d.NumElements(); i++ {
		out.SetFloatAt(i, d.FloatAt(i))
	}
	return out
}

// ConvertInPlace rewrites the receiver's storage at the given dtype.
// Typed views taken before the call must not be reused afterwards.
func (d *Dense) ConvertInPlace(dtype DataType) {
	if dtype == d.dtype {
		return
	}
	converted := d.Convert(dtype)
	d.data = converted.data
	d.dtype = dtype
}

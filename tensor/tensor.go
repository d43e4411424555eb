// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense buffers FlatFit
// moves between structured models, minibatches, and flat parameter
// vectors.
//
// A Dense buffer carries a runtime precision tag (DataType) so the
// same value can be stored as float32 or float64 over its life; the
// adapter core relies on this for optimizer-driven precision switches.
//
// Example:
//
//	w, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3})
//	if err != nil { ... }
//	w32 := w.Convert(tensor.Float32)
package tensor

import (
	"golang.org/x/exp/constraints"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// DType is a constraint for supported element types.
type DType = tensor.DType

// DataType represents the element type of a Dense buffer, and doubles
// as the precision tag of a fit session.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
)

// Shape represents the dimensions of a buffer.
// Example: Shape{2, 3} is a 2×3 matrix.
type Shape = tensor.Shape

// Dense is a dtype-tagged dense buffer with row-major layout.
type Dense = tensor.Dense

// NewDense allocates a zero-filled buffer with the given shape and
// element type.
func NewDense(shape Shape, dtype DataType) (*Dense, error) {
	return tensor.NewDense(shape, dtype)
}

// FromSlice creates a buffer from a Go slice, copying the data.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice[T DType](data []T, shape Shape) (*Dense, error) {
	return tensor.FromSlice(data, shape)
}

// FromFloats creates a 1-D vector from any float slice, inferring the
// precision tag from the element type.
func FromFloats[F constraints.Float](data []F) (*Dense, error) {
	return tensor.FromFloats(data)
}

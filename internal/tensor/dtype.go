// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense numeric buffers the FlatFit adapter
// moves between structured models, minibatches, and flat parameter vectors.
package tensor

// DType is a constraint for supported element types.
type DType interface {
	~float32 | ~float64 | ~int32
}

// DataType represents runtime type information for a Dense buffer.
//
// It doubles as the precision tag of a model state: the element type of
// the flat parameter vector currently stored is always one of these.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Float64
	Int32
)

// Size returns the byte size of one element of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	default:
		return "unknown"
	}
}

// inferDataType infers the DataType tag for a generic element type.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	default:
		panic("unsupported type")
	}
}

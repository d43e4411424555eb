// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Layer is the base interface for all model components.
//
// Every layer must implement:
//   - Forward: compute output from input
//   - Params: list trainable parameters, in a fixed order
//   - Clone: deep copy, sharing no parameter storage
//
// The Params order is load-bearing: the flat parameter vector is laid
// out by walking layers in order and each layer's Params in order.
type Layer interface {
	// Forward computes the output of the layer for a 2-D input of
	// shape [batch, features]. The output dtype matches the input.
	Forward(input *tensor.Dense) *tensor.Dense

	// Params returns the trainable parameters of this layer.
	// Layers without parameters return nil.
	Params() []*Param

	// Clone returns a deep copy of the layer.
	Clone() Layer
}

// applyUnary maps f32/f64 over every element, dispatching on dtype.
func applyUnary(input *tensor.Dense, f32 func(float32) float32, f64 func(float64) float64) *tensor.Dense {
	out := input.Clone()
	switch input.DType() {
	case tensor.Float32:
		data := out.AsFloat32()
		for i, v := range data {
			data[i] = f32(v)
		}
	case tensor.Float64:
		data := out.AsFloat64()
		for i, v := range data {
			data[i] = f64(v)
		}
	default:
		panic(fmt.Sprintf("activation: unsupported input dtype %s", input.DType()))
	}
	return out
}

// ReLU is a rectified linear unit activation layer: f(x) = max(0, x).
type ReLU struct{}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU element-wise.
func (r *ReLU) Forward(input *tensor.Dense) *tensor.Dense {
	return applyUnary(input,
		func(v float32) float32 { return math32.Max(0, v) },
		func(v float64) float64 { return math.Max(0, v) },
	)
}

// Params returns nil (ReLU has no trainable parameters).
func (r *ReLU) Params() []*Param {
	return nil
}

// Clone returns a copy of the layer.
func (r *ReLU) Clone() Layer {
	return &ReLU{}
}

// Sigmoid is a sigmoid activation layer: σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies Sigmoid element-wise.
func (s *Sigmoid) Forward(input *tensor.Dense) *tensor.Dense {
	return applyUnary(input,
		func(v float32) float32 { return 1 / (1 + math32.Exp(-v)) },
		func(v float64) float64 { return 1 / (1 + math.Exp(-v)) },
	)
}

// Params returns nil (Sigmoid has no trainable parameters).
func (s *Sigmoid) Params() []*Param {
	return nil
}

// Clone returns a copy of the layer.
func (s *Sigmoid) Clone() Layer {
	return &Sigmoid{}
}

// Tanh is a hyperbolic tangent activation layer.
type Tanh struct{}

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies Tanh element-wise.
func (t *Tanh) Forward(input *tensor.Dense) *tensor.Dense {
	return applyUnary(input, math32.Tanh, math.Tanh)
}

// Params returns nil (Tanh has no trainable parameters).
func (t *Tanh) Params() []*Param {
	return nil
}

// Clone returns a copy of the layer.
func (t *Tanh) Clone() Layer {
	return &Tanh{}
}

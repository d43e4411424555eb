// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements the structured feed-forward models the adapter
// exposes to optimizers.
//
// This package provides the building blocks consumed by the fit core:
//   - Layer interface: forward pass + trainable parameter listing
//   - Param: a named parameter tensor
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: CrossEntropy, MSE
//   - Network: ordered container for stacking layers
//
// Unlike frameworks that fix one element type at compile time, every
// layer here dispatches on the runtime dtype of its input so a model
// can be converted between float32 and float64 mid-session.
package nn

import (
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Param represents a trainable parameter of a layer.
//
// The parameter tensor identity is stable for the life of the layer:
// precision conversion and flat-vector writes mutate the tensor in
// place rather than swapping it out.
type Param struct {
	name  string
	value *tensor.Dense
}

// NewParam creates a named parameter around an initialized tensor.
func NewParam(name string, value *tensor.Dense) *Param {
	return &Param{name: name, value: value}
}

// Name returns the parameter name (e.g., "weight", "bias").
func (p *Param) Name() string {
	return p.name
}

// Value returns the parameter tensor.
func (p *Param) Value() *tensor.Dense {
	return p.value
}

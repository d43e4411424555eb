// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for the structured feed-forward
// models FlatFit adapts to optimizers.
//
// Models are ordered layer stacks; the parameter traversal order of a
// Network defines the layout of its flat parameter vector.
//
// Example:
//
//	model := nn.NewNetwork(
//	    nn.NewLinear(4, 8, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear(8, 3, rng),
//	)
package nn

import (
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Layer is the base interface for all model components.
type Layer = nn.Layer

// Param is a named trainable parameter tensor.
type Param = nn.Param

// Network is an ordered container of layers applied sequentially.
type Network = nn.Network

// Linear is a fully connected layer computing y = x @ W.T + b.
type Linear = nn.Linear

// Activation layers.
type (
	// ReLU applies f(x) = max(0, x) element-wise.
	ReLU = nn.ReLU
	// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) element-wise.
	Sigmoid = nn.Sigmoid
	// Tanh applies tanh element-wise.
	Tanh = nn.Tanh
)

// Loss maps predictions and labels to a scalar.
type Loss = nn.Loss

// NewNetwork creates a network from layers applied in order.
func NewNetwork(layers ...Layer) *Network {
	return nn.NewNetwork(layers...)
}

// NewLinear creates a Linear layer with Xavier-initialized weights and
// zero biases. rng may be nil to use the shared math/rand source.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, rng)
}

// NewReLU creates a ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// NewSigmoid creates a Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// NewTanh creates a Tanh activation layer.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// CrossEntropy is the default classification loss: mean negative
// log-likelihood over a batch of logits with int32 class labels.
func CrossEntropy(pred, labels *tensor.Dense) float64 {
	return nn.CrossEntropy(pred, labels)
}

// MSE computes mean squared error between same-shaped predictions and
// targets.
func MSE(pred, labels *tensor.Dense) float64 {
	return nn.MSE(pred, labels)
}

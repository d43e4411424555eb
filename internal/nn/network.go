// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Network is an ordered container of layers applied sequentially.
//
// It is the "structured model" side of the flat-vector mapping: the
// parameter traversal order exposed by Params defines the layout of
// the flat vector, and it never changes for the life of the network.
//
// Example:
//
//	model := nn.NewNetwork(
//	    nn.NewLinear(784, 128, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, rng),
//	)
type Network struct {
	layers []Layer
}

// NewNetwork creates a network from layers applied in order.
func NewNetwork(layers ...Layer) *Network {
	return &Network{layers: layers}
}

// Forward runs the input through every layer in order.
func (n *Network) Forward(input *tensor.Dense) *tensor.Dense {
	out := input
	for _, layer := range n.layers {
		out = layer.Forward(out)
	}
	return out
}

// Layers returns the layers in application order.
func (n *Network) Layers() []Layer {
	return n.layers
}

// Params returns every trainable parameter in traversal order:
// layer order, then each layer's own parameter order.
func (n *Network) Params() []*Param {
	var params []*Param
	for _, layer := range n.layers {
		params = append(params, layer.Params()...)
	}
	return params
}

// NumParams returns the total scalar parameter count.
func (n *Network) NumParams() int {
	total := 0
	for _, p := range n.Params() {
		total += p.Value().NumElements()
	}
	return total
}

// DType returns the parameter precision of the network.
// Networks without parameters report Float32.
func (n *Network) DType() tensor.DataType {
	for _, p := range n.Params() {
		return p.Value().DType()
	}
	return tensor.Float32
}

// Convert rewrites every parameter tensor in place at the given
// precision. Parameter and tensor identities are preserved.
func (n *Network) Convert(dtype tensor.DataType) {
	for _, p := range n.Params() {
		p.Value().ConvertInPlace(dtype)
	}
}

// Clone returns a deep copy of the network sharing no parameter
// storage with the receiver.
func (n *Network) Clone() *Network {
	layers := make([]Layer, len(n.layers))
	for i, layer := range n.layers {
		layers[i] = layer.Clone()
	}
	return &Network{layers: layers}
}

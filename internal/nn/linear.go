// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros. New layers start in float32; use
// Network.Convert to move a whole model to another precision.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Param // [out_features, in_features]
	bias        *Param // [out_features]
}

// NewLinear creates a new Linear layer.
//
// rng drives weight initialization; pass nil to use the shared
// math/rand source.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weight := NewParam("weight", Xavier(inFeatures, outFeatures,
		tensor.Shape{outFeatures, inFeatures}, rng))
	bias := NewParam("bias", Zeros(tensor.Shape{outFeatures}))
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch, in_features]. The input dtype must match the
// layer's parameter dtype.
func (l *Linear) Forward(input *tensor.Dense) *tensor.Dense {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}
	if input.DType() != l.weight.Value().DType() {
		panic(fmt.Sprintf("Linear.Forward: input dtype %s does not match parameter dtype %s",
			input.DType(), l.weight.Value().DType()))
	}

	batch := inputShape[0]
	out, err := tensor.NewDense(tensor.Shape{batch, l.outFeatures}, input.DType())
	if err != nil {
		panic(err)
	}

	switch input.DType() {
	case tensor.Float32:
		l.forward32(input.AsFloat32(), out.AsFloat32(), batch)
	case tensor.Float64:
		l.forward64(input.AsFloat64(), out.AsFloat64(), batch)
	default:
		panic(fmt.Sprintf("Linear.Forward: unsupported dtype %s", input.DType()))
	}
	return out
}

func (l *Linear) forward32(x, y []float32, batch int) {
	w := l.weight.Value().AsFloat32()
	b := l.bias.Value().AsFloat32()
	for i := 0; i < batch; i++ {
		row := x[i*l.inFeatures : (i+1)*l.inFeatures]
		for o := 0; o < l.outFeatures; o++ {
			acc := b[o]
			wRow := w[o*l.inFeatures : (o+1)*l.inFeatures]
			for j, v := range row {
				acc += v * wRow[j]
			}
			y[i*l.outFeatures+o] = acc
		}
	}
}

func (l *Linear) forward64(x, y []float64, batch int) {
	w := l.weight.Value().AsFloat64()
	b := l.bias.Value().AsFloat64()
	for i := 0; i < batch; i++ {
		row := x[i*l.inFeatures : (i+1)*l.inFeatures]
		for o := 0; o < l.outFeatures; o++ {
			acc := b[o]
			wRow := w[o*l.inFeatures : (o+1)*l.inFeatures]
			for j, v := range row {
				acc += v * wRow[j]
			}
			y[i*l.outFeatures+o] = acc
		}
	}
}

// Params returns [weight, bias].
func (l *Linear) Params() []*Param {
	return []*Param{l.weight, l.bias}
}

// Clone returns a deep copy of the layer.
func (l *Linear) Clone() Layer {
	return &Linear{
		inFeatures:  l.inFeatures,
		outFeatures: l.outFeatures,
		weight:      NewParam(l.weight.Name(), l.weight.Value().Clone()),
		bias:        NewParam(l.bias.Name(), l.bias.Value().Clone()),
	}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Param {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Param {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

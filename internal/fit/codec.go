// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import (
	"github.com/pkg/errors"

	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// The codec maps between a network's per-layer parameter tensors and
// one flat vector. Traversal order is fixed: layer order, then each
// layer's parameter order (weight before bias for Linear), then
// row-major elements. Flatten and Apply are exact inverses:
// Flatten(Apply(v, m)) == v for any v of the right length.

// Flatten copies every parameter of the model into a fresh 1-D vector
// in traversal order. The vector's dtype matches the model's.
func Flatten(model *nn.Network) *tensor.Dense {
	dtype := model.DType()
	w, err := tensor.NewDense(tensor.Shape{model.NumParams()}, dtype)
	if err != nil {
		panic(err)
	}
	offset := 0
	for _, p := range model.Params() {
		v := p.Value()
		n := v.NumElements()
		switch dtype {
		case tensor.Float32:
			copy(w.AsFloat32()[offset:offset+n], v.AsFloat32())
		case tensor.Float64:
			copy(w.AsFloat64()[offset:offset+n], v.AsFloat64())
		default:
			panic("Flatten: model parameters must be floating point")
		}
		offset += n
	}
	return w
}

// Apply writes the vector's contents into the model's existing
// parameter tensors in place, preserving tensor identity.
//
// The vector must be 1-D with exactly the model's parameter count, and
// its dtype must match the model's; the evaluator converts precision
// before calling Apply, so a mismatch here is caller error.
func Apply(w *tensor.Dense, model *nn.Network) error {
	if len(w.Shape()) != 1 || w.NumElements() != model.NumParams() {
		return errors.Wrapf(ErrShapeMismatch, "vector shape %v, model has %d parameters",
			w.Shape(), model.NumParams())
	}
	if w.DType() != model.DType() {
		return errors.Wrapf(ErrShapeMismatch, "vector dtype %s, model dtype %s",
			w.DType(), model.DType())
	}
	offset := 0
	for _, p := range model.Params() {
		v := p.Value()
		n := v.NumElements()
		switch w.DType() {
		case tensor.Float32:
			copy(v.AsFloat32(), w.AsFloat32()[offset:offset+n])
		case tensor.Float64:
			copy(v.AsFloat64(), w.AsFloat64()[offset:offset+n])
		default:
			return errors.Wrapf(ErrShapeMismatch, "unsupported vector dtype %s", w.DType())
		}
		offset += n
	}
	return nil
}

// Unflatten builds a new model from a shape template and a vector: the
// template is deep-cloned, converted to the vector's dtype, and the
// vector is applied into the clone. The template is not modified.
func Unflatten(w *tensor.Dense, template *nn.Network) (*nn.Network, error) {
	if len(w.Shape()) != 1 || w.NumElements() != template.NumParams() {
		return nil, errors.Wrapf(ErrShapeMismatch, "vector shape %v, template has %d parameters",
			w.Shape(), template.NumParams())
	}
	model := template.Clone()
	model.Convert(w.DType())
	if err := Apply(w, model); err != nil {
		return nil, err
	}
	return model, nil
}

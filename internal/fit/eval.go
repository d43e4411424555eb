// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Every evaluation shares the same pre-step, synchronize: validate the
// candidate vector, reconcile precision (the vector's dtype wins), and
// write the vector into the structured model. All validation happens
// before any mutation, so a rejected call leaves the state exactly as
// it was.

// Objective evaluates the loss at w over the currently selected train
// minibatch. The cursor is not moved.
func (s *State) Objective(w *tensor.Dense) (float64, error) {
	if err := s.checkVector(w); err != nil {
		return 0, err
	}
	if err := s.synchronize(w); err != nil {
		return 0, err
	}
	s.objectiveEvals++
	b := s.train.Current()
	s.syncBatch(b)
	pred := s.model.Forward(b.Features)
	return s.loss(pred, b.Labels), nil
}

// Gradient evaluates ∇f at w over the currently selected train
// minibatch, writing the result into dst.
//
// dst must be a 1-D buffer of exactly Dim elements; its dtype chooses
// the precision the result is narrowed to. A length mismatch fails
// before any state mutation.
func (s *State) Gradient(w, dst *tensor.Dense) error {
	if err := s.checkVector(w); err != nil {
		return err
	}
	if err := s.checkGradBuffer(dst); err != nil {
		return err
	}
	if err := s.synchronize(w); err != nil {
		return err
	}
	s.gradientEvals++
	g := s.evalGradient(s.train.Current(), w)
	writeVector(dst, g)
	return nil
}

// ObjectiveAndGradient evaluates loss and gradient in one call against
// one minibatch read, so the two can never be computed on different
// batches even if a cursor advance races between separate calls. Both
// evaluation counters are incremented.
func (s *State) ObjectiveAndGradient(w, dst *tensor.Dense) (float64, error) {
	if err := s.checkVector(w); err != nil {
		return 0, err
	}
	if err := s.checkGradBuffer(dst); err != nil {
		return 0, err
	}
	if err := s.synchronize(w); err != nil {
		return 0, err
	}
	s.objectiveEvals++
	s.gradientEvals++

	b := s.train.Current()
	s.syncBatch(b)
	pred := s.model.Forward(b.Features)
	f := s.loss(pred, b.Labels)
	writeVector(dst, s.evalGradient(b, w))
	return f, nil
}

// Hessian evaluates the full n×n second-derivative matrix of the loss
// at w over the currently selected train minibatch, writing it into
// dst, which must be shaped [n, n].
//
// Cost grows quadratically-to-cubically with Dim; this is meant for
// small models and diagnostics, not large-scale training.
func (s *State) Hessian(w, dst *tensor.Dense) error {
	if err := s.checkVector(w); err != nil {
		return err
	}
	if dst == nil || len(dst.Shape()) != 2 ||
		dst.Shape()[0] != s.dim || dst.Shape()[1] != s.dim {
		return errors.Wrapf(ErrLengthMismatch, "want [%d %d] Hessian buffer", s.dim, s.dim)
	}
	if dst.DType() != tensor.Float32 && dst.DType() != tensor.Float64 {
		return errors.Wrapf(ErrLengthMismatch, "unsupported destination dtype %s", dst.DType())
	}
	if err := s.synchronize(w); err != nil {
		return err
	}
	s.hessianEvals++

	h := s.evalHessian(s.train.Current(), w)
	for i := 0; i < s.dim; i++ {
		for j := 0; j < s.dim; j++ {
			dst.SetFloatAt(i*s.dim+j, h.At(i, j))
		}
	}
	return nil
}

// synchronize reconciles precision and writes w into the model.
//
// When the candidate's dtype differs from the stored precision, the
// stored flat vector, every model parameter, and the current train
// minibatch's tensors are converted in place and the new dtype is
// recorded. The same steps run identically for all four operations.
func (s *State) synchronize(w *tensor.Dense) error {
	if w.DType() != s.dtype {
		klog.V(1).Infof("precision switch: %s -> %s (dim=%d)", s.dtype, w.DType(), s.dim)
		s.model.Convert(w.DType())
		s.w.ConvertInPlace(w.DType())
		s.dtype = w.DType()
		s.syncBatch(s.train.Current())
	}
	if err := Apply(w, s.model); err != nil {
		return err
	}
	return s.w.CopyFrom(w)
}

// syncBatch brings a batch's tensors to the session precision in
// place: features always, labels only when they are float regression
// targets. Int32 class labels are identity, not precision, and never
// convert. Needed both at switch time and when a batch selected after
// a switch still holds the old dtype.
func (s *State) syncBatch(b *data.Batch) {
	if b.Features.DType() != s.dtype {
		b.Features.ConvertInPlace(s.dtype)
	}
	if b.Labels.DType() != s.dtype && b.Labels.DType() != tensor.Int32 {
		b.Labels.ConvertInPlace(s.dtype)
	}
}

func (s *State) checkVector(w *tensor.Dense) error {
	if w == nil || len(w.Shape()) != 1 || w.NumElements() != s.dim {
		return errors.Wrapf(ErrShapeMismatch, "want 1-D vector of %d elements", s.dim)
	}
	switch w.DType() {
	case tensor.Float32, tensor.Float64:
		return nil
	default:
		return errors.Wrapf(ErrShapeMismatch, "unsupported vector dtype %s", w.DType())
	}
}

func (s *State) checkGradBuffer(dst *tensor.Dense) error {
	if dst == nil || len(dst.Shape()) != 1 || dst.NumElements() != s.dim {
		return errors.Wrapf(ErrLengthMismatch, "want 1-D buffer of %d elements", s.dim)
	}
	switch dst.DType() {
	case tensor.Float32, tensor.Float64:
		return nil
	default:
		return errors.Wrapf(ErrLengthMismatch, "unsupported destination dtype %s", dst.DType())
	}
}

// lossClosure builds the pure float64 function handed to the
// differentiation collaborator: apply a candidate vector to a private
// clone of the model, run the forward pass on the captured batch, and
// reduce with the loss. The live model is never touched while the
// collaborator probes. Float regression targets are widened to match
// the probe precision; int32 class labels pass through as-is.
func (s *State) lossClosure(b *data.Batch) func(x []float64) float64 {
	probe := s.model.Clone()
	probe.Convert(tensor.Float64)
	features := b.Features.Convert(tensor.Float64)
	labels := b.Labels
	if labels.DType() != tensor.Int32 {
		labels = labels.Convert(tensor.Float64)
	}

	return func(x []float64) float64 {
		xd, err := tensor.FromSlice(x, tensor.Shape{len(x)})
		if err != nil {
			panic(err)
		}
		if err := Apply(xd, probe); err != nil {
			panic(err)
		}
		pred := probe.Forward(features)
		return s.loss(pred, labels)
	}
}

func (s *State) evalGradient(b *data.Batch, w *tensor.Dense) []float64 {
	g := make([]float64, s.dim)
	s.dd.Gradient(g, s.lossClosure(b), s.vector64(w))
	return g
}

func (s *State) evalHessian(b *data.Batch, w *tensor.Dense) *mat.SymDense {
	h := mat.NewSymDense(s.dim, nil)
	s.dd.Hessian(h, s.lossClosure(b), s.vector64(w))
	return h
}

// vector64 widens the candidate vector to a fresh float64 slice for
// the differentiation collaborator.
func (s *State) vector64(w *tensor.Dense) []float64 {
	out := make([]float64, s.dim)
	for i := range out {
		out[i] = w.FloatAt(i)
	}
	return out
}

// writeVector narrows a float64 result into dst at dst's dtype.
func writeVector(dst *tensor.Dense, src []float64) {
	for i, v := range src {
		dst.SetFloatAt(i, v)
	}
}

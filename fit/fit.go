// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fit provides the public API of the FlatFit adapter: it
// presents a trainable feed-forward model to a generic nonlinear
// optimizer as a flat parameter vector with objective, gradient, and
// Hessian evaluators.
//
// Example:
//
//	model := nn.NewNetwork(
//	    nn.NewLinear(4, 8, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear(8, 3, rng),
//	)
//	state, err := fit.NewState(model, trainSplit, testSplit,
//	    fit.WithPartitions(10),
//	    fit.WithRand(rng),
//	)
//	if err != nil { ... }
//
//	problem := state.Problem() // gonum optimize.Problem
//	result, err := optimize.Minimize(problem, state.InitX(), nil, nil)
//
// Evaluations always read the currently selected train minibatch;
// advancing, resetting, or re-randomizing batches is the caller's
// move (state.Train().Advance(), typically once per optimizer
// iteration).
package fit

import (
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/diff"
	"github.com/flatfit-ml/flatfit/internal/fit"
	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// State bundles a structured model, its flat parameter vector and
// precision, both minibatch cursors, collaborators, and evaluation
// counters for one session. Not safe for concurrent use.
type State = fit.State

// Option configures state construction.
type Option = fit.Option

// Sentinel errors.
var (
	// ErrEmptySplit reports a zero-sample dataset split at construction.
	ErrEmptySplit = fit.ErrEmptySplit
	// ErrShapeMismatch reports a candidate vector that does not match
	// the model layout.
	ErrShapeMismatch = fit.ErrShapeMismatch
	// ErrLengthMismatch reports a destination buffer sized differently
	// from the problem dimension.
	ErrLengthMismatch = fit.ErrLengthMismatch
)

// NewState builds a session from a model and its two dataset splits.
func NewState(model *nn.Network, train, test *data.Split, opts ...Option) (*State, error) {
	return fit.NewState(model, train, test, opts...)
}

// WithPartitions sets how many minibatches each split is divided into.
func WithPartitions(n int) Option {
	return fit.WithPartitions(n)
}

// WithLoss replaces the default cross-entropy loss.
func WithLoss(l nn.Loss) Option {
	return fit.WithLoss(l)
}

// WithDifferentiator replaces the default central finite-difference
// differentiation collaborator.
func WithDifferentiator(d diff.Differentiator) Option {
	return fit.WithDifferentiator(d)
}

// WithRand fixes the random source used for shuffling and random batch
// selection.
func WithRand(rng *rand.Rand) Option {
	return fit.WithRand(rng)
}

// WithInitialBatches pins the initial current minibatch index of each
// cursor instead of the default uniformly random pick.
func WithInitialBatches(train, test int) Option {
	return fit.WithInitialBatches(train, test)
}

// Flatten copies every parameter of the model into a fresh 1-D vector
// in the codec's fixed traversal order.
func Flatten(model *nn.Network) *tensor.Dense {
	return fit.Flatten(model)
}

// Apply writes the vector's contents into the model's parameter
// tensors in place, preserving tensor identity.
func Apply(w *tensor.Dense, model *nn.Network) error {
	return fit.Apply(w, model)
}

// Unflatten builds a new model from a shape template and a vector.
func Unflatten(w *tensor.Dense, template *nn.Network) (*nn.Network, error) {
	return fit.Unflatten(w, template)
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package fit adapts a structured feed-forward model to the calling
// contract of a generic nonlinear optimizer: a flat parameter vector
// plus objective, gradient, and Hessian evaluators at a point.
//
// The two sides disagree in three ways the package reconciles:
//
//   - Layout: the model owns one tensor per layer parameter; the
//     optimizer wants one dense vector. Flatten, Unflatten, and Apply
//     define a fixed bidirectional mapping between the two.
//   - Sampling: the model trains on minibatches, so the "objective" is
//     a function of both the vector and the currently selected batch.
//     Batch selection is owned by cursors the caller drives explicitly;
//     no evaluation ever moves a cursor on its own.
//   - Precision: optimizers may probe in a different floating-point
//     width than the model currently stores. The incoming vector's
//     element type wins: state is converted before every evaluation
//     that needs it, never rejected.
//
// A State bundles the model, its flat vector, both cursors, the loss
// and differentiation collaborators, and evaluation counters. Problem
// exposes the whole thing as a gonum optimize.Problem.
package fit

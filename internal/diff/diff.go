// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diff defines the differentiation collaborator the evaluator
// hands scalar loss functions to.
//
// The adapter core treats differentiation as a black box: given a
// scalar-valued function of a float64 vector, produce its gradient or
// Hessian at a point. The default implementation uses central finite
// differences from gonum's diff/fd; callers with an analytic or
// tape-based engine can plug in their own Differentiator.
package diff

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Differentiator produces derivatives of a scalar-valued function of a
// vector. Implementations are treated as exact and deterministic given
// deterministic inputs.
type Differentiator interface {
	// Gradient writes ∇f(x) into dst. len(dst) must equal len(x).
	Gradient(dst []float64, f func(x []float64) float64, x []float64)

	// Hessian writes the n×n matrix of second derivatives of f at x
	// into dst, which must be sized n×n.
	Hessian(dst *mat.SymDense, f func(x []float64) float64, x []float64)
}

// FiniteDiff is the default Differentiator, backed by gonum diff/fd.
type FiniteDiff struct {
	// Formula selects the finite-difference stencil. The zero value
	// falls back to central differences.
	Formula fd.Formula

	// Step overrides the default step size when non-zero.
	Step float64

	// Concurrent allows gonum to evaluate probe points in parallel.
	// Leave false when f touches shared mutable state.
	Concurrent bool
}

// Central returns a FiniteDiff using the central-difference stencil.
func Central() *FiniteDiff {
	return &FiniteDiff{Formula: fd.Central}
}

func (d *FiniteDiff) settings() *fd.Settings {
	formula := d.Formula
	if formula.Stencil == nil {
		formula = fd.Central
	}
	return &fd.Settings{
		Formula:    formula,
		Step:       d.Step,
		Concurrent: d.Concurrent,
	}
}

// Gradient computes ∇f(x) by finite differences.
func (d *FiniteDiff) Gradient(dst []float64, f func(x []float64) float64, x []float64) {
	fd.Gradient(dst, f, x, d.settings())
}

// Hessian computes the Hessian of f at x by finite differences.
func (d *FiniteDiff) Hessian(dst *mat.SymDense, f func(x []float64) float64, x []float64) {
	fd.Hessian(dst, f, x, d.settings())
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diff provides the public API for the differentiation
// collaborator FlatFit hands scalar loss functions to.
//
// The default implementation uses central finite differences from
// gonum's diff/fd; callers with an analytic or tape-based engine can
// plug in their own Differentiator via fit.WithDifferentiator.
package diff

import (
	"github.com/flatfit-ml/flatfit/internal/diff"
)

// Differentiator produces gradient and Hessian of a scalar-valued
// function of a float64 vector.
type Differentiator = diff.Differentiator

// FiniteDiff is the default Differentiator, backed by gonum diff/fd.
type FiniteDiff = diff.FiniteDiff

// Central returns a FiniteDiff using the central-difference stencil.
func Central() *FiniteDiff {
	return diff.Central()
}

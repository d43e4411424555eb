// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

func TestInitXMirrorsParams(t *testing.T) {
	state := newRegressionState(t, 2, 1)
	x := state.InitX()
	require.Len(t, x, state.Dim())
	for i, v := range x {
		assert.Equal(t, state.Params().FloatAt(i), v)
	}
}

func TestProblemFuncMatchesObjective(t *testing.T) {
	state := newRegressionState(t, 2, 1)
	p := state.Problem()
	x := []float64{1, 0.5}

	got := p.Func(x)
	want, err := state.Objective(vec64(t, 1, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, want, got, 1e-12)
}

func TestProblemGradMatchesGradient(t *testing.T) {
	state := newRegressionState(t, 2, 1)
	p := state.Problem()
	x := []float64{1, 0.5}

	grad := make([]float64, 2)
	p.Grad(grad, x)

	dst, err := tensor.NewDense(tensor.Shape{2}, tensor.Float64)
	require.NoError(t, err)
	require.NoError(t, state.Gradient(vec64(t, 1, 0.5), dst))

	assert.True(t, floats.EqualApprox(dst.AsFloat64(), grad, 1e-10))
}

func TestProblemHessMatchesHessian(t *testing.T) {
	state := newRegressionState(t, 2, 1)
	p := state.Problem()
	x := []float64{1, 0.5}

	sym := mat.NewSymDense(2, nil)
	p.Hess(sym, x)

	dst, err := tensor.NewDense(tensor.Shape{2, 2}, tensor.Float64)
	require.NoError(t, err)
	require.NoError(t, state.Hessian(vec64(t, 1, 0.5), dst))

	h := dst.AsFloat64()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, h[i*2+j], sym.At(i, j), 1e-8)
		}
	}
	assert.Equal(t, 2, state.HessianEvals())
}

func TestProblemGradientDescentConverges(t *testing.T) {
	// Plain steepest descent on the 1-sample quadratic; the adapter is
	// all gonum needs, so a hand loop doubles as an end-to-end check.
	state := newRegressionState(t, 2, 1)
	p := state.Problem()

	x := []float64{3, -2}
	grad := make([]float64, len(x))
	initial := p.Func(x)
	require.Greater(t, initial, 1.0)

	const lr = 0.05
	for iter := 0; iter < 50; iter++ {
		p.Grad(grad, x)
		floats.AddScaled(x, -lr, grad)
	}

	final := p.Func(x)
	assert.Less(t, final, initial)
	assert.InDelta(t, 0, final, 1e-3)
}

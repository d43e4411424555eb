// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/fit"
	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// classSplit builds a classification split: sample i has the single
// feature values[i] and label labels[i].
func classSplit(t *testing.T, values []float32, labels []int32) *data.Split {
	t.Helper()
	ft, err := tensor.FromSlice(values, tensor.Shape{len(values), 1})
	require.NoError(t, err)
	lt, err := tensor.FromSlice(labels, tensor.Shape{len(labels)})
	require.NoError(t, err)
	split, err := data.NewSplit(ft, lt)
	require.NoError(t, err)
	return split
}

// regressionSplit builds a one-sample regression split for MSE tests.
func regressionSplit(t *testing.T, x, y float64) *data.Split {
	t.Helper()
	ft, err := tensor.FromSlice([]float64{x}, tensor.Shape{1, 1})
	require.NoError(t, err)
	lt, err := tensor.FromSlice([]float64{y}, tensor.Shape{1, 1})
	require.NoError(t, err)
	split, err := data.NewSplit(ft, lt)
	require.NoError(t, err)
	return split
}

// twoClassModel is a bias-free-by-value Linear(1, 2) classifier whose
// four parameters are [w0, w1, b0, b1] in flat order.
func twoClassModel() *nn.Network {
	return nn.NewNetwork(nn.NewLinear(1, 2, rand.New(rand.NewSource(11))))
}

// regressionModel is a Linear(1, 1) with flat parameters [w, b],
// converted to float64 to match regressionSplit labels.
func regressionModel() *nn.Network {
	model := nn.NewNetwork(nn.NewLinear(1, 1, rand.New(rand.NewSource(13))))
	model.Convert(tensor.Float64)
	return model
}

// newRegressionState builds a deterministic 1-sample MSE session.
func newRegressionState(t *testing.T, x, y float64) *fit.State {
	t.Helper()
	state, err := fit.NewState(
		regressionModel(),
		regressionSplit(t, x, y),
		regressionSplit(t, x, y),
		fit.WithLoss(nn.MSE),
		fit.WithPartitions(1),
		fit.WithRand(rand.New(rand.NewSource(17))),
	)
	require.NoError(t, err)
	return state
}

// regressionSplit32 builds a float32 regression split with one target
// per sample, leaving every tensor at the float32 construction default.
func regressionSplit32(t *testing.T, xs, ys []float32) *data.Split {
	t.Helper()
	ft, err := tensor.FromSlice(xs, tensor.Shape{len(xs), 1})
	require.NoError(t, err)
	lt, err := tensor.FromSlice(ys, tensor.Shape{len(ys), 1})
	require.NoError(t, err)
	split, err := data.NewSplit(ft, lt)
	require.NoError(t, err)
	return split
}

// newRegression32State builds an all-float32 MSE session pinned to the
// first minibatch of each cursor.
func newRegression32State(t *testing.T, xs, ys []float32, parts int) *fit.State {
	t.Helper()
	model := nn.NewNetwork(nn.NewLinear(1, 1, rand.New(rand.NewSource(19))))
	state, err := fit.NewState(
		model,
		regressionSplit32(t, xs, ys),
		regressionSplit32(t, xs, ys),
		fit.WithLoss(nn.MSE),
		fit.WithPartitions(parts),
		fit.WithRand(rand.New(rand.NewSource(23))),
		fit.WithInitialBatches(0, 0),
	)
	require.NoError(t, err)
	return state
}

func vec32(t *testing.T, xs ...float32) *tensor.Dense {
	t.Helper()
	w, err := tensor.FromSlice(xs, tensor.Shape{len(xs)})
	require.NoError(t, err)
	return w
}

func vec64(t *testing.T, xs ...float64) *tensor.Dense {
	t.Helper()
	w, err := tensor.FromSlice(xs, tensor.Shape{len(xs)})
	require.NoError(t, err)
	return w
}

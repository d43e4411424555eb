// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/fit"
	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

func TestNewStateEmptySplits(t *testing.T) {
	full := classSplit(t, []float32{1, 2}, []int32{0, 1})
	empty := classSplit(t, nil, nil)

	tests := []struct {
		name        string
		train, test *data.Split
	}{
		{"empty train", empty, full},
		{"empty test", full, empty},
		{"both empty", empty, empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fit.NewState(twoClassModel(), tt.train, tt.test)
			assert.ErrorIs(t, err, fit.ErrEmptySplit)
		})
	}
}

func TestNewStateRejectsParamlessModel(t *testing.T) {
	split := classSplit(t, []float32{1, 2}, []int32{0, 1})

	_, err := fit.NewState(nil, split, split)
	assert.Error(t, err)

	_, err = fit.NewState(nn.NewNetwork(nn.NewReLU()), split, split)
	assert.Error(t, err)
}

func TestNewStateDimAndDType(t *testing.T) {
	split := classSplit(t, []float32{1, 2, 3, 4}, []int32{0, 1, 0, 1})
	state, err := fit.NewState(twoClassModel(), split, split)
	require.NoError(t, err)

	// Linear(1, 2): 2 weights + 2 biases.
	assert.Equal(t, 4, state.Dim())
	assert.Equal(t, tensor.Float32, state.DType())
	assert.True(t, state.Params().Shape().Equal(tensor.Shape{4}))
	assert.Zero(t, state.ObjectiveEvals())
	assert.Zero(t, state.GradientEvals())
	assert.Zero(t, state.HessianEvals())
}

func TestNewStateDefaultPartitionsClampToSmallSplits(t *testing.T) {
	// 10 samples per split: the default of 100 parts cannot fit, so it
	// clamps to 10 instead of failing.
	values := make([]float32, 10)
	labels := make([]int32, 10)
	for i := range values {
		values[i] = float32(i)
		labels[i] = int32(i % 2)
	}
	split := classSplit(t, values, labels)

	state, err := fit.NewState(twoClassModel(), split, split)
	require.NoError(t, err)
	assert.Equal(t, 10, state.Train().NumBatches())
	assert.Equal(t, 10, state.Test().NumBatches())
}

func TestNewStateExplicitPartitionsAreStrict(t *testing.T) {
	split := classSplit(t, []float32{1, 2, 3}, []int32{0, 1, 0})

	_, err := fit.NewState(twoClassModel(), split, split, fit.WithPartitions(4))
	assert.ErrorIs(t, err, data.ErrBadPartition)

	_, err = fit.NewState(twoClassModel(), split, split, fit.WithPartitions(-1))
	assert.ErrorIs(t, err, data.ErrBadPartition)
}

func TestWithInitialBatchesPinsCurrent(t *testing.T) {
	values := []float32{1, 2, 3, 4}
	labels := []int32{0, 1, 0, 1}
	state, err := fit.NewState(
		twoClassModel(),
		classSplit(t, values, labels),
		classSplit(t, values, labels),
		fit.WithPartitions(2),
		fit.WithRand(rand.New(rand.NewSource(1))),
		fit.WithInitialBatches(1, 0),
	)
	require.NoError(t, err)

	assert.Same(t, state.Train().Batch(1), state.Train().Current())
	assert.Same(t, state.Test().Batch(0), state.Test().Current())
}

func TestCursorAccessors(t *testing.T) {
	values := []float32{1, 2, 3, 4}
	labels := []int32{0, 1, 0, 1}
	state, err := fit.NewState(
		twoClassModel(),
		classSplit(t, values, labels),
		classSplit(t, values, labels),
		fit.WithPartitions(2),
	)
	require.NoError(t, err)

	assert.Same(t, state.Train(), state.Cursor(data.Train))
	assert.Same(t, state.Test(), state.Cursor(data.Test))
	assert.NotSame(t, state.Train(), state.Test())
}

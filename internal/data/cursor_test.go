// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// makeSplit builds a split with count samples of one feature each;
// feature i carries the value i so batches are distinguishable, and
// label i is i modulo classes.
func makeSplit(t *testing.T, count, classes int) *data.Split {
	t.Helper()
	features := make([]float32, count)
	labels := make([]int32, count)
	for i := range features {
		features[i] = float32(i)
		labels[i] = int32(i % classes)
	}
	ft, err := tensor.FromSlice(features, tensor.Shape{count, 1})
	require.NoError(t, err)
	lt, err := tensor.FromSlice(labels, tensor.Shape{count})
	require.NoError(t, err)
	split, err := data.NewSplit(ft, lt)
	require.NoError(t, err)
	return split
}

func TestNewSplitValidation(t *testing.T) {
	ft, _ := tensor.NewDense(tensor.Shape{4, 2}, tensor.Float32)
	lt, _ := tensor.NewDense(tensor.Shape{3}, tensor.Int32)

	_, err := data.NewSplit(ft, lt)
	assert.ErrorIs(t, err, data.ErrSampleMismatch)

	_, err = data.NewSplit(nil, lt)
	assert.Error(t, err)

	bad1D, _ := tensor.NewDense(tensor.Shape{4}, tensor.Float32)
	_, err = data.NewSplit(bad1D, lt)
	assert.Error(t, err)
}

func TestCursorPartitionScenario(t *testing.T) {
	// 1000 samples split 100 ways: 100 batches of 10.
	split := makeSplit(t, 1000, 10)
	cursor, err := data.NewCursor(split, 100, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Equal(t, 100, cursor.NumBatches())
	for i := 0; i < cursor.NumBatches(); i++ {
		assert.Equal(t, 10, cursor.Batch(i).Size)
	}

	cursor.Reset()
	for i := 0; i < 100; i++ {
		assert.True(t, cursor.Advance(), "advance %d", i)
	}
	assert.False(t, cursor.Advance(), "101st advance must fail")
}

func TestCursorRemainderBatch(t *testing.T) {
	// 10 samples split 3 ways: chunks of 4, 4, 2.
	split := makeSplit(t, 10, 2)
	cursor, err := data.NewCursor(split, 3, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	require.Equal(t, 3, cursor.NumBatches())
	assert.Equal(t, 4, cursor.Batch(0).Size)
	assert.Equal(t, 4, cursor.Batch(1).Size)
	assert.Equal(t, 2, cursor.Batch(2).Size)

	total := 0
	for i := 0; i < cursor.NumBatches(); i++ {
		total += cursor.Batch(i).Size
	}
	assert.Equal(t, 10, total)
}

func TestCursorExhaustionIsSticky(t *testing.T) {
	split := makeSplit(t, 4, 2)
	cursor, err := data.NewCursor(split, 2, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.True(t, cursor.Advance())
	assert.True(t, cursor.Advance())

	last := cursor.Current()
	assert.False(t, cursor.Advance())
	assert.True(t, cursor.Exhausted())

	// Repeated advances stay false and never touch the current batch.
	assert.False(t, cursor.Advance())
	assert.False(t, cursor.Advance())
	assert.Same(t, last, cursor.Current())
}

func TestCursorResetKeepsCurrentUntilAdvance(t *testing.T) {
	split := makeSplit(t, 4, 2)
	cursor, err := data.NewCursor(split, 2, false, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for cursor.Advance() {
	}
	require.True(t, cursor.Exhausted())
	before := cursor.Current()

	cursor.Reset()
	assert.False(t, cursor.Exhausted())
	assert.Same(t, before, cursor.Current(), "reset must not replace the current batch")

	assert.True(t, cursor.Advance())
	assert.NotSame(t, before, cursor.Current())
}

func TestCursorRandomSelectIgnoresExhaustion(t *testing.T) {
	split := makeSplit(t, 6, 2)
	cursor, err := data.NewCursor(split, 3, false, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	for cursor.Advance() {
	}
	require.True(t, cursor.Exhausted())

	cursor.RandomSelect()
	assert.True(t, cursor.Exhausted(), "random selection must not clear exhaustion")
	assert.NotNil(t, cursor.Current())
}

func TestCursorRandomSelectDeterministicWithFixedSource(t *testing.T) {
	split := makeSplit(t, 8, 2)

	pick := func(seed int64) float64 {
		cursor, err := data.NewCursor(split, 4, false, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		cursor.RandomSelect()
		return cursor.Current().Features.FloatAt(0)
	}

	assert.Equal(t, pick(42), pick(42))
}

func TestCursorShuffleOnlyPermutesSamples(t *testing.T) {
	split := makeSplit(t, 20, 2)
	cursor, err := data.NewCursor(split, 4, true, rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	seen := make(map[float64]bool)
	for i := 0; i < cursor.NumBatches(); i++ {
		b := cursor.Batch(i)
		for r := 0; r < b.Size; r++ {
			seen[b.Features.FloatAt(r)] = true
		}
	}
	// Every sample appears exactly once across the partition.
	assert.Len(t, seen, 20)
}

func TestNewCursorValidation(t *testing.T) {
	split := makeSplit(t, 5, 2)

	tests := []struct {
		name  string
		parts int
	}{
		{"zero", 0},
		{"negative", -1},
		{"larger than sample count", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := data.NewCursor(split, tt.parts, false, rand.New(rand.NewSource(1)))
			assert.ErrorIs(t, err, data.ErrBadPartition)
		})
	}
}

func TestCursorInitialCurrentIsSet(t *testing.T) {
	split := makeSplit(t, 6, 2)
	cursor, err := data.NewCursor(split, 3, false, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	assert.NotNil(t, cursor.Current())
	assert.False(t, cursor.Exhausted())
}

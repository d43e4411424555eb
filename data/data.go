// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the public API for dataset splits and the
// minibatch cursors that feed FlatFit evaluations.
//
// Example:
//
//	split, err := data.NewSplit(features, labels)
//	if err != nil { ... }
//	cursor, err := data.NewCursor(split, 100, true, rng)
//	for cursor.Advance() {
//	    b := cursor.Current()
//	    // one minibatch per iteration
//	}
package data

import (
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Split is an immutable (features, labels) pair with a shared leading
// sample dimension.
type Split = data.Split

// Batch is one minibatch copied out of a split.
type Batch = data.Batch

// Cursor owns the minibatch partition of one split and the iteration
// state over it.
type Cursor = data.Cursor

// SplitKind names one of the two dataset splits of a fit session.
type SplitKind = data.SplitKind

// The two splits.
const (
	Train SplitKind = data.Train
	Test  SplitKind = data.Test
)

// Sentinel errors.
var (
	// ErrSampleMismatch reports feature/label sample counts that differ.
	ErrSampleMismatch = data.ErrSampleMismatch
	// ErrBadPartition reports a non-positive or oversized partition count.
	ErrBadPartition = data.ErrBadPartition
)

// NewSplit creates a split after validating the sample dimensions.
func NewSplit(features, labels *tensor.Dense) (*Split, error) {
	return data.NewSplit(features, labels)
}

// NewCursor partitions split into parts minibatches and selects a
// random initial current batch. shuffle re-permutes sample order on
// every Reset; rng may be nil for an unseeded source.
func NewCursor(split *Split, parts int, shuffle bool, rng *rand.Rand) (*Cursor, error) {
	return data.NewCursor(split, parts, shuffle, rng)
}

// LoadIDX reads an IDX image/label file pair (the MNIST distribution
// format) into a Split, normalizing pixels to [0, 1]. maxSamples
// truncates the dataset when positive.
func LoadIDX(imagePath, labelPath string, maxSamples int) (*Split, error) {
	return data.LoadIDX(imagePath, labelPath, maxSamples)
}

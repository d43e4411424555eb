// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data implements dataset splits and the minibatch cursor that
// feeds evaluations.
//
// A Split is an immutable (features, labels) pair. A Cursor owns an
// ordered partition of a split into minibatches and tracks which batch
// is currently selected; evaluation code only ever reads the current
// batch and never moves the cursor on its own.
package data

import (
	"github.com/pkg/errors"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Sentinel errors for dataset configuration problems.
var (
	// ErrSampleMismatch reports feature/label tensors whose leading
	// (sample-count) dimensions disagree.
	ErrSampleMismatch = errors.New("data: feature and label sample counts differ")

	// ErrBadPartition reports a partition count that is non-positive or
	// larger than the split's sample count.
	ErrBadPartition = errors.New("data: partition count must be positive and at most the sample count")
)

// SplitKind names one of the two dataset splits owned by a model state.
type SplitKind int

// The two splits.
const (
	Train SplitKind = iota
	Test
)

// String returns a human-readable split name.
func (k SplitKind) String() string {
	switch k {
	case Train:
		return "train"
	case Test:
		return "test"
	default:
		return "unknown"
	}
}

// Split is an immutable (features, labels) pair with a shared leading
// sample dimension.
//
// Features must be at least 2-D ([samples, features...]); labels are
// either 1-D class indices or a 2-D target matrix, as long as the
// leading dimension matches.
type Split struct {
	features *tensor.Dense
	labels   *tensor.Dense
}

// NewSplit creates a split after validating the sample dimensions.
func NewSplit(features, labels *tensor.Dense) (*Split, error) {
	if features == nil || labels == nil {
		return nil, errors.New("data: split requires both feature and label tensors")
	}
	fs, ls := features.Shape(), labels.Shape()
	if len(fs) < 2 {
		return nil, errors.Errorf("data: features must be at least 2D [samples, ...], got shape %v", fs)
	}
	if len(ls) < 1 || ls[0] != fs[0] {
		return nil, errors.Wrapf(ErrSampleMismatch, "features %v vs labels %v", fs, ls)
	}
	return &Split{features: features, labels: labels}, nil
}

// Count returns the number of samples in the split.
func (s *Split) Count() int {
	return s.features.Shape()[0]
}

// Features returns the feature tensor.
func (s *Split) Features() *tensor.Dense {
	return s.features
}

// Labels returns the label tensor.
func (s *Split) Labels() *tensor.Dense {
	return s.labels
}

// rowWidth returns the per-sample element count of a tensor.
func rowWidth(d *tensor.Dense) int {
	shape := d.Shape()
	width := 1
	for _, dim := range shape[1:] {
		width *= dim
	}
	return width
}

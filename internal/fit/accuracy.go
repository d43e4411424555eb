// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import (
	"github.com/pkg/errors"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Accuracy runs the current model over every batch of the chosen split
// and returns the fraction of samples whose argmax prediction matches
// the label, in [0, 1].
//
// The pass is independent of the evaluator: it walks the whole
// partition read-only, never moves the cursor, and never replaces the
// current minibatch. Batches whose features are stored at a different
// precision than the model are converted on the fly via copies.
func (s *State) Accuracy(kind data.SplitKind) (float64, error) {
	cursor := s.Cursor(kind)
	correct, total := 0, 0
	for i := 0; i < cursor.NumBatches(); i++ {
		b := cursor.Batch(i)
		if b.Labels.DType() != tensor.Int32 {
			return 0, errors.Errorf("fit: accuracy requires int32 class labels, got %s", b.Labels.DType())
		}
		features := b.Features
		if features.DType() != s.dtype {
			features = features.Convert(s.dtype)
		}
		pred := s.model.Forward(features)
		ids := b.Labels.AsInt32()
		for row := 0; row < b.Size; row++ {
			if nn.ArgmaxRow(pred, row) == int(ids[row]) {
				correct++
			}
			total++
		}
	}
	// total > 0: empty splits are rejected at construction.
	return float64(correct) / float64(total), nil
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import "github.com/pkg/errors"

// Sentinel errors surfaced by the adapter core. All are fatal for the
// call (or, for ErrEmptySplit, for construction); none are retried.
var (
	// ErrEmptySplit reports a dataset split with zero samples at state
	// construction time.
	ErrEmptySplit = errors.New("fit: empty dataset split")

	// ErrShapeMismatch reports a candidate parameter vector whose
	// length or element layout disagrees with the model.
	ErrShapeMismatch = errors.New("fit: parameter vector does not match model layout")

	// ErrLengthMismatch reports a caller-supplied destination buffer
	// whose size disagrees with the problem dimension.
	ErrLengthMismatch = errors.New("fit: destination buffer does not match problem dimension")
)

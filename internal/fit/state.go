// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import (
	"math/rand"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/diff"
	"github.com/flatfit-ml/flatfit/internal/nn"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// defaultPartitions is the partition count used when the caller does
// not set one. It is clamped to the smaller split so tiny datasets
// still construct; an explicitly supplied count is never clamped.
const defaultPartitions = 100

// State bundles everything one training/evaluation session needs: the
// structured model, its flat parameter vector and precision tag, one
// minibatch cursor per split, the loss and differentiation
// collaborators, and per-operation evaluation counters.
//
// State is not safe for concurrent use; callers that share one across
// goroutines must serialize access themselves.
type State struct {
	model *nn.Network
	loss  nn.Loss
	dd    diff.Differentiator
	rng   *rand.Rand

	w     *tensor.Dense
	dtype tensor.DataType
	dim   int

	train *data.Cursor
	test  *data.Cursor

	objectiveEvals int
	gradientEvals  int
	hessianEvals   int
}

type options struct {
	partitions     int
	loss           nn.Loss
	dd             diff.Differentiator
	rng            *rand.Rand
	initTrainBatch int
	initTestBatch  int
}

// Option configures state construction.
type Option func(*options)

// WithPartitions sets how many minibatches each split is divided into.
// Unlike the clamped default, an explicit count is validated strictly:
// it must be positive and at most the sample count of each split.
func WithPartitions(n int) Option {
	return func(o *options) { o.partitions = n }
}

// WithLoss replaces the default cross-entropy loss.
func WithLoss(l nn.Loss) Option {
	return func(o *options) { o.loss = l }
}

// WithDifferentiator replaces the default central finite-difference
// differentiation collaborator.
func WithDifferentiator(d diff.Differentiator) Option {
	return func(o *options) { o.dd = d }
}

// WithRand fixes the random source used for shuffling and random batch
// selection, making construction and RandomSelect deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithInitialBatches pins the initial current minibatch index of each
// cursor instead of the default uniformly random pick.
func WithInitialBatches(train, test int) Option {
	return func(o *options) {
		o.initTrainBatch = train
		o.initTestBatch = test
	}
}

// NewState builds a session from a model and its two dataset splits.
//
// Construction fails with ErrEmptySplit if either split has no samples
// and with data.ErrBadPartition if an explicit partition count does not
// fit either split. The model's parameter dtype at construction time
// becomes the session's initial precision.
func NewState(model *nn.Network, train, test *data.Split, opts ...Option) (*State, error) {
	o := options{
		loss:           nn.CrossEntropy,
		dd:             diff.Central(),
		initTrainBatch: -1,
		initTestBatch:  -1,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if model == nil || model.NumParams() == 0 {
		return nil, errors.New("fit: model has no trainable parameters")
	}
	if train == nil || train.Count() == 0 {
		return nil, errors.Wrap(ErrEmptySplit, "train")
	}
	if test == nil || test.Count() == 0 {
		return nil, errors.Wrap(ErrEmptySplit, "test")
	}

	if o.rng == nil {
		//nolint:gosec // batch sampling is not security-critical
		o.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	parts := o.partitions
	if parts == 0 {
		parts = defaultPartitions
		if train.Count() < parts {
			parts = train.Count()
		}
		if test.Count() < parts {
			parts = test.Count()
		}
	}

	trainCursor, err := data.NewCursor(train, parts, true, o.rng)
	if err != nil {
		return nil, errors.Wrap(err, "train split")
	}
	testCursor, err := data.NewCursor(test, parts, false, o.rng)
	if err != nil {
		return nil, errors.Wrap(err, "test split")
	}
	if o.initTrainBatch >= 0 {
		if err := trainCursor.Select(o.initTrainBatch); err != nil {
			return nil, err
		}
	}
	if o.initTestBatch >= 0 {
		if err := testCursor.Select(o.initTestBatch); err != nil {
			return nil, err
		}
	}

	w := Flatten(model)
	s := &State{
		model: model,
		loss:  o.loss,
		dd:    o.dd,
		rng:   o.rng,
		w:     w,
		dtype: model.DType(),
		dim:   w.NumElements(),
		train: trainCursor,
		test:  testCursor,
	}
	klog.V(1).Infof("fit state: dim=%d dtype=%s partitions=%d train=%d test=%d samples",
		s.dim, s.dtype, parts, train.Count(), test.Count())
	return s, nil
}

// Dim returns the problem dimension n: the total scalar parameter
// count of the model.
func (s *State) Dim() int {
	return s.dim
}

// DType returns the precision the flat vector is currently stored at.
func (s *State) DType() tensor.DataType {
	return s.dtype
}

// Params returns the stored flat parameter vector. The buffer is live:
// it reflects the last synchronized candidate. Treat it as read-only.
func (s *State) Params() *tensor.Dense {
	return s.w
}

// Model returns the structured model.
func (s *State) Model() *nn.Network {
	return s.model
}

// Cursor returns the minibatch cursor for the given split.
func (s *State) Cursor(kind data.SplitKind) *data.Cursor {
	if kind == data.Train {
		return s.train
	}
	return s.test
}

// Train returns the train-split cursor.
func (s *State) Train() *data.Cursor {
	return s.train
}

// Test returns the test-split cursor.
func (s *State) Test() *data.Cursor {
	return s.test
}

// ObjectiveEvals returns how many objective evaluations have run.
// Combined objective-and-gradient calls count toward both counters.
func (s *State) ObjectiveEvals() int {
	return s.objectiveEvals
}

// GradientEvals returns how many gradient evaluations have run.
func (s *State) GradientEvals() int {
	return s.gradientEvals
}

// HessianEvals returns how many Hessian evaluations have run.
func (s *State) HessianEvals() int {
	return s.hessianEvals
}

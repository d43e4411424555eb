// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"math/rand"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Cursor owns the minibatch partition of one split and the iteration
// state over it.
//
// The cursor separates two things that are easy to conflate: the
// iteration position (which advances and eventually exhausts) and the
// currently selected batch (which evaluation reads). Advancing moves
// both; exhaustion freezes the position while the current batch keeps
// its last value. A fresh cursor starts with a uniformly random current
// batch and the position parked before the first batch.
type Cursor struct {
	split   *Split
	parts   int
	shuffle bool
	rng     *rand.Rand

	batches   []Batch
	pos       int // -1 until the first Advance after construction/Reset
	exhausted bool
	current   *Batch
}

// NewCursor partitions split into parts minibatches and selects a
// random initial current batch.
//
// shuffle controls whether sample order is re-permuted on every Reset
// (conventionally enabled for the train split only). rng drives both
// shuffling and random selection; pass nil for an unseeded source.
func NewCursor(split *Split, parts int, shuffle bool, rng *rand.Rand) (*Cursor, error) {
	if parts <= 0 || parts > split.Count() {
		return nil, errors.Wrapf(ErrBadPartition, "parts=%d, samples=%d", parts, split.Count())
	}
	if rng == nil {
		//nolint:gosec // batch sampling is not security-critical
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	c := &Cursor{
		split:   split,
		parts:   parts,
		shuffle: shuffle,
		rng:     rng,
	}
	c.rebuild()
	c.current = &c.batches[rng.Intn(len(c.batches))]
	return c, nil
}

func (c *Cursor) rebuild() {
	c.batches = makeBatches(c.split, c.parts, c.shuffle, c.rng)
	c.pos = -1
	c.exhausted = false
}

// Reset rebuilds the partition (with a fresh shuffle when enabled) and
// parks the position before the first batch.
//
// The current batch is left as-is: it keeps serving evaluations until
// the next Advance or RandomSelect replaces it.
func (c *Cursor) Reset() {
	c.rebuild()
	klog.V(2).Infof("cursor reset: %d batches over %d samples (shuffle=%t)",
		len(c.batches), c.split.Count(), c.shuffle)
}

// Advance moves to the next batch and makes it current, reporting
// whether a batch was available.
//
// Once the last batch has been consumed the cursor becomes exhausted:
// Advance keeps returning false without touching the current batch and
// without wrapping around. Reset is the only way back.
func (c *Cursor) Advance() bool {
	if c.exhausted {
		return false
	}
	if c.pos+1 >= len(c.batches) {
		c.exhausted = true
		return false
	}
	c.pos++
	c.current = &c.batches[c.pos]
	return true
}

// RandomSelect makes a uniformly random batch current without touching
// the iteration position or the exhausted flag.
func (c *Cursor) RandomSelect() {
	c.current = &c.batches[c.rng.Intn(len(c.batches))]
}

// Select makes batch i current without touching the iteration state.
// Used to pin a deterministic starting batch in tests.
func (c *Cursor) Select(i int) error {
	if i < 0 || i >= len(c.batches) {
		return errors.Errorf("data: batch index %d out of range [0, %d)", i, len(c.batches))
	}
	c.current = &c.batches[i]
	return nil
}

// Current returns the currently selected batch. It is never nil.
func (c *Cursor) Current() *Batch {
	return c.current
}

// Exhausted reports whether the iteration has run past the last batch.
func (c *Cursor) Exhausted() bool {
	return c.exhausted
}

// NumBatches returns the number of batches in the partition.
func (c *Cursor) NumBatches() int {
	return len(c.batches)
}

// Batch returns batch i of the current partition (read-only peek for
// full-pass consumers such as the accuracy reporter).
func (c *Cursor) Batch(i int) *Batch {
	return &c.batches[i]
}

// Split returns the underlying dataset split.
func (c *Cursor) Split() *Split {
	return c.split
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math"
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Fills a float32 tensor with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across
// layers. rng may be nil, in which case the shared math/rand source is
// used.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t, err := tensor.NewDense(shape, tensor.Float32)
	if err != nil {
		panic(err)
	}

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}
	data := t.AsFloat32()
	for i := range data {
		//nolint:gosec // weight initialization is not security-critical
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}
	return t
}

// Zeros creates a zero-filled float32 tensor.
//
// This is commonly used for bias initialization.
func Zeros(shape tensor.Shape) *tensor.Dense {
	t, err := tensor.NewDense(shape, tensor.Float32)
	if err != nil {
		panic(err)
	}
	return t
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"math/rand"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Batch is one minibatch: a (features, labels) pair copied out of a
// split. Batches own their storage, so converting a batch's precision
// never touches the underlying split.
type Batch struct {
	Features *tensor.Dense
	Labels   *tensor.Dense
	Size     int
}

// makeBatches partitions the split's sample axis into parts contiguous
// chunks of ceil(count/parts) samples; the last chunk takes whatever
// remainder is left. When shuffle is set, sample order is permuted with
// rng before chunking.
//
// parts must already be validated against the sample count.
func makeBatches(split *Split, parts int, shuffle bool, rng *rand.Rand) []Batch {
	count := split.Count()
	chunk := (count + parts - 1) / parts

	indices := make([]int, count)
	for i := range indices {
		indices[i] = i
	}
	if shuffle {
		rng.Shuffle(count, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	featWidth := rowWidth(split.Features())
	labelWidth := rowWidth(split.Labels())

	batches := make([]Batch, 0, (count+chunk-1)/chunk)
	for start := 0; start < count; start += chunk {
		end := start + chunk
		if end > count {
			end = count
		}
		size := end - start

		features := mustDense(batchShape(split.Features(), size), split.Features().DType())
		labels := mustDense(batchShape(split.Labels(), size), split.Labels().DType())

		for row := start; row < end; row++ {
			src := indices[row]
			copyRow(features, row-start, split.Features(), src, featWidth)
			copyRow(labels, row-start, split.Labels(), src, labelWidth)
		}

		batches = append(batches, Batch{Features: features, Labels: labels, Size: size})
	}
	return batches
}

// batchShape replaces the leading dimension of src's shape with size.
func batchShape(src *tensor.Dense, size int) tensor.Shape {
	shape := src.Shape().Clone()
	shape[0] = size
	return shape
}

func mustDense(shape tensor.Shape, dtype tensor.DataType) *tensor.Dense {
	d, err := tensor.NewDense(shape, dtype)
	if err != nil {
		panic(err) // shapes derived from an already-validated split
	}
	return d
}

func copyRow(dst *tensor.Dense, dstRow int, src *tensor.Dense, srcRow, width int) {
	for j := 0; j < width; j++ {
		dst.SetFloatAt(dstRow*width+j, src.FloatAt(srcRow*width+j))
	}
}

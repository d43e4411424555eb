// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Loss maps model predictions and labels to a scalar.
//
// The scalar is always returned as float64; float32 predictions are
// reduced in float32 arithmetic and widened only at the boundary.
type Loss func(pred, labels *tensor.Dense) float64

// CrossEntropy computes mean negative log-likelihood over a batch of
// logits.
//
// pred has shape [batch, classes] (unnormalized logits), labels has
// shape [batch] with Int32 class indices. Log-softmax is computed with
// the max-subtraction trick for numerical stability.
func CrossEntropy(pred, labels *tensor.Dense) float64 {
	batch, classes := checkClassShapes(pred, labels)
	ids := labels.AsInt32()

	switch pred.DType() {
	case tensor.Float32:
		logits := pred.AsFloat32()
		var total float32
		for i := 0; i < batch; i++ {
			row := logits[i*classes : (i+1)*classes]
			total -= logSoftmax32(row)[ids[i]]
		}
		return float64(total / float32(batch))
	case tensor.Float64:
		logits := pred.AsFloat64()
		var total float64
		for i := 0; i < batch; i++ {
			row := logits[i*classes : (i+1)*classes]
			total -= logSoftmax64(row)[ids[i]]
		}
		return total / float64(batch)
	default:
		panic(fmt.Sprintf("CrossEntropy: unsupported prediction dtype %s", pred.DType()))
	}
}

// MSE computes mean squared error between predictions and targets of
// identical shape and dtype.
func MSE(pred, labels *tensor.Dense) float64 {
	if !pred.Shape().Equal(labels.Shape()) {
		panic(fmt.Sprintf("MSE: prediction shape %v does not match target shape %v",
			pred.Shape(), labels.Shape()))
	}
	n := pred.NumElements()
	switch pred.DType() {
	case tensor.Float32:
		p, t := pred.AsFloat32(), labels.AsFloat32()
		var total float32
		for i := range p {
			d := p[i] - t[i]
			total += d * d
		}
		return float64(total / float32(n))
	case tensor.Float64:
		p, t := pred.AsFloat64(), labels.AsFloat64()
		var total float64
		for i := range p {
			d := p[i] - t[i]
			total += d * d
		}
		return total / float64(n)
	default:
		panic(fmt.Sprintf("MSE: unsupported prediction dtype %s", pred.DType()))
	}
}

// ArgmaxRow returns the index of the largest value in row i of a 2-D
// prediction tensor, for either float precision.
func ArgmaxRow(pred *tensor.Dense, i int) int {
	shape := pred.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("ArgmaxRow: expected 2D predictions, got shape %v", shape))
	}
	classes := shape[1]
	best, bestVal := 0, pred.FloatAt(i*classes)
	for j := 1; j < classes; j++ {
		if v := pred.FloatAt(i*classes + j); v > bestVal {
			best, bestVal = j, v
		}
	}
	return best
}

func checkClassShapes(pred, labels *tensor.Dense) (batch, classes int) {
	predShape := pred.Shape()
	if len(predShape) != 2 {
		panic(fmt.Sprintf("CrossEntropy: expected 2D logits [batch, classes], got shape %v", predShape))
	}
	if labels.DType() != tensor.Int32 {
		panic(fmt.Sprintf("CrossEntropy: expected int32 labels, got %s", labels.DType()))
	}
	labelShape := labels.Shape()
	if len(labelShape) != 1 || labelShape[0] != predShape[0] {
		panic(fmt.Sprintf("CrossEntropy: label shape %v does not match batch size %d",
			labelShape, predShape[0]))
	}
	return predShape[0], predShape[1]
}

// logSoftmax32 computes log(softmax(z)) with max subtraction.
func logSoftmax32(z []float32) []float32 {
	maxVal := z[0]
	for _, v := range z[1:] {
		maxVal = math32.Max(maxVal, v)
	}
	var sum float32
	out := make([]float32, len(z))
	for i, v := range z {
		out[i] = v - maxVal
		sum += math32.Exp(out[i])
	}
	logSum := math32.Log(sum)
	for i := range out {
		out[i] -= logSum
	}
	return out
}

// logSoftmax64 computes log(softmax(z)) with max subtraction.
func logSoftmax64(z []float64) []float64 {
	maxVal := z[0]
	for _, v := range z[1:] {
		maxVal = math.Max(maxVal, v)
	}
	var sum float64
	out := make([]float64, len(z))
	for i, v := range z {
		out[i] = v - maxVal
		sum += math.Exp(out[i])
	}
	logSum := math.Log(sum)
	for i := range out {
		out[i] -= logSum
	}
	return out
}

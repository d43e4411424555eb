// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package fit

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// Problem exposes the state as a gonum optimize.Problem.
//
// gonum drives everything in float64, so the first call converts a
// float32 session to float64 via the normal precision-reconciliation
// path. The closures panic on evaluation errors; with a correctly
// sized X (length Dim) none can occur.
//
// Minibatch advance stays with the caller: wire a per-iteration hook
// (for example an optimize.Recorder) that calls Train().Advance() or
// Train().RandomSelect(), so line-search re-evaluations within one
// iteration all see the same batch.
func (s *State) Problem() optimize.Problem {
	return optimize.Problem{
		Func: func(x []float64) float64 {
			f, err := s.Objective(vec64(x))
			if err != nil {
				panic(err)
			}
			return f
		},
		Grad: func(grad, x []float64) {
			dst, err := tensor.NewDense(tensor.Shape{len(grad)}, tensor.Float64)
			if err != nil {
				panic(err)
			}
			if err := s.Gradient(vec64(x), dst); err != nil {
				panic(err)
			}
			copy(grad, dst.AsFloat64())
		},
		Hess: func(dst *mat.SymDense, x []float64) {
			w := vec64(x)
			if err := s.checkVector(w); err != nil {
				panic(err)
			}
			if err := s.synchronize(w); err != nil {
				panic(err)
			}
			s.hessianEvals++
			dst.CopySym(s.evalHessian(s.train.Current(), w))
		},
	}
}

// InitX returns the current flat parameter vector widened to float64,
// ready to seed an optimizer run.
func (s *State) InitX() []float64 {
	return s.vector64(s.w)
}

func vec64(x []float64) *tensor.Dense {
	w, err := tensor.FromSlice(x, tensor.Shape{len(x)})
	if err != nil {
		panic(err)
	}
	return w
}

// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Command flatfit trains a small feed-forward classifier by handing it
// to a gonum optimizer through the flat-vector adapter.
//
// With -data it reads an MNIST-style IDX directory; without it a
// synthetic Gaussian-blob dataset keeps the demo self-contained.
//
//	flatfit -data ./mnist -samples 2000 -hidden 16 -iters 50
//	flatfit -method cg -iters 200
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/optimize"
	"k8s.io/klog/v2"

	"github.com/flatfit-ml/flatfit/data"
	"github.com/flatfit-ml/flatfit/fit"
	"github.com/flatfit-ml/flatfit/nn"
	"github.com/flatfit-ml/flatfit/tensor"
)

func main() {
	var (
		dataDir    = flag.String("data", "", "directory with MNIST IDX files (empty: synthetic blobs)")
		samples    = flag.Int("samples", 1000, "max samples per split (0: all)")
		partitions = flag.Int("partitions", 0, "minibatch count per split (0: default)")
		hidden     = flag.Int("hidden", 8, "hidden layer width")
		iters      = flag.Int("iters", 100, "major optimizer iterations")
		method     = flag.String("method", "lbfgs", "optimizer: lbfgs, cg, or bfgs")
		seed       = flag.Int64("seed", 1, "random seed")
	)
	klog.InitFlags(nil)
	flag.Parse()

	if err := run(*dataDir, *samples, *partitions, *hidden, *iters, *method, *seed); err != nil {
		klog.Errorf("flatfit: %v", err)
		os.Exit(1)
	}
}

func run(dataDir string, samples, partitions, hidden, iters int, method string, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	train, test, classes, err := loadSplits(dataDir, samples, rng)
	if err != nil {
		return err
	}
	width := train.Features().Shape()[1]

	model := nn.NewNetwork(
		nn.NewLinear(width, hidden, rng),
		nn.NewTanh(),
		nn.NewLinear(hidden, classes, rng),
	)

	opts := []fit.Option{fit.WithRand(rng)}
	if partitions > 0 {
		opts = append(opts, fit.WithPartitions(partitions))
	}
	state, err := fit.NewState(model, train, test, opts...)
	if err != nil {
		return err
	}
	klog.Infof("dim=%d train=%d test=%d classes=%d", state.Dim(), train.Count(), test.Count(), classes)

	m, err := pickMethod(method)
	if err != nil {
		return err
	}
	settings := &optimize.Settings{
		MajorIterations: iters,
		Recorder:        &batchRecorder{state: state},
	}

	result, err := optimize.Minimize(state.Problem(), state.InitX(), settings, m)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		klog.Warningf("optimizer stopped early: %v", err)
	}

	trainAcc, err := state.Accuracy(data.Train)
	if err != nil {
		return err
	}
	testAcc, err := state.Accuracy(data.Test)
	if err != nil {
		return err
	}

	fmt.Printf("final objective:  %.6f (%s)\n", result.F, result.Status)
	fmt.Printf("train accuracy:   %.2f%%\n", 100*trainAcc)
	fmt.Printf("test accuracy:    %.2f%%\n", 100*testAcc)
	fmt.Printf("evaluations:      objective=%d gradient=%d hessian=%d\n",
		state.ObjectiveEvals(), state.GradientEvals(), state.HessianEvals())
	return nil
}

// batchRecorder advances the train minibatch once per major iteration,
// so line-search probes within one iteration share a batch. A consumed
// epoch triggers a reset with a fresh shuffle.
type batchRecorder struct {
	state *fit.State
}

func (r *batchRecorder) Init() error { return nil }

func (r *batchRecorder) Record(_ *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	cursor := r.state.Train()
	if !cursor.Advance() {
		cursor.Reset()
		cursor.Advance()
	}
	return nil
}

func loadSplits(dataDir string, samples int, rng *rand.Rand) (train, test *data.Split, classes int, err error) {
	if dataDir == "" {
		klog.Info("no -data directory, generating synthetic blobs")
		const blobClasses = 3
		train, err = syntheticBlobs(rng, 600, 4, blobClasses)
		if err != nil {
			return nil, nil, 0, err
		}
		test, err = syntheticBlobs(rng, 200, 4, blobClasses)
		if err != nil {
			return nil, nil, 0, err
		}
		return train, test, blobClasses, nil
	}

	train, err = data.LoadIDX(
		filepath.Join(dataDir, "train-images-idx3-ubyte"),
		filepath.Join(dataDir, "train-labels-idx1-ubyte"),
		samples,
	)
	if err != nil {
		return nil, nil, 0, err
	}
	test, err = data.LoadIDX(
		filepath.Join(dataDir, "t10k-images-idx3-ubyte"),
		filepath.Join(dataDir, "t10k-labels-idx1-ubyte"),
		samples,
	)
	if err != nil {
		return nil, nil, 0, err
	}
	return train, test, 10, nil
}

// syntheticBlobs samples one Gaussian cluster per class.
func syntheticBlobs(rng *rand.Rand, count, width, classes int) (*data.Split, error) {
	centers := make([][]float32, classes)
	for c := range centers {
		centers[c] = make([]float32, width)
		for j := range centers[c] {
			centers[c][j] = float32(rng.NormFloat64()) * 2
		}
	}

	features := make([]float32, count*width)
	labels := make([]int32, count)
	for i := 0; i < count; i++ {
		c := i % classes
		labels[i] = int32(c)
		for j := 0; j < width; j++ {
			features[i*width+j] = centers[c][j] + float32(rng.NormFloat64())*0.3
		}
	}

	ft, err := tensor.FromSlice(features, tensor.Shape{count, width})
	if err != nil {
		return nil, err
	}
	lt, err := tensor.FromSlice(labels, tensor.Shape{count})
	if err != nil {
		return nil, err
	}
	return data.NewSplit(ft, lt)
}

func pickMethod(name string) (optimize.Method, error) {
	switch name {
	case "lbfgs":
		return &optimize.LBFGS{}, nil
	case "cg":
		return &optimize.CG{}, nil
	case "bfgs":
		return &optimize.BFGS{}, nil
	default:
		return nil, fmt.Errorf("unknown method %q (want lbfgs, cg, or bfgs)", name)
	}
}

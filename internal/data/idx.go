// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// IDX magic numbers (big-endian), per the MNIST distribution format.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// LoadIDX reads an IDX image/label file pair into a Split.
//
// Pixels are widened to float32 and normalized to [0, 1]; labels become
// int32 class ids. maxSamples truncates the dataset when positive,
// which keeps finite-difference experiments tractable.
//
// Example (MNIST):
//
//	train, err := data.LoadIDX("train-images-idx3-ubyte", "train-labels-idx1-ubyte", 0)
func LoadIDX(imagePath, labelPath string, maxSamples int) (*Split, error) {
	images, rows, cols, err := readIDXImages(imagePath)
	if err != nil {
		return nil, errors.Wrap(err, "images")
	}
	labels, err := readIDXLabels(labelPath)
	if err != nil {
		return nil, errors.Wrap(err, "labels")
	}
	if len(images) != len(labels) {
		return nil, errors.Errorf("data: %d images but %d labels", len(images), len(labels))
	}

	count := len(images)
	if maxSamples > 0 && count > maxSamples {
		count = maxSamples
	}
	width := rows * cols

	features, err := tensor.NewDense(tensor.Shape{count, width}, tensor.Float32)
	if err != nil {
		return nil, err
	}
	fv := features.AsFloat32()
	for i := 0; i < count; i++ {
		for j, px := range images[i] {
			fv[i*width+j] = float32(px) / 255
		}
	}

	ids, err := tensor.NewDense(tensor.Shape{count}, tensor.Int32)
	if err != nil {
		return nil, err
	}
	lv := ids.AsInt32()
	for i := 0; i < count; i++ {
		lv[i] = int32(labels[i])
	}

	klog.V(1).Infof("loaded IDX pair: %d samples of %dx%d", count, rows, cols)
	return NewSplit(features, ids)
}

func readIDXImages(path string) (images [][]byte, rows, cols int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	var header struct {
		Magic, Count, Rows, Cols uint32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, errors.Wrap(err, "IDX image header")
	}
	if header.Magic != idxImagesMagic {
		return nil, 0, 0, errors.Errorf("data: bad IDX image magic %d, want %d", header.Magic, idxImagesMagic)
	}

	size := int(header.Rows * header.Cols)
	images = make([][]byte, header.Count)
	for i := range images {
		images[i] = make([]byte, size)
		if _, err := io.ReadFull(f, images[i]); err != nil {
			return nil, 0, 0, errors.Wrapf(err, "IDX image %d", i)
		}
	}
	return images, int(header.Rows), int(header.Cols), nil
}

func readIDXLabels(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header struct {
		Magic, Count uint32
	}
	if err := binary.Read(f, binary.BigEndian, &header); err != nil {
		return nil, errors.Wrap(err, "IDX label header")
	}
	if header.Magic != idxLabelsMagic {
		return nil, errors.Errorf("data: bad IDX label magic %d, want %d", header.Magic, idxLabelsMagic)
	}

	labels := make([]byte, header.Count)
	if _, err := io.ReadFull(f, labels); err != nil {
		return nil, errors.Wrap(err, "IDX label data")
	}
	return labels, nil
}

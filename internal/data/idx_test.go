// Copyright 2026 FlatFit ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package data_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flatfit-ml/flatfit/internal/data"
	"github.com/flatfit-ml/flatfit/internal/tensor"
)

// writeIDXPair materializes a tiny IDX image/label pair on disk:
// three 2x2 images with pixel value 255*i and label i.
func writeIDXPair(t *testing.T) (imagePath, labelPath string) {
	t.Helper()
	dir := t.TempDir()

	var img bytes.Buffer
	for _, v := range []uint32{2051, 3, 2, 2} {
		require.NoError(t, binary.Write(&img, binary.BigEndian, v))
	}
	img.Write([]byte{0, 0, 0, 0})
	img.Write([]byte{255, 255, 255, 255})
	img.Write([]byte{51, 51, 51, 51})

	var lbl bytes.Buffer
	for _, v := range []uint32{2049, 3} {
		require.NoError(t, binary.Write(&lbl, binary.BigEndian, v))
	}
	lbl.Write([]byte{0, 1, 2})

	imagePath = filepath.Join(dir, "images-idx3-ubyte")
	labelPath = filepath.Join(dir, "labels-idx1-ubyte")
	require.NoError(t, os.WriteFile(imagePath, img.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(labelPath, lbl.Bytes(), 0o644))
	return imagePath, labelPath
}

func TestLoadIDX(t *testing.T) {
	imagePath, labelPath := writeIDXPair(t)

	split, err := data.LoadIDX(imagePath, labelPath, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, split.Count())
	assert.True(t, split.Features().Shape().Equal(tensor.Shape{3, 4}))
	assert.Equal(t, tensor.Float32, split.Features().DType())
	assert.Equal(t, []int32{0, 1, 2}, split.Labels().AsInt32())

	fv := split.Features().AsFloat32()
	assert.Equal(t, float32(0), fv[0])
	assert.Equal(t, float32(1), fv[4])
	assert.InDelta(t, 0.2, fv[8], 1e-6)
}

func TestLoadIDXTruncates(t *testing.T) {
	imagePath, labelPath := writeIDXPair(t)

	split, err := data.LoadIDX(imagePath, labelPath, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, split.Count())
}

func TestLoadIDXBadMagic(t *testing.T) {
	imagePath, labelPath := writeIDXPair(t)

	_, err := data.LoadIDX(labelPath, labelPath, 0)
	assert.Error(t, err)

	_, err = data.LoadIDX(imagePath, imagePath, 0)
	assert.Error(t, err)
}

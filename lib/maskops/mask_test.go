// Copyright 2025 the DAAM authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package maskops

import (
	"bytes"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compositeImage builds a grayscale composite mask image whose pixel values
// are vocabulary indices.
func compositeImage(t *testing.T, rows [][]uint8) *image.Gray {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, v := range row {
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}

func TestMaskAtSet(t *testing.T) {
	m := NewMask(2, 3)
	m.Set(1, 2, 0.5)

	assert.Equal(t, float32(0.5), m.At(1, 2))
	assert.Equal(t, float32(0), m.At(0, 0))
	assert.Len(t, m.Data, 6)
}

func TestMaskClone(t *testing.T) {
	m := NewMask(1, 2)
	m.Set(0, 0, 1)

	c := m.Clone()
	c.Set(0, 1, 1)

	assert.Equal(t, float32(0), m.At(0, 1))
	assert.Equal(t, float32(1), c.At(0, 0))
}

func TestMaskClamp(t *testing.T) {
	m := maskOf(-0.5, 0.25, 1.5)
	m.Clamp(0, 1)
	assert.Equal(t, []float32{0, 0.25, 1}, m.Data)
}

func TestMaskCoverage(t *testing.T) {
	m := maskOf(0, 0.4, 0.6, 1)
	assert.InDelta(t, 0.5, m.Coverage(0.5), 1e-9)
	assert.InDelta(t, 0.75, m.Coverage(0.1), 1e-9)
	assert.Equal(t, float64(0), NewMask(0, 0).Coverage(0.5))
}

func TestMaskImageRoundTrip(t *testing.T) {
	m := NewMask(4, 5)
	m.Set(0, 0, 1)
	m.Set(2, 3, 1)
	m.Set(3, 4, 1)

	var buf bytes.Buffer
	require.NoError(t, EncodeMask(&buf, m))

	got, err := DecodeMask(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.H, got.H)
	assert.Equal(t, m.W, got.W)
	assert.Equal(t, m.Data, got.Data)
}

func TestDecodeMaskBinarizes(t *testing.T) {
	m := NewMask(1, 4)
	m.Set(0, 0, 0.2) // below the half-scale cutoff
	m.Set(0, 1, 0.6)
	m.Set(0, 2, 1)

	var buf bytes.Buffer
	require.NoError(t, EncodeMask(&buf, m))

	got, err := DecodeMask(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 1, 0}, got.Data)
}

func TestDecodeMaskRejectsGarbage(t *testing.T) {
	_, err := DecodeMask(bytes.NewReader([]byte("not an image")))
	require.Error(t, err)
}

func TestCompositeExtraction(t *testing.T) {
	img := compositeImage(t, [][]uint8{
		{0, 0, 2},
		{7, 2, 2},
	})

	assert.Equal(t, []uint8{0, 2, 7}, CompositeIndices(img))

	twos := MaskFromComposite(img, 2)
	assert.Equal(t, []float32{0, 0, 1, 0, 1, 1}, twos.Data)

	sevens := MaskFromComposite(img, 7)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0}, sevens.Data)
}

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

// Package heatmap upsamples low-resolution cross-attention maps to image
// resolution and renders them over generated images.
package heatmap

import (
	"math"

	"github.com/eltociear/daam/lib/maskops"
)

// ExpandOptions control Expand.
type ExpandOptions struct {
	// Absolute skips min-max normalization of the expanded map.
	Absolute bool
	// Threshold, when positive, binarizes the expanded map at the given
	// cutoff after normalization.
	Threshold float32
}

// Expand upsamples a cross-attention map to an out-by-out grid with
// Catmull-Rom (bicubic) interpolation. Unless opts.Absolute is set the result
// is min-max normalized to [0, 1]; a positive opts.Threshold then binarizes
// it.
func Expand(m *maskops.Mask, out int, opts ExpandOptions) *maskops.Mask {
	expanded := resample(m, out, out)

	if !opts.Absolute {
		normalize(expanded)
	}

	if opts.Threshold > 0 {
		for i, v := range expanded.Data {
			if v > opts.Threshold {
				expanded.Data[i] = 1
			} else {
				expanded.Data[i] = 0
			}
		}
	}

	return expanded
}

// resample interpolates m onto a targetH-by-targetW grid with the Catmull-Rom
// cubic kernel, operating on the raw float values so no quantization step
// intervenes.
func resample(m *maskops.Mask, targetH, targetW int) *maskops.Mask {
	if m.H == targetH && m.W == targetW {
		return m.Clone()
	}

	out := maskops.NewMask(targetH, targetW)
	yRatio := float64(m.H) / float64(targetH)
	xRatio := float64(m.W) / float64(targetW)

	for y := 0; y < targetH; y++ {
		srcY := (float64(y)+0.5)*yRatio - 0.5
		for x := 0; x < targetW; x++ {
			srcX := (float64(x)+0.5)*xRatio - 0.5
			out.Set(y, x, bicubicAt(m, srcY, srcX))
		}
	}

	return out
}

// bicubicAt evaluates the Catmull-Rom interpolant at fractional coordinates,
// clamping samples at the borders.
func bicubicAt(m *maskops.Mask, y, x float64) float32 {
	y0 := int(math.Floor(y))
	x0 := int(math.Floor(x))
	ty := y - float64(y0)
	tx := x - float64(x0)

	wy := catmullRomWeights(ty)
	wx := catmullRomWeights(tx)

	var sum float64
	for j := -1; j <= 2; j++ {
		row := clampIndex(y0+j, m.H)
		var rowSum float64
		for i := -1; i <= 2; i++ {
			col := clampIndex(x0+i, m.W)
			rowSum += wx[i+1] * float64(m.At(row, col))
		}
		sum += wy[j+1] * rowSum
	}

	return float32(sum)
}

// catmullRomWeights returns the four cubic kernel weights for fractional
// offset t in [0, 1).
func catmullRomWeights(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		0.5 * (-t3 + 2*t2 - t),
		0.5 * (3*t3 - 5*t2 + 2),
		0.5 * (-3*t3 + 4*t2 + t),
		0.5 * (t3 - t2),
	}
}

func normalize(m *maskops.Mask) {
	if len(m.Data) == 0 {
		return
	}

	lo, hi := m.Data[0], m.Data[0]
	for _, v := range m.Data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := hi - lo + 1e-8
	for i, v := range m.Data {
		m.Data[i] = (v - lo) / span
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

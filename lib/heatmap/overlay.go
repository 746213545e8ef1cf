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

package heatmap

import (
	"image"
	"image/color"
	"math"

	"github.com/eltociear/daam/lib/maskops"
)

// Overlay blends a jet-colormapped heat map over img: the hotter a pixel, the
// more the colormap shows through. The heat map must match the image
// dimensions; use Expand first.
func Overlay(img image.Image, heat *maskops.Mask) image.Image {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < heat.H && y < bounds.Dy(); y++ {
		for x := 0; x < heat.W && x < bounds.Dx(); x++ {
			h := clamp01(heat.At(y, x))
			src := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			jr, jg, jb := jet(h)

			out.SetNRGBA(x, y, color.NRGBA{
				R: blend(src.R, jr, h),
				G: blend(src.G, jg, h),
				B: blend(src.B, jb, h),
				A: 255,
			})
		}
	}

	return out
}

// MaskedImage multiplies img by the binarized heat map: pixels at or below
// threshold go black.
func MaskedImage(img image.Image, heat *maskops.Mask, threshold float32) image.Image {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < heat.H && y < bounds.Dy(); y++ {
		for x := 0; x < heat.W && x < bounds.Dx(); x++ {
			if heat.At(y, x) <= threshold {
				out.SetNRGBA(x, y, color.NRGBA{A: 255})
				continue
			}
			src := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			src.A = 255
			out.SetNRGBA(x, y, src)
		}
	}

	return out
}

// jet maps a value in [0, 1] to the classic blue-to-red colormap.
func jet(v float32) (r, g, b uint8) {
	r = channel(1.5 - math.Abs(4*float64(v)-3))
	g = channel(1.5 - math.Abs(4*float64(v)-2))
	b = channel(1.5 - math.Abs(4*float64(v)-1))
	return r, g, b
}

func channel(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}

func blend(base, top uint8, alpha float32) uint8 {
	return uint8(float32(base)*(1-alpha) + float32(top)*alpha)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

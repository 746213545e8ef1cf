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
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// binarizeThreshold is the 8-bit cutoff above which a pixel counts as mask
// foreground.
const binarizeThreshold = 127

// DecodeMask decodes a mask image and binarizes it: pixels whose red channel
// exceeds the half-scale threshold become 1, everything else 0. Mask files
// are written with identical R, G, B, and A channels, so the red channel
// carries the full signal.
func DecodeMask(r io.Reader) (*Mask, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding mask image: %w", err)
	}
	return BinarizeImage(img), nil
}

// BinarizeImage converts an already decoded image into a binary mask.
func BinarizeImage(img image.Image) *Mask {
	bounds := img.Bounds()
	mask := NewMask(bounds.Dy(), bounds.Dx())

	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if c.R > binarizeThreshold {
				mask.Set(y, x, 1)
			}
		}
	}

	return mask
}

// EncodeMask writes mask as a PNG whose pixels carry the mask value scaled to
// 255 on all four channels, matching the alpha-expanded ground-truth mask
// layout.
func EncodeMask(w io.Writer, mask *Mask) error {
	img := image.NewNRGBA(image.Rect(0, 0, mask.W, mask.H))

	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			v := mask.At(y, x)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			b := uint8(v * 255)
			img.SetNRGBA(x, y, color.NRGBA{R: b, G: b, B: b, A: b})
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encoding mask image: %w", err)
	}
	return nil
}

// CompositeIndices returns the distinct pixel values present in a composite
// mask image, in ascending order. Pixel values index an external label
// vocabulary.
func CompositeIndices(img image.Image) []uint8 {
	var seen [256]bool
	bounds := img.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			seen[compositeValue(img, x, y)] = true
		}
	}

	var indices []uint8
	for v, ok := range seen {
		if ok {
			indices = append(indices, uint8(v))
		}
	}
	return indices
}

// MaskFromComposite extracts the binary mask of a single vocabulary index
// from a composite mask image.
func MaskFromComposite(img image.Image, index uint8) *Mask {
	bounds := img.Bounds()
	mask := NewMask(bounds.Dy(), bounds.Dx())

	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if compositeValue(img, bounds.Min.X+x, bounds.Min.Y+y) == index {
				mask.Set(y, x, 1)
			}
		}
	}

	return mask
}

// compositeValue reads the label index stored at a composite image pixel.
// Composite masks are written as 8-bit grayscale; for anything else the red
// channel is used.
func compositeValue(img image.Image, x, y int) uint8 {
	switch im := img.(type) {
	case *image.Gray:
		return im.GrayAt(x, y).Y
	case *image.Paletted:
		return im.ColorIndexAt(x, y)
	default:
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		return c.R
	}
}

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

// Package maskops holds the dense 2-D mask type used for ground-truth and
// predicted segmentation masks, the label-keyed accumulator that merges them,
// and the mask image codecs.
package maskops

import "fmt"

// Mask is a dense row-major 2-D float32 tensor. Values are nominally in
// [0, 1].
type Mask struct {
	H, W int
	Data []float32
}

// NewMask returns a zero-filled h-by-w mask.
func NewMask(h, w int) *Mask {
	return &Mask{H: h, W: w, Data: make([]float32, h*w)}
}

// At returns the value at row y, column x.
func (m *Mask) At(y, x int) float32 {
	return m.Data[y*m.W+x]
}

// Set stores v at row y, column x.
func (m *Mask) Set(y, x int, v float32) {
	m.Data[y*m.W+x] = v
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{H: m.H, W: m.W, Data: make([]float32, len(m.Data))}
	copy(out.Data, m.Data)
	return out
}

// Fill sets every element to v.
func (m *Mask) Fill(v float32) {
	for i := range m.Data {
		m.Data[i] = v
	}
}

// Clamp limits every element to the [lo, hi] range.
func (m *Mask) Clamp(lo, hi float32) {
	for i, v := range m.Data {
		if v < lo {
			m.Data[i] = lo
		} else if v > hi {
			m.Data[i] = hi
		}
	}
}

// Coverage returns the fraction of elements strictly above threshold.
func (m *Mask) Coverage(threshold float32) float64 {
	if len(m.Data) == 0 {
		return 0
	}
	n := 0
	for _, v := range m.Data {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(m.Data))
}

// addClamped adds other element-wise and clamps the result to [0, 1].
func (m *Mask) addClamped(other *Mask) error {
	if m.H != other.H || m.W != other.W {
		return fmt.Errorf("mask shape mismatch: %dx%d vs %dx%d", m.H, m.W, other.H, other.W)
	}
	for i, v := range other.Data {
		sum := m.Data[i] + v
		if sum < 0 {
			sum = 0
		} else if sum > 1 {
			sum = 1
		}
		m.Data[i] = sum
	}
	return nil
}

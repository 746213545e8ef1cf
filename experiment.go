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

// Package daam provides experiment bookkeeping for diffusion-model
// cross-attention heat maps: generation records, their on-disk layout, and a
// memoizing wrapper for prompt parsing.
package daam

import (
	"image"

	"github.com/eltociear/daam/lib/maskops"
)

// GenerationExperiment holds the outputs of one generation run. It is plain
// data; directory I/O lives in Store.
type GenerationExperiment struct {
	ID     string
	Prompt string
	Seed   int64

	// Image is the generated output image.
	Image image.Image

	// GlobalHeatMap is the prompt-wide cross-attention heat map.
	GlobalHeatMap *maskops.Mask

	// TruthMasks and PredictionMasks map lower-cased labels to binary masks.
	TruthMasks      map[string]*maskops.Mask
	PredictionMasks map[string]*maskops.Mask

	// Annotations is a free-form key/value map persisted as JSON.
	Annotations map[string]any
}

// Annotate records a free-form annotation and returns the experiment for
// chaining.
func (e *GenerationExperiment) Annotate(key string, value any) *GenerationExperiment {
	if e.Annotations == nil {
		e.Annotations = make(map[string]any)
	}
	e.Annotations[key] = value
	return e
}

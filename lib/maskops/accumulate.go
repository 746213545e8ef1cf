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
	"strings"
)

// Accumulate inserts mask into masks under label, merging with any mask
// already stored there. Labels are normalized to lower case at every
// insertion point, so the first insert and later merges agree on the key.
//
// With coarsen set, fine-grained COCO-80 labels are remapped onto their
// COCO-Stuff-27 category first; labels outside the table pass through. When
// the (possibly remapped) label already exists, the stored mask becomes the
// element-wise sum of both masks clamped to [0, 1]; otherwise the mask is
// inserted verbatim.
//
// The same map is mutated and returned so call sites can chain accumulation
// across many label/mask pairs.
func Accumulate(masks map[string]*Mask, label string, mask *Mask, coarsen bool) (map[string]*Mask, error) {
	label = strings.ToLower(label)
	if coarsen {
		if coarse, ok := COCO80To27[label]; ok {
			label = coarse
		}
	}

	existing, ok := masks[label]
	if !ok {
		masks[label] = mask
		return masks, nil
	}

	merged := existing.Clone()
	if err := merged.addClamped(mask); err != nil {
		return nil, fmt.Errorf("merging mask for label %q: %w", label, err)
	}
	masks[label] = merged

	return masks, nil
}

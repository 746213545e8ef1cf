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

package daam

import (
	"bytes"
	"testing"

	"github.com/eltociear/daam/lib/maskops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		exp  *GenerationExperiment
	}{
		{
			name: "no heat map",
			exp:  &GenerationExperiment{ID: "empty", Prompt: "a prompt", Seed: 7},
		},
		{
			name: "single row heat map",
			exp: &GenerationExperiment{
				ID:            "row",
				Prompt:        "a cat on a mat",
				Seed:          42,
				GlobalHeatMap: &maskops.Mask{H: 1, W: 3, Data: []float32{0.1, 0.5, 0.9}},
			},
		},
		{
			name: "square heat map with extreme values",
			exp: &GenerationExperiment{
				ID:     "square",
				Prompt: "stormy sea at dawn",
				Seed:   -1,
				GlobalHeatMap: &maskops.Mask{H: 2, W: 2, Data: []float32{
					1e-10, 1e10, -1e-10, 3.14159,
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeRecord(&buf, tt.exp))

			got, err := readRecord(&buf)
			require.NoError(t, err)

			assert.Equal(t, tt.exp.ID, got.ID)
			assert.Equal(t, tt.exp.Prompt, got.Prompt)
			assert.Equal(t, tt.exp.Seed, got.Seed)

			if tt.exp.GlobalHeatMap == nil {
				assert.Nil(t, got.GlobalHeatMap)
			} else {
				require.NotNil(t, got.GlobalHeatMap)
				assert.Equal(t, tt.exp.GlobalHeatMap.H, got.GlobalHeatMap.H)
				assert.Equal(t, tt.exp.GlobalHeatMap.W, got.GlobalHeatMap.W)
				assert.Equal(t, tt.exp.GlobalHeatMap.Data, got.GlobalHeatMap.Data)
			}
		})
	}
}

func TestReadRecordRejectsWrongMagic(t *testing.T) {
	_, err := readRecord(bytes.NewReader([]byte("PKL\x00rest of the file")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a generation record")
}

func TestReadRecordRejectsTruncated(t *testing.T) {
	exp := &GenerationExperiment{
		ID:            "trunc",
		Prompt:        "p",
		Seed:          1,
		GlobalHeatMap: &maskops.Mask{H: 2, W: 2, Data: []float32{1, 2, 3, 4}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecord(&buf, exp))

	_, err := readRecord(bytes.NewReader(buf.Bytes()[:buf.Len()-4]))
	require.Error(t, err)
}

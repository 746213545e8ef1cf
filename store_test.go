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
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/eltociear/daam/lib/maskops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func binaryMask(h, w int, on ...[2]int) *maskops.Mask {
	m := maskops.NewMask(h, w)
	for _, yx := range on {
		m.Set(yx[0], yx[1], 1)
	}
	return m
}

func testExperiment(id string) *GenerationExperiment {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(32 * x), G: uint8(32 * y), B: 64, A: 255})
		}
	}

	heat := maskops.NewMask(4, 4)
	heat.Set(1, 2, 0.8)
	heat.Set(2, 2, 0.3)

	return &GenerationExperiment{
		ID:            id,
		Prompt:        "a cat on a mat",
		Seed:          1234,
		Image:         img,
		GlobalHeatMap: heat,
		TruthMasks: map[string]*maskops.Mask{
			"cat": binaryMask(8, 8, [2]int{1, 1}, [2]int{1, 2}),
			"mat": binaryMask(8, 8, [2]int{7, 0}, [2]int{7, 7}),
		},
		Annotations: map[string]any{"source": "unit-test"},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	exp := testExperiment("round-trip")

	require.NoError(t, store.Save(exp))

	got, err := store.Load("round-trip", LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, exp.ID, got.ID)
	assert.Equal(t, exp.Prompt, got.Prompt)
	assert.Equal(t, exp.Seed, got.Seed)
	require.NotNil(t, got.GlobalHeatMap)
	assert.Equal(t, exp.GlobalHeatMap.Data, got.GlobalHeatMap.Data)
	require.NotNil(t, got.Image)
	assert.Equal(t, exp.Image.Bounds(), got.Image.Bounds())

	// Binary masks survive the PNG round trip exactly.
	require.Len(t, got.TruthMasks, 2)
	assert.Equal(t, exp.TruthMasks["cat"].Data, got.TruthMasks["cat"].Data)
	assert.Equal(t, exp.TruthMasks["mat"].Data, got.TruthMasks["mat"].Data)

	assert.Equal(t, map[string]any{"source": "unit-test"}, got.Annotations)
}

func TestStoreDirectoryLayout(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, zap.NewNop())

	require.NoError(t, store.Save(testExperiment("layout")))

	for _, name := range []string{
		"generation.bin", "output.png", "prompt.txt", "seed.txt",
		"cat.gt.png", "mat.gt.png", "annotations.json",
	} {
		_, err := os.Stat(filepath.Join(root, "layout", name))
		assert.NoError(t, err, "expected %s", name)
	}

	prompt, err := os.ReadFile(filepath.Join(root, "layout", "prompt.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a cat on a mat", string(prompt))

	seed, err := os.ReadFile(filepath.Join(root, "layout", "seed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1234", string(seed))
}

func TestStorePredicates(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	assert.False(t, store.HasExperiment("missing"))
	assert.False(t, store.ContainsTruthMask("missing"))
	assert.False(t, store.HasAnnotations("missing"))

	require.NoError(t, store.Save(testExperiment("present")))

	assert.True(t, store.HasExperiment("present"))
	assert.True(t, store.ContainsTruthMask("present"))
	assert.True(t, store.HasAnnotations("present"))
}

func TestStoreLoadMissingExperiment(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())

	_, err := store.Load("nope", LoadOptions{})
	require.Error(t, err)
}

func TestStorePredictionMasks(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	exp := testExperiment("preds")
	require.NoError(t, store.Save(exp))

	pred := binaryMask(8, 8, [2]int{4, 4})
	require.NoError(t, store.SavePredictionMask("preds", pred, "Cat", "daam"))

	got, err := store.Load("preds", LoadOptions{PredPrefix: "daam"})
	require.NoError(t, err)
	require.Len(t, got.PredictionMasks, 1)
	assert.Equal(t, pred.Data, got.PredictionMasks["cat"].Data)
}

func TestStoreLoadCoarsensTruthMasks(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	exp := testExperiment("coarse")
	exp.TruthMasks = map[string]*maskops.Mask{
		"car": binaryMask(2, 2, [2]int{0, 0}),
		"bus": binaryMask(2, 2, [2]int{1, 1}),
	}
	require.NoError(t, store.Save(exp))

	got, err := store.Load("coarse", LoadOptions{Coarsen: true})
	require.NoError(t, err)

	require.Len(t, got.TruthMasks, 1)
	require.Contains(t, got.TruthMasks, "vehicle")
	assert.Equal(t, []float32{1, 0, 0, 1}, got.TruthMasks["vehicle"].Data)
}

func TestStoreCompositePredictions(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, zap.NewNop())
	exp := testExperiment("composite")
	exp.TruthMasks = nil
	require.NoError(t, store.Save(exp))

	// Composite image: pixel values index the vocabulary.
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 1, 1, 2}
	f, err := os.Create(filepath.Join(root, "composite", "composite.seg.pred.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	got, err := store.Load("composite", LoadOptions{
		PredPrefix: "seg",
		Composite:  true,
		Vocab:      []string{"background", "cat", "mat"},
	})
	require.NoError(t, err)

	require.Len(t, got.PredictionMasks, 3)
	assert.Equal(t, []float32{0, 1, 1, 0}, got.PredictionMasks["cat"].Data)
	assert.Equal(t, []float32{0, 0, 0, 1}, got.PredictionMasks["mat"].Data)
	assert.Equal(t, []float32{1, 0, 0, 0}, got.PredictionMasks["background"].Data)
}

func TestStoreCompositeVocabOutOfRange(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, zap.NewNop())
	exp := testExperiment("oob")
	require.NoError(t, store.Save(exp))

	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Pix = []uint8{5}
	f, err := os.Create(filepath.Join(root, "oob", "composite.seg.pred.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	_, err = store.Load("oob", LoadOptions{
		PredPrefix: "seg",
		Composite:  true,
		Vocab:      []string{"only", "two"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside vocabulary")
}

func TestStoreSaveAnnotationsOnly(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	exp := testExperiment("ann")
	exp.Annotations = nil
	require.NoError(t, store.Save(exp))
	assert.False(t, store.HasAnnotations("ann"))

	exp.Annotate("iou", 0.5).Annotate("checked", true)
	require.NoError(t, store.SaveAnnotations("ann", exp.Annotations))
	assert.True(t, store.HasAnnotations("ann"))

	got, err := store.Load("ann", LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, true, got.Annotations["checked"])
}

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
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eltociear/daam/lib/maskops"
	"go.uber.org/zap"
)

// File names inside an experiment directory.
const (
	recordFile      = "generation.bin"
	outputFile      = "output.png"
	promptFile      = "prompt.txt"
	seedFile        = "seed.txt"
	annotationsFile = "annotations.json"

	truthMaskSuffix = ".gt.png"
	predMaskSuffix  = ".pred.png"
	compositeStem   = "composite"
)

// LoadOptions control how Store.Load reconstructs masks.
type LoadOptions struct {
	// PredPrefix selects which prediction source's masks to load
	// (<label>.<prefix>.pred.png). Empty skips prediction masks.
	PredPrefix string

	// Composite loads predictions from a single composite.<prefix>.pred.png
	// whose pixel values index Vocab instead of per-label files.
	Composite bool

	// Coarsen remaps fine-grained COCO-80 labels onto COCO-Stuff-27
	// categories while accumulating.
	Coarsen bool

	// Vocab is the label vocabulary for composite images. Nil falls back to
	// maskops.UnusedLabels.
	Vocab []string
}

// Store persists generation experiments under <root>/<id>/. The on-disk
// layout is assumed well-formed; malformed records surface as plain I/O
// errors.
type Store struct {
	root   string
	logger *zap.Logger
}

// NewStore returns a store rooted at dir.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{root: dir, logger: logger}
}

// Dir returns the directory holding the experiment with the given id.
func (s *Store) Dir(id string) string {
	return filepath.Join(s.root, id)
}

// Save writes the experiment directory: the generation record, output image,
// prompt and seed text files, one ground-truth mask file per label, and
// annotations.
func (s *Store) Save(exp *GenerationExperiment) error {
	dir := s.Dir(exp.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating experiment dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, recordFile))
	if err != nil {
		return fmt.Errorf("creating generation record: %w", err)
	}
	if err := writeRecord(f, exp); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing generation record: %w", err)
	}

	if exp.Image != nil {
		if err := s.writePNG(filepath.Join(dir, outputFile), exp.Image); err != nil {
			return err
		}
	}

	if err := os.WriteFile(filepath.Join(dir, promptFile), []byte(exp.Prompt), 0o644); err != nil {
		return fmt.Errorf("writing prompt: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, seedFile), []byte(strconv.FormatInt(exp.Seed, 10)), 0o644); err != nil {
		return fmt.Errorf("writing seed: %w", err)
	}

	for label, mask := range exp.TruthMasks {
		name := strings.ToLower(label) + truthMaskSuffix
		if err := s.writeMask(filepath.Join(dir, name), mask); err != nil {
			return err
		}
	}

	if err := s.SaveAnnotations(exp.ID, exp.Annotations); err != nil {
		return err
	}

	recordExperimentSave()
	s.logger.Debug("Saved experiment",
		zap.String("id", exp.ID),
		zap.Int("truth_masks", len(exp.TruthMasks)))
	return nil
}

// SavePredictionMask writes a single predicted mask for the experiment under
// <label>.<prefix>.pred.png.
func (s *Store) SavePredictionMask(id string, mask *maskops.Mask, label, prefix string) error {
	name := fmt.Sprintf("%s.%s%s", strings.ToLower(label), prefix, predMaskSuffix)
	return s.writeMask(filepath.Join(s.Dir(id), name), mask)
}

// SaveAnnotations writes the annotation map, if any, as JSON.
func (s *Store) SaveAnnotations(id string, annotations map[string]any) error {
	if annotations == nil {
		return nil
	}

	data, err := sonic.Marshal(annotations)
	if err != nil {
		return fmt.Errorf("marshaling annotations: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(id), annotationsFile), data, 0o644); err != nil {
		return fmt.Errorf("writing annotations: %w", err)
	}
	return nil
}

// Load reads an experiment back from disk, reconstructing truth and
// prediction masks through the accumulator so per-label and composite
// ingestion produce the same in-memory representation.
func (s *Store) Load(id string, opts LoadOptions) (*GenerationExperiment, error) {
	dir := s.Dir(id)

	f, err := os.Open(filepath.Join(dir, recordFile))
	if err != nil {
		return nil, fmt.Errorf("opening generation record: %w", err)
	}
	exp, err := readRecord(f)
	_ = f.Close()
	if err != nil {
		return nil, err
	}

	if img, err := s.readPNG(filepath.Join(dir, outputFile)); err == nil {
		exp.Image = img
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	exp.TruthMasks, err = s.loadTruthMasks(dir, opts.Coarsen)
	if err != nil {
		return nil, err
	}

	if opts.PredPrefix != "" {
		exp.PredictionMasks, err = s.loadPredMasks(dir, opts)
		if err != nil {
			return nil, err
		}
	}

	exp.Annotations, err = s.loadAnnotations(dir)
	if err != nil {
		return nil, err
	}

	recordExperimentLoad()
	s.logger.Debug("Loaded experiment",
		zap.String("id", id),
		zap.Int("truth_masks", len(exp.TruthMasks)),
		zap.Int("prediction_masks", len(exp.PredictionMasks)))
	return exp, nil
}

// loadTruthMasks reads every <label>.gt.png in dir through the accumulator.
func (s *Store) loadTruthMasks(dir string, coarsen bool) (map[string]*maskops.Mask, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+truthMaskSuffix))
	if err != nil {
		return nil, fmt.Errorf("globbing truth masks: %w", err)
	}

	masks := make(map[string]*maskops.Mask)
	for _, p := range paths {
		label := strings.TrimSuffix(filepath.Base(p), truthMaskSuffix)
		mask, err := s.readMask(p)
		if err != nil {
			return nil, err
		}
		if masks, err = maskops.Accumulate(masks, label, mask, coarsen); err != nil {
			return nil, err
		}
		recordMaskMerge("truth")
	}
	return masks, nil
}

// loadPredMasks reads prediction masks either from per-label files or from a
// composite label-indexed image.
func (s *Store) loadPredMasks(dir string, opts LoadOptions) (map[string]*maskops.Mask, error) {
	masks := make(map[string]*maskops.Mask)

	if opts.Composite {
		name := fmt.Sprintf("%s.%s%s", compositeStem, opts.PredPrefix, predMaskSuffix)
		img, err := s.readImage(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		vocab := opts.Vocab
		if vocab == nil {
			vocab = maskops.UnusedLabels
		}

		for _, idx := range maskops.CompositeIndices(img) {
			if int(idx) >= len(vocab) {
				return nil, fmt.Errorf("composite index %d outside vocabulary of %d labels", idx, len(vocab))
			}
			mask := maskops.MaskFromComposite(img, idx)
			if masks, err = maskops.Accumulate(masks, vocab[idx], mask, opts.Coarsen); err != nil {
				return nil, err
			}
			recordMaskMerge("composite")
		}
		return masks, nil
	}

	suffix := fmt.Sprintf(".%s%s", opts.PredPrefix, predMaskSuffix)
	paths, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("globbing prediction masks: %w", err)
	}

	for _, p := range paths {
		base := filepath.Base(p)
		if strings.HasPrefix(base, compositeStem+".") {
			continue
		}
		label := strings.TrimSuffix(base, suffix)
		mask, err := s.readMask(p)
		if err != nil {
			return nil, err
		}
		if masks, err = maskops.Accumulate(masks, label, mask, opts.Coarsen); err != nil {
			return nil, err
		}
		recordMaskMerge("prediction")
	}
	return masks, nil
}

// loadAnnotations reads annotations.json if present.
func (s *Store) loadAnnotations(dir string) (map[string]any, error) {
	data, err := os.ReadFile(filepath.Join(dir, annotationsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading annotations: %w", err)
	}

	var annotations map[string]any
	if err := sonic.Unmarshal(data, &annotations); err != nil {
		return nil, fmt.Errorf("unmarshaling annotations: %w", err)
	}
	return annotations, nil
}

// HasExperiment reports whether a generation record exists for id.
func (s *Store) HasExperiment(id string) bool {
	_, err := os.Stat(filepath.Join(s.Dir(id), recordFile))
	return err == nil
}

// ContainsTruthMask reports whether any ground-truth mask file exists for id.
// An empty id checks the store root itself.
func (s *Store) ContainsTruthMask(id string) bool {
	dir := s.root
	if id != "" {
		dir = s.Dir(id)
	}
	paths, err := filepath.Glob(filepath.Join(dir, "*"+truthMaskSuffix))
	return err == nil && len(paths) > 0
}

// HasAnnotations reports whether annotations were saved for id.
func (s *Store) HasAnnotations(id string) bool {
	_, err := os.Stat(filepath.Join(s.Dir(id), annotationsFile))
	return err == nil
}

func (s *Store) writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func (s *Store) readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *Store) readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (s *Store) writeMask(path string, mask *maskops.Mask) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := maskops.EncodeMask(f, mask); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) readMask(path string) (*maskops.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()
	return maskops.DecodeMask(f)
}

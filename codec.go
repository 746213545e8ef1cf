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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/eltociear/daam/lib/maskops"
)

// generation.bin container: magic, format version, JSON metadata block,
// then the raw float32 heat map. All integers little-endian.
var recordMagic = [4]byte{'D', 'A', 'A', 'M'}

const recordVersion uint16 = 1

// recordMeta is the JSON metadata block of a generation record.
type recordMeta struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
	Seed   int64  `json:"seed"`
}

// writeRecord serializes the experiment's metadata and global heat map.
func writeRecord(w io.Writer, exp *GenerationExperiment) error {
	if _, err := w.Write(recordMagic[:]); err != nil {
		return fmt.Errorf("writing record magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, recordVersion); err != nil {
		return fmt.Errorf("writing record version: %w", err)
	}

	meta, err := sonic.Marshal(recordMeta{ID: exp.ID, Prompt: exp.Prompt, Seed: exp.Seed})
	if err != nil {
		return fmt.Errorf("marshaling record metadata: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(meta))); err != nil {
		return fmt.Errorf("writing metadata length: %w", err)
	}
	if _, err := w.Write(meta); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}

	return writeHeatMap(w, exp.GlobalHeatMap)
}

// readRecord deserializes a generation record into a bare experiment (no
// image or masks; those live in sibling files).
func readRecord(r io.Reader) (*GenerationExperiment, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("reading record magic: %w", err)
	}
	if magic != recordMagic {
		return nil, fmt.Errorf("not a generation record (magic %q)", magic[:])
	}

	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading record version: %w", err)
	}
	if version != recordVersion {
		return nil, fmt.Errorf("unsupported record version %d", version)
	}

	var metaLen uint32
	if err := binary.Read(r, binary.LittleEndian, &metaLen); err != nil {
		return nil, fmt.Errorf("reading metadata length: %w", err)
	}
	metaBuf := make([]byte, metaLen)
	if _, err := io.ReadFull(r, metaBuf); err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta recordMeta
	if err := sonic.Unmarshal(metaBuf, &meta); err != nil {
		return nil, fmt.Errorf("unmarshaling record metadata: %w", err)
	}

	heatMap, err := readHeatMap(r)
	if err != nil {
		return nil, err
	}

	return &GenerationExperiment{
		ID:            meta.ID,
		Prompt:        meta.Prompt,
		Seed:          meta.Seed,
		GlobalHeatMap: heatMap,
	}, nil
}

// writeHeatMap serializes a heat map as dimensions plus raw float32 data. A
// nil map is stored as 0x0.
func writeHeatMap(w io.Writer, m *maskops.Mask) error {
	var h, wid uint32
	if m != nil {
		h, wid = uint32(m.H), uint32(m.W)
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("writing heat map height: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, wid); err != nil {
		return fmt.Errorf("writing heat map width: %w", err)
	}
	if m == nil || len(m.Data) == 0 {
		return nil
	}
	if err := binary.Write(w, binary.LittleEndian, m.Data); err != nil {
		return fmt.Errorf("writing heat map data: %w", err)
	}
	return nil
}

// readHeatMap deserializes a heat map written by writeHeatMap. A stored 0x0
// map comes back nil.
func readHeatMap(r io.Reader) (*maskops.Mask, error) {
	var h, w uint32
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading heat map height: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &w); err != nil {
		return nil, fmt.Errorf("reading heat map width: %w", err)
	}
	if h == 0 || w == 0 {
		return nil, nil
	}

	m := maskops.NewMask(int(h), int(w))
	if err := binary.Read(r, binary.LittleEndian, m.Data); err != nil {
		return nil, fmt.Errorf("reading heat map data: %w", err)
	}
	return m, nil
}

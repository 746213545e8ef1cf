// Copyright 2025 the DAAM authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"sort"
	"strings"

	daam "github.com/eltociear/daam"
	"github.com/eltociear/daam/lib/maskops"
	"github.com/eltociear/daam/lib/tokenizer"
	"github.com/spf13/cobra"
)

var inspectPredPrefix string

var inspectCmd = &cobra.Command{
	Use:   "inspect <experiment-id>",
	Short: "Summarize a stored experiment",
	Long: `Print the prompt, seed, heat map shape, mask labels, and annotation keys
of a stored experiment.

Examples:
  # Summarize one experiment
  daam inspect cat-on-mat-01

  # Include prediction masks from the "daam" source
  daam inspect cat-on-mat-01 --pred-prefix daam`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectPredPrefix, "pred-prefix", "", "prediction source prefix to load")
}

func runInspect(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	store := newStore(logger)
	id := args[0]

	if !store.HasExperiment(id) {
		return fmt.Errorf("no experiment %q under %s", id, store.Dir(""))
	}

	exp, err := store.Load(id, daam.LoadOptions{PredPrefix: inspectPredPrefix})
	if err != nil {
		return err
	}

	fmt.Printf("id:      %s\n", exp.ID)
	fmt.Printf("prompt:  %s\n", exp.Prompt)
	fmt.Printf("seed:    %d\n", exp.Seed)

	if tk, err := tokenizer.NewBPETokenizer(""); err == nil {
		fmt.Printf("tokens:  %d\n", tk.CountTokens(exp.Prompt))
	}

	if exp.GlobalHeatMap != nil {
		fmt.Printf("heatmap: %dx%d\n", exp.GlobalHeatMap.H, exp.GlobalHeatMap.W)
	}
	if exp.Image != nil {
		b := exp.Image.Bounds()
		fmt.Printf("image:   %dx%d\n", b.Dx(), b.Dy())
	}

	fmt.Printf("truth masks:      %s\n", labelList(exp.TruthMasks))
	if inspectPredPrefix != "" {
		fmt.Printf("prediction masks: %s\n", labelList(exp.PredictionMasks))
	}

	if len(exp.Annotations) > 0 {
		keys := make([]string, 0, len(exp.Annotations))
		for k := range exp.Annotations {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("annotations:      %v\n", keys)
	}

	return nil
}

// labelList renders the sorted mask labels, or "(none)".
func labelList(masks map[string]*maskops.Mask) string {
	if len(masks) == 0 {
		return "(none)"
	}
	labels := make([]string, 0, len(masks))
	for label := range masks {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return strings.Join(labels, ", ")
}

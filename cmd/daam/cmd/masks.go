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

	daam "github.com/eltociear/daam"
	"github.com/eltociear/daam/lib/maskops"
	"github.com/spf13/cobra"
)

var (
	masksCoarsen    bool
	masksComposite  bool
	masksPredPrefix string
)

var masksCmd = &cobra.Command{
	Use:   "masks <experiment-id>",
	Short: "Per-label mask coverage report",
	Long: `Load an experiment's masks through the accumulator and print the fraction
of covered pixels per label.

Examples:
  # Ground-truth coverage
  daam masks cat-on-mat-01

  # Coarsen COCO-80 labels onto COCO-Stuff-27 categories
  daam masks cat-on-mat-01 --coarsen

  # Predictions decoded from a composite label-indexed image
  daam masks cat-on-mat-01 --pred-prefix daam --composite`,
	Args: cobra.ExactArgs(1),
	RunE: runMasks,
}

func init() {
	rootCmd.AddCommand(masksCmd)

	masksCmd.Flags().BoolVar(&masksCoarsen, "coarsen", false, "remap COCO-80 labels onto COCO-Stuff-27 categories")
	masksCmd.Flags().BoolVar(&masksComposite, "composite", false, "read predictions from a composite label-indexed image")
	masksCmd.Flags().StringVar(&masksPredPrefix, "pred-prefix", "", "prediction source prefix to load")
}

func runMasks(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	store := newStore(logger)
	exp, err := store.Load(args[0], daam.LoadOptions{
		PredPrefix: masksPredPrefix,
		Composite:  masksComposite,
		Coarsen:    masksCoarsen,
	})
	if err != nil {
		return err
	}

	printCoverage("truth", exp.TruthMasks)
	if masksPredPrefix != "" {
		printCoverage(masksPredPrefix, exp.PredictionMasks)
	}
	return nil
}

func printCoverage(source string, masks map[string]*maskops.Mask) {
	labels := make([]string, 0, len(masks))
	for label := range masks {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fmt.Printf("%s\t%s\t%.4f\n", source, label, masks[label].Coverage(0.5))
	}
}

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

	daam "github.com/eltociear/daam"
	"github.com/spf13/cobra"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <experiment-id> <key> <value>",
	Short: "Set a free-form annotation on a stored experiment",
	Args:  cobra.ExactArgs(3),
	RunE:  runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	store := newStore(logger)
	id, key, value := args[0], args[1], args[2]

	if !store.HasExperiment(id) {
		return fmt.Errorf("no experiment %q under %s", id, store.Dir(""))
	}

	exp, err := store.Load(id, daam.LoadOptions{})
	if err != nil {
		return err
	}

	exp.Annotate(key, value)
	return store.SaveAnnotations(id, exp.Annotations)
}

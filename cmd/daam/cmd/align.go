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

	"github.com/eltociear/daam/lib/tokenalign"
	"github.com/spf13/cobra"
)

var (
	alignPrompt    string
	alignWord      string
	alignWordIndex int
	alignTokens    []string
)

var alignCmd = &cobra.Command{
	Use:   "align --prompt <prompt> --word <word> --tokens <t1,t2,...>",
	Short: "Map a prompt word to its sub-word token positions",
	Long: `Resolve which token positions of a tokenized prompt reconstruct a word.
Token positions are offset by one for the prepended special token, matching
how cross-attention maps are indexed.

Tokens are passed as the tokenizer emitted them, with ` + tokenalign.EndOfWordMarker + `
marking the final piece of each word.

Examples:
  daam align --prompt "a cat on a mat" --word cat \
    --tokens "a</w>,cat</w>,on</w>,a</w>,mat</w>"

  # Disambiguate a repeated word by its position in the prompt
  daam align --prompt "a cat and a cat" --word cat --word-index 4 \
    --tokens "a</w>,cat</w>,and</w>,a</w>,cat</w>"`,
	RunE: runAlign,
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVar(&alignPrompt, "prompt", "", "generation prompt")
	alignCmd.Flags().StringVar(&alignWord, "word", "", "word to locate")
	alignCmd.Flags().IntVar(&alignWordIndex, "word-index", tokenalign.AutoWordIndex, "0-based word position in the prompt (default: search)")
	alignCmd.Flags().StringSliceVar(&alignTokens, "tokens", nil, "tokenized prompt, comma separated")
	_ = alignCmd.MarkFlagRequired("prompt")
	_ = alignCmd.MarkFlagRequired("word")
	_ = alignCmd.MarkFlagRequired("tokens")
}

func runAlign(cmd *cobra.Command, args []string) error {
	indices, err := tokenalign.MergeIndices(alignTokens, alignPrompt, alignWord, alignWordIndex)
	if err != nil {
		return err
	}

	fmt.Println(indices)
	return nil
}

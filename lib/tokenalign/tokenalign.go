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

// Package tokenalign maps prompt words to the sub-word token positions a
// tokenizer produced for them, so word-level prompt semantics can be aligned
// with token-level cross-attention maps.
package tokenalign

import (
	"fmt"
	"strings"
)

// EndOfWordMarker is the suffix CLIP-style BPE tokenizers attach to the final
// sub-word token of each word.
const EndOfWordMarker = "</w>"

// AutoWordIndex asks MergeIndices to locate the word in the prompt itself.
const AutoWordIndex = -1

// trailingPuncts are tried in order when the bare word is not found among the
// whitespace-split prompt words.
var trailingPuncts = []string{".", ",", "!", "?"}

// WordNotFoundError reports that a word could not be located in the prompt,
// with or without trailing punctuation.
type WordNotFoundError struct {
	Word   string
	Prompt string
}

func (e *WordNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find %q in %q", e.Word, e.Prompt)
}

// AlignmentError reports that the token stream was exhausted without
// reconstructing the target word at the expected position. This surfaces what
// used to be a silent partial result.
type AlignmentError struct {
	Word      string
	WordIndex int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("token stream exhausted without matching %q at word index %d", e.Word, e.WordIndex)
}

// MergeIndices returns the positions of the sub-word tokens that reconstruct
// word, in token order. Positions are offset by one to account for the
// beginning-of-sequence token the tokenizer prepends.
//
// tokens is the tokenizer's output for the lower-cased prompt, each token
// optionally carrying EndOfWordMarker. wordIndex is the 0-based position of
// the target word among the whitespace-split prompt words; pass AutoWordIndex
// to derive it from the prompt, retrying with trailing punctuation from
// {'.', ',', '!', '?'} when the bare word is absent.
func MergeIndices(tokens []string, prompt, word string, wordIndex int) ([]int, error) {
	prompt = strings.ToLower(prompt)
	word = strings.ToLower(word)

	if wordIndex < 0 {
		idx, err := findWordIndex(prompt, word)
		if err != nil {
			return nil, err
		}
		wordIndex = idx
	}

	var (
		current  strings.Builder
		currIdx  int
		mergeBuf []int
	)

	for idx, token := range tokens {
		piece, endOfWord := strings.CutSuffix(token, EndOfWordMarker)
		current.WriteString(piece)
		mergeBuf = append(mergeBuf, idx)

		if !endOfWord {
			continue
		}

		if currIdx == wordIndex && current.String() == word {
			merged := make([]int, len(mergeBuf))
			for i, x := range mergeBuf {
				merged[i] = x + 1 // Account for the prepended special token.
			}
			return merged, nil
		}

		current.Reset()
		currIdx++
		mergeBuf = mergeBuf[:0]
	}

	return nil, &AlignmentError{Word: word, WordIndex: wordIndex}
}

// findWordIndex locates word among the whitespace-split prompt words, first
// verbatim and then with each trailing punctuation mark appended.
func findWordIndex(prompt, word string) (int, error) {
	words := strings.Fields(prompt)

	for i, w := range words {
		if w == word {
			return i, nil
		}
	}

	for _, punct := range trailingPuncts {
		for i, w := range words {
			if w == word+punct {
				return i, nil
			}
		}
	}

	return 0, &WordNotFoundError{Word: word, Prompt: prompt}
}

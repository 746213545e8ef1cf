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

package tokenalign

import (
	"fmt"
	"strings"

	"github.com/sugarme/tokenizer"
)

// wordPieceContinuation marks non-initial sub-word pieces in WordPiece
// tokenizations.
const wordPieceContinuation = "##"

// Tokens encodes the lower-cased prompt with tk and rewrites the resulting
// token stream into the end-of-word marker convention MergeIndices consumes:
// the final piece of every word carries EndOfWordMarker, and WordPiece
// continuation prefixes are stripped.
//
// Special tokens are excluded; MergeIndices applies the +1 offset for the
// prepended special token itself.
func Tokens(tk *tokenizer.Tokenizer, prompt string) ([]string, error) {
	enc, err := tk.EncodeSingle(strings.ToLower(prompt))
	if err != nil {
		return nil, fmt.Errorf("encoding prompt: %w", err)
	}

	return markEndOfWords(enc.Tokens), nil
}

// markEndOfWords converts WordPiece-style continuation tokens into the
// </w>-suffixed convention: a token ends a word when the following token does
// not continue it.
func markEndOfWords(raw []string) []string {
	marked := make([]string, 0, len(raw))

	for i, tok := range raw {
		piece := strings.TrimPrefix(tok, wordPieceContinuation)
		last := i == len(raw)-1 || !strings.HasPrefix(raw[i+1], wordPieceContinuation)
		if last {
			piece += EndOfWordMarker
		}
		marked = append(marked, piece)
	}

	return marked
}

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
	"context"
	"encoding/binary"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultParseCacheEntries bounds the parse memo table; least-recently-used
// entries are evicted beyond it.
const DefaultParseCacheEntries = 100000

// ParsedWord is one word of a parsed prompt.
type ParsedWord struct {
	Text  string
	Lemma string
	POS   string
}

// ParsedPrompt is the parser's analysis of a prompt.
type ParsedPrompt struct {
	Words []ParsedWord
}

// Parser analyzes natural-language prompts. Implementations wrap an external
// NLP model; parsing the same prompt must be deterministic.
type Parser interface {
	// Parse analyzes text.
	Parse(ctx context.Context, text string) (*ParsedPrompt, error)
	// Model identifies the parser model, keying cached results.
	Model() string
}

// CachedParser memoizes a Parser keyed by the exact prompt string and the
// parser's model name. Construction and teardown are explicit; there is no
// lazily initialized process-wide parser.
type CachedParser struct {
	parser Parser
	cache  *ttlcache.Cache[string, *ParsedPrompt]
	sf     *singleflight.Group
	logger *zap.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedParser wraps parser with an LRU memo table of at most maxEntries
// parses (DefaultParseCacheEntries when 0). Entries never expire by age.
func NewCachedParser(parser Parser, maxEntries uint64, logger *zap.Logger) *CachedParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxEntries == 0 {
		maxEntries = DefaultParseCacheEntries
	}

	cache := ttlcache.New(
		ttlcache.WithTTL[string, *ParsedPrompt](ttlcache.NoTTL),
		ttlcache.WithCapacity[string, *ParsedPrompt](maxEntries),
	)
	go cache.Start()

	return &CachedParser{
		parser: parser,
		cache:  cache,
		sf:     &singleflight.Group{},
		logger: logger,
	}
}

// Parse returns the memoized analysis of prompt, invoking the wrapped parser
// on a miss. Concurrent identical requests are coalesced.
func (c *CachedParser) Parse(ctx context.Context, prompt string) (*ParsedPrompt, error) {
	key := c.cacheKey(prompt)

	if item := c.cache.Get(key); item != nil {
		c.hits.Add(1)
		recordParseCacheHit()
		return item.Value(), nil
	}

	result, err, _ := c.sf.Do(key, func() (any, error) {
		c.misses.Add(1)
		recordParseCacheMiss()

		parsed, err := c.parser.Parse(ctx, prompt)
		if err != nil {
			return nil, err
		}

		c.cache.Set(key, parsed, ttlcache.DefaultTTL)
		c.logger.Debug("Prompt parsed and cached",
			zap.String("model", c.parser.Model()),
			zap.Int("words", len(parsed.Words)))
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ParsedPrompt), nil
}

// Model returns the wrapped parser's model name.
func (c *CachedParser) Model() string {
	return c.parser.Model()
}

// cacheKey derives the memo key from the parser model and the exact prompt.
func (c *CachedParser) cacheKey(prompt string) string {
	h := xxhash.New()
	_, _ = h.WriteString(c.parser.Model())
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(prompt)

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], h.Sum64())
	return string(buf[:])
}

// Stats returns hit/miss counts and the current memo table size.
func (c *CachedParser) Stats() map[string]any {
	return map[string]any{
		"hits":   c.hits.Load(),
		"misses": c.misses.Load(),
		"items":  c.cache.Len(),
	}
}

// Close stops the memo table's janitor.
func (c *CachedParser) Close() {
	c.cache.Stop()
}

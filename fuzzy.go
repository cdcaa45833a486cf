package geobases

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultTokenCacheSize bounds the memo of normalized candidate values.
const DefaultTokenCacheSize = 1 << 16

// FuzzyMatch is the best key for a query together with its score.
type FuzzyMatch struct {
	Key   string
	Score float64
}

// fuzzyKey identifies a query: its normalized tokens joined by a space,
// and the field it was matched against.
type fuzzyKey struct {
	query string
	field string
}

type fieldRef struct {
	key   string
	field string
}

// FuzzyCache resolves free-text queries to the dataset key whose field
// value is most similar. Results are memoized per (normalized query, field)
// until Clear; bias entries set with SetBias take precedence over both the
// memo and live computation.
//
// A FuzzyCache is not safe for concurrent use: Get writes to the memo.
type FuzzyCache struct {
	data       Dataset
	normalizer *Normalizer
	scorer     *Scorer
	logger     *zap.Logger

	memo   map[fuzzyKey]FuzzyMatch
	bias   map[fuzzyKey]FuzzyMatch
	tokens *lru.Cache[fieldRef, []string]

	tokenCacheSize int
}

// FuzzyOption configures a FuzzyCache.
type FuzzyOption func(*FuzzyCache)

// FuzzyWithNormalizer sets the normalizer used for queries and values.
func FuzzyWithNormalizer(n *Normalizer) FuzzyOption {
	return func(fc *FuzzyCache) {
		fc.normalizer = n
	}
}

// FuzzyWithScorer sets the similarity scorer.
func FuzzyWithScorer(s *Scorer) FuzzyOption {
	return func(fc *FuzzyCache) {
		fc.scorer = s
	}
}

// FuzzyWithLogger sets the logger. Bias hits are logged at debug level.
func FuzzyWithLogger(l *zap.Logger) FuzzyOption {
	return func(fc *FuzzyCache) {
		fc.logger = l
	}
}

// FuzzyWithTokenCacheSize bounds the normalized-value memo.
func FuzzyWithTokenCacheSize(size int) FuzzyOption {
	return func(fc *FuzzyCache) {
		fc.tokenCacheSize = size
	}
}

// NewFuzzyCache returns an empty cache over data.
func NewFuzzyCache(data Dataset, opts ...FuzzyOption) (*FuzzyCache, error) {
	fc := &FuzzyCache{
		data:           data,
		memo:           make(map[fuzzyKey]FuzzyMatch),
		bias:           make(map[fuzzyKey]FuzzyMatch),
		tokenCacheSize: DefaultTokenCacheSize,
	}
	for _, opt := range opts {
		opt(fc)
	}
	if fc.normalizer == nil {
		fc.normalizer = NewNormalizer()
	}
	if fc.scorer == nil {
		fc.scorer = NewScorer()
	}
	if fc.logger == nil {
		fc.logger = zap.NewNop()
	}

	tokens, err := lru.New[fieldRef, []string](fc.tokenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating token cache: %w", err)
	}
	fc.tokens = tokens
	return fc, nil
}

func (fc *FuzzyCache) key(query, field string) (fuzzyKey, []string) {
	tokens := fc.normalizer.Normalize(query)
	return fuzzyKey{query: strings.Join(tokens, " "), field: field}, tokens
}

// Get returns the key whose field value best matches query. Ties go to the
// key seen first in dataset order. ok is false only when no key carries
// field and no bias entry applies.
func (fc *FuzzyCache) Get(query, field string) (FuzzyMatch, bool) {
	k, tokens := fc.key(query, field)

	if m, ok := fc.bias[k]; ok {
		fc.logger.Debug("fuzzy bias applied",
			zap.String("query", query),
			zap.String("normalized", k.query),
			zap.String("field", field),
			zap.String("key", m.Key),
			zap.Float64("score", m.Score))
		return m, true
	}
	if m, ok := fc.memo[k]; ok {
		return m, true
	}

	var (
		best  FuzzyMatch
		found bool
	)
	for key := range fc.data.Keys() {
		candidate, ok := fc.fieldTokens(key, field)
		if !ok {
			continue
		}
		score := fc.scorer.Ratio(tokens, candidate)
		if !found || score > best.Score {
			best = FuzzyMatch{Key: key, Score: score}
			found = true
		}
	}
	if !found {
		return FuzzyMatch{}, false
	}

	fc.memo[k] = best
	return best, true
}

// Find ranks every key by similarity of its field value to query and
// returns at most limit matches scoring at least minScore, best first.
// A limit <= 0 returns all of them. Find does not use or fill the memo.
func (fc *FuzzyCache) Find(query, field string, limit int, minScore float64) []FuzzyMatch {
	_, tokens := fc.key(query, field)

	var matches []FuzzyMatch
	for key := range fc.data.Keys() {
		candidate, ok := fc.fieldTokens(key, field)
		if !ok {
			continue
		}
		if score := fc.scorer.Ratio(tokens, candidate); score >= minScore {
			matches = append(matches, FuzzyMatch{Key: key, Score: score})
		}
	}
	slices.SortStableFunc(matches, func(a, b FuzzyMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SetBias forces Get(query, field) to return (key, score). query is
// normalized, so any spelling normalizing to the same tokens is covered.
func (fc *FuzzyCache) SetBias(query, field, key string, score float64) {
	k, _ := fc.key(query, field)
	fc.bias[k] = FuzzyMatch{Key: key, Score: score}
}

// DeleteBias removes a bias entry set with SetBias.
func (fc *FuzzyCache) DeleteBias(query, field string) {
	k, _ := fc.key(query, field)
	delete(fc.bias, k)
}

// Clear drops every memoized result. Bias entries are kept.
func (fc *FuzzyCache) Clear() {
	clear(fc.memo)
	fc.tokens.Purge()
}

// Len returns the number of memoized results.
func (fc *FuzzyCache) Len() int { return len(fc.memo) }

func (fc *FuzzyCache) fieldTokens(key, field string) ([]string, bool) {
	ref := fieldRef{key: key, field: field}
	if tokens, ok := fc.tokens.Get(ref); ok {
		return tokens, true
	}
	value, ok := fc.data.Get(key, field)
	if !ok {
		return nil, false
	}
	tokens := fc.normalizer.Normalize(value)
	fc.tokens.Add(ref, tokens)
	return tokens, true
}

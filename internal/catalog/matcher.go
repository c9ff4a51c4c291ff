package catalog

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/agext/levenshtein"
)

// Matcher corrects a raw label against a reference catalog. Implementations
// return ok=false when no candidate scores above their threshold.
type Matcher interface {
	BestMatch(raw string) (corrected string, score float64, ok bool)
}

// LevenshteinMatcher matches raw site/customer names against a master list
// using token-sorted Levenshtein similarity. Previously accepted matches are
// cached so the same raw name always resolves the same way.
type LevenshteinMatcher struct {
	names     []string
	threshold float64
	logger    *slog.Logger

	mu          sync.Mutex
	corrections map[string]string
	cache       *CorrectionsCache // optional persistence, may be nil
}

// NewLevenshteinMatcher builds a matcher over the given catalog names.
// threshold is the minimum similarity in [0,1] for a match to be accepted.
func NewLevenshteinMatcher(names []string, threshold float64, cache *CorrectionsCache, logger *slog.Logger) *LevenshteinMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	corrections := make(map[string]string)
	if cache != nil {
		corrections = cache.Entries()
	}
	return &LevenshteinMatcher{
		names:       names,
		threshold:   threshold,
		logger:      logger,
		corrections: corrections,
		cache:       cache,
	}
}

// BestMatch returns the best catalog candidate for raw and its similarity
// score. A hit above the threshold is remembered for future lookups.
func (m *LevenshteinMatcher) BestMatch(raw string) (string, float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if corrected, ok := m.corrections[raw]; ok {
		return corrected, 1.0, true
	}

	best, bestScore := "", 0.0
	key := tokenSortKey(raw)
	for _, name := range m.names {
		score := levenshtein.Similarity(key, tokenSortKey(name), nil)
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if best == "" || bestScore < m.threshold {
		return "", bestScore, false
	}

	m.corrections[raw] = best
	if m.cache != nil {
		if err := m.cache.Put(raw, best); err != nil {
			m.logger.Warn("catalog.corrections.save_failed", "raw", raw, "error", err)
		}
	}
	return best, bestScore, true
}

// tokenSortKey lowercases and sorts tokens so word order does not affect
// the similarity score.
func tokenSortKey(s string) string {
	tokens := strings.Fields(strings.ToLower(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

package geobases

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Kernel is the string metric a Scorer applies to joined token lists.
type Kernel int

const (
	// KernelIndel scores (l - d) / l where l is the combined length and d the
	// edit distance with insertions and deletions costing 1 and
	// substitutions 2. "antibes" against "antibs" scores 12/13.
	KernelIndel Kernel = iota
	// KernelLevenshtein scores 1 - d / max(len) with unit-cost edits.
	KernelLevenshtein
	// KernelJaroWinkler uses the Jaro-Winkler similarity.
	KernelJaroWinkler
)

// DefaultSubListScore is the score given when one token list is a strict
// contiguous sub-list of the other. It stays below 1 so that a genuine
// perfect match elsewhere still wins.
const DefaultSubListScore = 0.90

// Scorer computes similarity ratios between normalized token lists.
type Scorer struct {
	kernel       Kernel
	subList      bool
	subListScore float64
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithKernel selects the string metric.
func WithKernel(k Kernel) ScorerOption {
	return func(s *Scorer) {
		s.kernel = k
	}
}

// WithSubListScore sets the score granted to sub-list matches.
func WithSubListScore(score float64) ScorerOption {
	return func(s *Scorer) {
		s.subListScore = score
	}
}

// WithoutSubListHeuristic disables the sub-list bonus.
func WithoutSubListHeuristic() ScorerOption {
	return func(s *Scorer) {
		s.subList = false
	}
}

// NewScorer returns an indel-ratio scorer with the sub-list heuristic on.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		kernel:       KernelIndel,
		subList:      true,
		subListScore: DefaultSubListScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ratio returns the similarity of a and b in [0, 1]. An empty list never
// matches anything.
func (s *Scorer) Ratio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	r := s.kernelRatio(strings.Join(a, " "), strings.Join(b, " "))
	if r == 1 {
		return r
	}
	if s.subList && (isSubList(a, b) || isSubList(b, a)) {
		return s.subListScore
	}
	return r
}

func (s *Scorer) kernelRatio(a, b string) float64 {
	switch s.kernel {
	case KernelLevenshtein:
		longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
		if longest == 0 {
			return 0
		}
		d := levenshtein.ComputeDistance(a, b)
		return 1 - float64(d)/float64(longest)
	case KernelJaroWinkler:
		return smetrics.JaroWinkler(a, b, 0.7, 4)
	default:
		// WagnerFischer works on bytes, so lengths are byte lengths too.
		total := len(a) + len(b)
		if total == 0 {
			return 0
		}
		d := smetrics.WagnerFischer(a, b, 1, 1, 2)
		return float64(total-d) / float64(total)
	}
}

// isSubList reports whether short appears as a contiguous run inside long
// and is strictly shorter than it.
func isSubList(short, long []string) bool {
	if len(short) >= len(long) {
		return false
	}
	for i := 0; i+len(short) <= len(long); i++ {
		match := true
		for j := range short {
			if long[i+j] != short[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

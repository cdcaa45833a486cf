package geobases

import (
	"math"
	"testing"
)

func words(s ...string) []string { return s }

func TestRatio(t *testing.T) {
	s := NewScorer()
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", words("lyon", "part", "dieu"), words("lyon", "part", "dieu"), 1},
		{"empty query", nil, words("lyon"), 0},
		{"empty candidate", words("lyon"), nil, 0},
		{"one deletion", words("antibes"), words("antibs"), 12.0 / 13},
		{"query inside candidate", words("lyon", "part", "dieu"), words("lyon", "part", "dieu", "tgv"), DefaultSubListScore},
		{"candidate inside query", words("aeroport", "cdg", "tgv"), words("cdg"), DefaultSubListScore},
		{"not contiguous", words("a", "c"), words("a", "b", "c"), 0.75},
		{"disjoint", words("abc"), words("xyz"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Ratio(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if back := s.Ratio(tt.b, tt.a); back != got {
				t.Errorf("Ratio not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestRatioSubListOptions(t *testing.T) {
	short := words("lyon", "part", "dieu")
	long := words("lyon", "part", "dieu", "tgv")

	if got := NewScorer(WithoutSubListHeuristic()).Ratio(short, long); math.Abs(got-0.875) > 1e-9 {
		t.Errorf("without heuristic = %v, want 0.875", got)
	}
	if got := NewScorer(WithSubListScore(0.5)).Ratio(short, long); got != 0.5 {
		t.Errorf("custom sub-list score = %v, want 0.5", got)
	}
}

func TestRatioKernels(t *testing.T) {
	lev := NewScorer(WithKernel(KernelLevenshtein))
	if got := lev.Ratio(words("antibes"), words("antibs")); math.Abs(got-(1-1.0/7)) > 1e-9 {
		t.Errorf("levenshtein ratio = %v, want %v", got, 1-1.0/7)
	}

	jw := NewScorer(WithKernel(KernelJaroWinkler))
	if got := jw.Ratio(words("nice"), words("nice")); got != 1 {
		t.Errorf("jaro-winkler on identical input = %v, want 1", got)
	}
	if got := jw.Ratio(words("antibes"), words("antibs")); got <= 0.9 || got >= 1 {
		t.Errorf("jaro-winkler ratio = %v, want in (0.9, 1)", got)
	}
}

func TestIsSubList(t *testing.T) {
	tests := []struct {
		short, long []string
		want        bool
	}{
		{words("b", "c"), words("a", "b", "c"), true},
		{words("a"), words("a", "b"), true},
		{words("a", "c"), words("a", "b", "c"), false},
		{words("a", "b"), words("a", "b"), false},
		{words("a", "b", "c"), words("b", "c"), false},
	}
	for _, tt := range tests {
		if got := isSubList(tt.short, tt.long); got != tt.want {
			t.Errorf("isSubList(%q, %q) = %v, want %v", tt.short, tt.long, got, tt.want)
		}
	}
}

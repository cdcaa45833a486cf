package geobases

import (
	"slices"
	"testing"
)

func TestNormalize(t *testing.T) {
	n := NewNormalizer()
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"alias and trailing space", "St-Etienne ", []string{"saint", "etienne"}},
		{"stop word number and parens", "antibes sncf 2 (centre)", []string{"antibes", "centre"}},
		{"parenthesized suffix", "Lyon Part-Dieu (TGV)", []string{"lyon", "part", "dieu", "tgv"}},
		{"upper case accents", "ÎLE-DE-FRANCE", []string{"ile", "france"}},
		{"table accents", "Ångström", []string{"angstrom"}},
		{"combining marks", "Māori", []string{"maori"}},
		{"apostrophe", "Nice Côte d'Azur", []string{"nice", "cote", "d", "azur"}},
		{"ligature", "Œuvre", []string{"oeuvre"}},
		{"duplicates kept", "Nice Nice", []string{"nice", "nice"}},
		{"empty", "", nil},
		{"numbers only", "2024 75", nil},
		{"separators only", " - / ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeParenParts(t *testing.T) {
	tests := []struct {
		parts ParenPart
		want  []string
	}{
		{ParenAll, []string{"lyon", "part", "dieu", "tgv", "nord"}},
		{ParenBefore, []string{"lyon", "part", "dieu"}},
		{ParenInner, []string{"tgv"}},
		{ParenAfter, []string{"nord"}},
		{ParenBefore | ParenAfter, []string{"lyon", "part", "dieu", "nord"}},
	}
	for _, tt := range tests {
		n := NewNormalizer(WithParenParts(tt.parts))
		if got := n.Normalize("Lyon Part-Dieu (TGV) Nord"); !slices.Equal(got, tt.want) {
			t.Errorf("parts %03b: got %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestNormalizeOptions(t *testing.T) {
	if got := NewNormalizer(WithStopWords()).Normalize("Antibes SNCF"); !slices.Equal(got, []string{"antibes", "sncf"}) {
		t.Errorf("without stop words: got %q", got)
	}
	if got := NewNormalizer(WithAliases(nil)).Normalize("St Tropez"); !slices.Equal(got, []string{"st", "tropez"}) {
		t.Errorf("without aliases: got %q", got)
	}
	aliases := map[string]string{"cdg": "charles"}
	if got := NewNormalizer(WithAliases(aliases)).Normalize("CDG"); !slices.Equal(got, []string{"charles"}) {
		t.Errorf("custom alias: got %q", got)
	}
}

func TestNormalizeTransliteration(t *testing.T) {
	n := NewNormalizer(WithTransliteration())
	if got := n.Normalize("Москва"); !slices.Equal(got, []string{"moskva"}) {
		t.Errorf("Normalize(Москва) = %q, want [moskva]", got)
	}
	if got := n.Normalize("Zürich"); !slices.Equal(got, []string{"zurich"}) {
		t.Errorf("Normalize(Zürich) = %q, want [zurich]", got)
	}
}

func BenchmarkNormalize(b *testing.B) {
	n := NewNormalizer()
	for i := 0; i < b.N; i++ {
		n.Normalize("Aéroport de Paris Charles-de-Gaulle (Roissy) T2")
	}
}

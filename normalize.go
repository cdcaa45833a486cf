package geobases

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParenPart selects which parts of "before (inner) after" survive
// normalization.
type ParenPart uint8

const (
	ParenBefore ParenPart = 1 << iota
	ParenInner
	ParenAfter

	ParenAll = ParenBefore | ParenInner | ParenAfter
)

// accentFolds covers the accented letters common in travel data. Anything
// it misses loses its combining marks in foldAccents.
var accentFolds = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a", "æ", "ae",
	"ç", "c",
	"è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i",
	"ñ", "n",
	"ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o", "ø", "o", "œ", "oe",
	"ù", "u", "ú", "u", "û", "u", "ü", "u",
	"ý", "y", "ÿ", "y",
	"ß", "ss",
)

// defaultAliases replaces whole tokens.
var defaultAliases = map[string]string{
	"st":   "saint",
	"ste":  "sainte",
	"mt":   "mont",
	"ft":   "fort",
	"intl": "international",
}

// defaultStopWords are transparent: they never help tell two names apart.
var defaultStopWords = map[string]struct{}{
	"ville": {}, "sncf": {},
	"the": {}, "and": {}, "of": {},
	"de": {}, "du": {}, "des": {}, "la": {}, "le": {}, "les": {}, "et": {},
}

var parenthesized = regexp.MustCompile(`^(.*?)\((.*?)\)(.*)$`)

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '-', '_', '/', ',', '.', ';', ':', '\'', '"', '!', '?', '&', '(', ')':
		return true
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Normalizer turns free text into a sequence of comparable tokens.
// The zero value is not usable; build one with NewNormalizer.
type Normalizer struct {
	parens        ParenPart
	aliases       map[string]string
	stopWords     map[string]struct{}
	transliterate bool
	folder        cases.Caser
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithParenParts keeps only the given parts of a parenthesized name.
func WithParenParts(parts ParenPart) NormalizerOption {
	return func(n *Normalizer) {
		n.parens = parts
	}
}

// WithAliases replaces the alias table.
func WithAliases(aliases map[string]string) NormalizerOption {
	return func(n *Normalizer) {
		n.aliases = aliases
	}
}

// WithStopWords replaces the stop-word list.
func WithStopWords(words ...string) NormalizerOption {
	return func(n *Normalizer) {
		n.stopWords = make(map[string]struct{}, len(words))
		for _, w := range words {
			n.stopWords[w] = struct{}{}
		}
	}
}

// WithTransliteration turns non-Latin scripts into ASCII after accent
// folding, so "Москва" yields "moskva".
func WithTransliteration() NormalizerOption {
	return func(n *Normalizer) {
		n.transliterate = true
	}
}

// NewNormalizer returns a normalizer using the default tables unless
// overridden by opts.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		parens:    ParenAll,
		aliases:   defaultAliases,
		stopWords: defaultStopWords,
		folder:    cases.Fold(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the tokens of s: case and accent folded, parentheses
// resolved, split on separators, aliases substituted, stop words and
// numbers removed. Token order and duplicates are preserved.
func (n *Normalizer) Normalize(s string) []string {
	s = n.folder.String(s)
	s = foldAccents(s)
	if n.transliterate {
		s = strings.ToLower(unidecode.Unidecode(s))
	}
	s = n.resolveParens(s)

	var tokens []string
	for _, tok := range strings.FieldsFunc(s, isSeparator) {
		if alias, ok := n.aliases[tok]; ok {
			tok = alias
		}
		if _, stop := n.stopWords[tok]; stop {
			continue
		}
		if tok == "" || isNumeric(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func (n *Normalizer) resolveParens(s string) string {
	m := parenthesized.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	parts := make([]string, 0, 3)
	if n.parens&ParenBefore != 0 {
		parts = append(parts, m[1])
	}
	if n.parens&ParenInner != 0 {
		parts = append(parts, m[2])
	}
	if n.parens&ParenAfter != 0 {
		parts = append(parts, m[3])
	}
	return strings.Join(parts, " ")
}

// foldAccents applies the substitution table, then strips any combining
// marks left behind.
func foldAccents(s string) string {
	s = accentFolds.Replace(s)
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

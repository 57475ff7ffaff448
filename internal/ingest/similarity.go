package ingest

import (
	"strings"
	"unicode"
)

// normalizeTitle lowercases, strips punctuation to whitespace, and collapses
// runs of whitespace.
func normalizeTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokenSet(s string) map[string]struct{} {
	norm := normalizeTitle(s)
	if norm == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(norm) {
		set[tok] = struct{}{}
	}
	return set
}

// TitleSimilarity returns the token-set Jaccard index of two titles in
// [0, 1]. Word-level intersection over union is robust against the word
// reordering and punctuation noise common between the two feeds describing
// the same feature. Empty titles never match anything, including each other.
func TitleSimilarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	inter := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

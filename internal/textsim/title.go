package textsim

import (
	"strings"
	"unicode/utf8"
)

// TitleSignature is a normalized word-set representation of a title. Titles
// are short, so words longer than 2 runes already carry signal (the body
// fingerprint uses a stricter 4-rune cut).
type TitleSignature struct {
	Normalized string
	WordSet    map[string]struct{}
}

// FromTitle builds a TitleSignature using the same normalization as FromText.
func FromTitle(title string) TitleSignature {
	norm := normalize(title)

	set := make(map[string]struct{})
	for _, w := range strings.Fields(norm) {
		if utf8.RuneCountInString(w) > 2 {
			set[w] = struct{}{}
		}
	}

	return TitleSignature{Normalized: norm, WordSet: set}
}

// Similarity returns the Jaccard similarity of the two word sets, or 0 when
// either set is empty.
func (s TitleSignature) Similarity(other TitleSignature) float64 {
	return jaccard(s.WordSet, other.WordSet)
}

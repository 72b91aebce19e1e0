// Package textsim derives comparable, size-bounded representations of article
// text and titles for similarity estimation.
package textsim

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

var punctuation = regexp.MustCompile(`[^\w\s]`)

// Fingerprint is a normalized digest of article body text.
type Fingerprint struct {
	Hash      string
	WordCount int
	KeyTerms  map[string]struct{}
}

// FromText builds a Fingerprint from raw text. Empty input yields an empty
// fingerprint with a valid hash of the empty string.
func FromText(text string) Fingerprint {
	norm := normalize(text)
	words := strings.Fields(norm)

	terms := make(map[string]struct{})
	for _, w := range words {
		if utf8.RuneCountInString(w) > 4 && !isNumeric(w) {
			terms[w] = struct{}{}
		}
	}

	sum := sha256.Sum256([]byte(norm))
	return Fingerprint{
		Hash:      hex.EncodeToString(sum[:])[:16],
		WordCount: len(words),
		KeyTerms:  terms,
	}
}

// Similarity returns the Jaccard similarity of the two key-term sets, or 0
// when either set is empty.
func (f Fingerprint) Similarity(other Fingerprint) float64 {
	return jaccard(f.KeyTerms, other.KeyTerms)
}

func normalize(text string) string {
	t := strings.ToLower(text)
	t = punctuation.ReplaceAllString(t, "")
	return strings.Join(strings.Fields(t), " ")
}

func isNumeric(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(word) > 0
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

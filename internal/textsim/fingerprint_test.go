package textsim

import (
	"math"
	"testing"
)

func TestFromText(t *testing.T) {
	t.Parallel()

	fp := FromText("Marathon Digital EXPANDS its hashrate, again - 2024!")

	if fp.WordCount != 7 {
		t.Fatalf("expected 7 words, got %d", fp.WordCount)
	}
	if len(fp.Hash) != 16 {
		t.Fatalf("expected 16-char hash, got %q", fp.Hash)
	}

	// Only words longer than 4 runes and not purely numeric qualify.
	for _, want := range []string{"marathon", "digital", "expands", "hashrate", "again"} {
		if _, ok := fp.KeyTerms[want]; !ok {
			t.Fatalf("expected key term %q in %v", want, fp.KeyTerms)
		}
	}
	if _, ok := fp.KeyTerms["2024"]; ok {
		t.Fatal("numeric token must not be a key term")
	}
	if _, ok := fp.KeyTerms["its"]; ok {
		t.Fatal("short token must not be a key term")
	}
}

func TestFromTextEmpty(t *testing.T) {
	t.Parallel()

	fp := FromText("")
	if fp.WordCount != 0 {
		t.Fatalf("expected zero words, got %d", fp.WordCount)
	}
	if len(fp.KeyTerms) != 0 {
		t.Fatalf("expected no key terms, got %v", fp.KeyTerms)
	}
	// SHA-256 of the empty string, first 16 hex chars.
	if fp.Hash != "e3b0c44298fc1c14" {
		t.Fatalf("unexpected empty hash %q", fp.Hash)
	}
}

func TestNormalizationStability(t *testing.T) {
	t.Parallel()

	a := FromText("Bitcoin  Mining,   Difficulty!")
	b := FromText("bitcoin mining difficulty")
	if a.Hash != b.Hash {
		t.Fatalf("expected identical hashes, got %q vs %q", a.Hash, b.Hash)
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	t.Parallel()

	a := FromText("miners expand hashrate across texas facilities")
	b := FromText("texas facilities struggle under hashrate growth")

	if got, want := a.Similarity(b), b.Similarity(a); got != want {
		t.Fatalf("similarity is not symmetric: %f vs %f", got, want)
	}
}

func TestSelfSimilarity(t *testing.T) {
	t.Parallel()

	fp := FromText("cleanspark announces record monthly bitcoin production")
	if got := fp.Similarity(fp); got != 1.0 {
		t.Fatalf("expected self-similarity 1.0, got %f", got)
	}
}

func TestSimilarityEmptySet(t *testing.T) {
	t.Parallel()

	empty := FromText("a b c")
	full := FromText("serious mining content here")
	if got := empty.Similarity(full); got != 0 {
		t.Fatalf("expected 0 for empty key-term set, got %f", got)
	}
}

func TestSimilarityMonotonicity(t *testing.T) {
	t.Parallel()

	base := FromText("marathon digital expands mining operations")
	closer := FromText("marathon digital expands mining capacity")
	farther := FromText("riot platforms reports quarterly earnings")

	if base.Similarity(closer) < base.Similarity(farther) {
		t.Fatal("more shared key terms must not score lower")
	}
}

func TestJaccardValue(t *testing.T) {
	t.Parallel()

	a := FromText("alpha1 bravo2 charlie delta1")
	b := FromText("alpha1 bravo2 echo99 foxtrot")

	// 2 shared of 6 distinct terms.
	if got := a.Similarity(b); math.Abs(got-2.0/6.0) > 1e-9 {
		t.Fatalf("expected 1/3, got %f", got)
	}
}

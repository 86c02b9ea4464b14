package match

import "testing"

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("cindy", "cindy"); got != 1.0 {
		t.Fatalf("identical strings = %f, want 1.0", got)
	}
}

func TestSimilarityBothEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 1.0 {
		t.Fatalf("two empties = %f, want 1.0", got)
	}
}

func TestSimilarityOneEmpty(t *testing.T) {
	if got := Similarity("cindy", ""); got != 0 {
		t.Fatalf("against empty = %f, want 0", got)
	}
}

func TestSimilarityTransposition(t *testing.T) {
	// A transposition costs one edit: (5-1)/5 = 0.8.
	if got := Similarity("cindy", "cnidy"); got < 0.8 {
		t.Fatalf("transposition = %f, want >= 0.8", got)
	}
}

func TestSimilaritySubstitution(t *testing.T) {
	if got := Similarity("cindy", "cindi"); got < 0.8 {
		t.Fatalf("single substitution = %f, want >= 0.8", got)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"cindy", "cnidy"},
		{"hey", "hay"},
		{"", "something"},
		{"kitchen", "chicken"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Fatalf("similarity(%q,%q)=%f != similarity(%q,%q)=%f", p[0], p[1], ab, p[1], p[0], ba)
		}
	}
}

func TestSimilarityRange(t *testing.T) {
	pairs := [][2]string{
		{"a", "completely different"},
		{"cindy", "cindy"},
		{"x", ""},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Fatalf("similarity(%q,%q)=%f out of [0,1]", p[0], p[1], got)
		}
	}
}

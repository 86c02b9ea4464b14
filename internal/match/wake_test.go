package match

import "testing"

func newTestMatcher(phrases ...string) *Matcher {
	return NewMatcher(phrases, 0.8)
}

func TestMatchSubstringFastPath(t *testing.T) {
	m := newTestMatcher("hey cindy")
	phrase, ok := m.Match("hey cindy what time is it")
	if !ok || phrase != "hey cindy" {
		t.Fatalf("expected fast-path match, got (%q, %v)", phrase, ok)
	}
}

func TestMatchSingleToken(t *testing.T) {
	m := newTestMatcher("cindy")
	if _, ok := m.Match("cindy"); !ok {
		t.Fatalf("exact single token should match")
	}
	if _, ok := m.Match("ask cindys calendar"); !ok {
		t.Fatalf("token containment should match")
	}
	if _, ok := m.Match("cnidy are you there"); !ok {
		t.Fatalf("fuzzy token should match at 0.8")
	}
}

func TestMatchRejectsUnrelated(t *testing.T) {
	m := newTestMatcher("cindy", "hey cindy")
	for _, transcript := range []string{"hello there", "what time is it", ""} {
		if phrase, ok := m.Match(transcript); ok {
			t.Fatalf("%q should not match, matched %q", transcript, phrase)
		}
	}
}

func TestMatchMultiTokenRequiresAllTokens(t *testing.T) {
	m := newTestMatcher("hey cindy")
	// Only one of the two tokens present: no match.
	if _, ok := m.Match("cindy turn off the lights"); ok {
		t.Fatalf("one of two tokens should not satisfy a multi-token phrase")
	}
	if _, ok := m.Match("hey you over there"); ok {
		t.Fatalf("only 'hey' should not satisfy 'hey cindy'")
	}
	// Both tokens present, one of them fuzzily: match.
	if _, ok := m.Match("hey cnidy open the door"); !ok {
		t.Fatalf("both tokens present should match")
	}
}

func TestMatchFirstPhraseWins(t *testing.T) {
	m := newTestMatcher("cindy", "hey cindy")
	phrase, ok := m.Match("hey cindy")
	if !ok {
		t.Fatalf("expected match")
	}
	if phrase != "cindy" {
		t.Fatalf("expected first configured phrase to win, got %q", phrase)
	}
}

func TestMatchCaseAndWhitespace(t *testing.T) {
	m := newTestMatcher("Hey Cindy")
	if _, ok := m.Match("  HEY CINDY  "); !ok {
		t.Fatalf("matching should be case-insensitive and trimmed")
	}
}

func TestMatcherDropsEmptyPhrases(t *testing.T) {
	m := NewMatcher([]string{"", "  ", "cindy"}, 0.8)
	if len(m.phrases) != 1 {
		t.Fatalf("expected empty phrases dropped, have %d", len(m.phrases))
	}
	if _, ok := m.Match("anything at all"); ok {
		t.Fatalf("empty phrases must never match")
	}
}

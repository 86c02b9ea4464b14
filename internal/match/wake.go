package match

import "strings"

// Matcher decides whether a transcript contains one of the configured wake
// phrases. Matching is fuzzy: whisper routinely mangles short names, so each
// phrase token may match a transcript token either by containment or by
// similarity above the threshold. Read-only after construction.
type Matcher struct {
	phrases   []string
	threshold float64
}

// NewMatcher builds a Matcher from the configured phrases. Phrases are
// lower-cased once here; empty entries are dropped.
func NewMatcher(phrases []string, threshold float64) *Matcher {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			kept = append(kept, p)
		}
	}
	return &Matcher{phrases: kept, threshold: threshold}
}

// Match reports whether transcript contains any configured phrase, returning
// the first phrase that matched. Matching short-circuits on the first hit;
// scores are never aggregated across phrases.
func (m *Matcher) Match(transcript string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(transcript))
	if text == "" {
		return "", false
	}
	words := strings.Fields(text)
	for _, phrase := range m.phrases {
		if m.phraseMatches(text, words, phrase) {
			return phrase, true
		}
	}
	return "", false
}

func (m *Matcher) phraseMatches(text string, words []string, phrase string) bool {
	// Fast path: direct containment.
	if strings.Contains(text, phrase) {
		return true
	}
	tokens := strings.Fields(phrase)
	switch len(tokens) {
	case 0:
		return false
	case 1:
		return m.tokenMatches(tokens[0], words)
	default:
		// Multi-token phrases require every token to match somewhere.
		for _, tok := range tokens {
			if !m.tokenMatches(tok, words) {
				return false
			}
		}
		return true
	}
}

// tokenMatches reports whether any transcript word contains tok or is
// similar enough to it.
func (m *Matcher) tokenMatches(tok string, words []string) bool {
	for _, w := range words {
		if strings.Contains(w, tok) {
			return true
		}
		if Similarity(w, tok) >= m.threshold {
			return true
		}
	}
	return false
}

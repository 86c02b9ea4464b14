package run

import (
	"sort"
	"strings"

	"cindyd/internal/match"
)

// phraseStripThreshold mirrors the matcher's fuzziness so a token whisper
// mangled enough to match is also stripped from the hook payload.
const phraseStripThreshold = 0.8

// StripWakePhrase removes the detected wake phrase from text, so that
// "hey cindy turn on the lights" hands the hook just "turn on the lights".
// Longer phrases are tried first; a phrase is only stripped when all of its
// tokens are found. Returns text unchanged when no phrase fully matches.
func StripWakePhrase(text string, phrases []string) string {
	ordered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			ordered = append(ordered, p)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(strings.Fields(ordered[i])) > len(strings.Fields(ordered[j]))
	})

	for _, phrase := range ordered {
		if out, ok := stripTokens(text, strings.Fields(phrase)); ok {
			return out
		}
	}
	return strings.TrimSpace(text)
}

// stripTokens removes the first occurrence of each token, in order. It
// reports success only if every token was consumed.
func stripTokens(text string, tokens []string) (string, bool) {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	remaining := tokens
	for _, f := range fields {
		if len(remaining) > 0 && tokenLike(stripPunct(f), remaining[0]) {
			remaining = remaining[1:]
			continue
		}
		out = append(out, f)
	}
	if len(remaining) > 0 {
		return "", false
	}
	return strings.Join(out, " "), true
}

func tokenLike(tok, want string) bool {
	tok = strings.ToLower(tok)
	if tok == want || strings.Contains(tok, want) {
		return true
	}
	return match.Similarity(tok, want) >= phraseStripThreshold
}

func stripPunct(s string) string {
	return strings.Trim(s, " ,.!?;:\"'")
}

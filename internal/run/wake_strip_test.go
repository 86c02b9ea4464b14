package run

import "testing"

func TestStripWakePhrase(t *testing.T) {
	phrases := []string{"cindy", "hey cindy"}
	cases := []struct {
		in   string
		want string
	}{
		{"hey cindy turn on the lights", "turn on the lights"},
		{"Hey Cindy, what time is it", "what time is it"},
		{"cindy play some music", "play some music"},
		{"hey cnidy open the door", "open the door"},
		{"no wake phrase here", "no wake phrase here"},
		{"hey cindy", ""},
	}
	for _, c := range cases {
		if got := StripWakePhrase(c.in, phrases); got != c.want {
			t.Fatalf("StripWakePhrase(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripWakePhraseNoPhrases(t *testing.T) {
	if got := StripWakePhrase("  hello  ", nil); got != "hello" {
		t.Fatalf("got %q", got)
	}
}

func TestStripWakePhrasePrefersLongest(t *testing.T) {
	// Both phrases match; the longer one should be removed so "hey" does
	// not leak into the payload.
	got := StripWakePhrase("hey cindy hello", []string{"cindy", "hey cindy"})
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

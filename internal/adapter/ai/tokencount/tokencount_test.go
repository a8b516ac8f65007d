package tokencount

import "testing"

func TestNormalizeModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"openai/gpt-4o-mini", "gpt-4"},
		{"meta-llama/llama-3.1-8b-instruct:free", "gpt-4"},
		{"gpt-3.5-turbo", "gpt-3.5-turbo"},
		{"mistralai/mistral-7b", "gpt-4"},
		{"something-unknown", "gpt-4"},
	}
	for _, tt := range tests {
		if got := normalizeModelName(tt.in); got != tt.want {
			t.Errorf("normalizeModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCount(t *testing.T) {
	c := NewCounter("openai/gpt-4o-mini")
	n := c.Count("The quick brown fox jumps over the lazy dog.")
	if n <= 0 {
		t.Fatalf("Count = %d, want positive", n)
	}
	if again := c.Count("The quick brown fox jumps over the lazy dog."); again != n {
		t.Errorf("Count not stable: %d vs %d", n, again)
	}
	if c.Count("") != 0 {
		t.Errorf("empty text should count zero tokens")
	}
}

// Package tokencount provides token counting for LLM prompt and
// response accounting, backed by tiktoken-go.
package tokencount

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter is a thread-safe token counter bound to one model. It
// implements the pipeline's TokenCounter interface.
type Counter struct {
	model string

	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewCounter creates a Counter for the given model ID. Unknown models
// fall back to the cl100k_base encoding.
func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

// Count returns the token count of text for the counter's model. When
// no encoding can be resolved it falls back to a rough estimate of
// four characters per token, so accounting degrades instead of failing.
func (c *Counter) Count(text string) int {
	enc, err := c.encoding()
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc != nil {
		return c.enc, nil
	}
	enc, err := tiktoken.EncodingForModel(normalizeModelName(c.model))
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}
	c.enc = enc
	return c.enc, nil
}

// normalizeModelName converts provider-prefixed model IDs to
// tiktoken-compatible names.
func normalizeModelName(model string) string {
	model = strings.ToLower(model)
	// OpenRouter model IDs carry provider prefixes, e.g.
	// "meta-llama/llama-3.1-8b-instruct:free".
	if idx := strings.LastIndex(model, "/"); idx >= 0 {
		model = model[idx+1:]
	}
	model = strings.TrimSuffix(model, ":free")

	switch {
	case strings.Contains(model, "gpt-4"):
		return "gpt-4"
	case strings.Contains(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		// Most modern models tokenize close enough to GPT-4 for
		// accounting purposes.
		return "gpt-4"
	}
}

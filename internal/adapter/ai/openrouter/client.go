// Package openrouter implements a real AI client backed by the
// OpenRouter chat API and the OpenAI embeddings API.
package openrouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/domain"
)

// Client implements domain.AIClient using OpenRouter (chat) and OpenAI
// (embeddings). Rate limits and 5xx responses are retried with
// exponential backoff; 4xx responses fail permanently.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a Client with the configured timeouts.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: cfg.AIChatTimeout},
		embedHC: &http.Client{Timeout: cfg.AIEmbedTimeout},
	}
}

func (c *Client) backoffConfig() *backoff.ExponentialBackOff {
	expo := backoff.NewExponentialBackOff()
	maxElapsedTime, initialInterval, maxInterval, multiplier := c.cfg.GetAIBackoffConfig()
	expo.MaxElapsedTime = maxElapsedTime
	expo.InitialInterval = initialInterval
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	return expo
}

// ChatJSON calls OpenRouter chat completions and returns the message
// content. The raw content may still carry Markdown fences; callers
// parse it with pkg/llmjson.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if c.cfg.OpenRouterAPIKey == "" {
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY missing", domain.ErrInvalidArgument)
	}
	model := c.cfg.OpenRouterModel

	body := map[string]any{
		"model":       model,
		"temperature": 0.2,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)

	var out struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies.
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenRouterBaseURL+"/chat/completions", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenRouterAPIKey)
		r.Header.Set("Content-Type", "application/json")
		if c.cfg.OpenRouterReferer != "" {
			r.Header.Set("HTTP-Referer", c.cfg.OpenRouterReferer)
		}
		if c.cfg.OpenRouterTitle != "" {
			r.Header.Set("X-Title", c.cfg.OpenRouterTitle)
		}
		resp, err := c.chatHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openrouter", "chat").Inc()
		observability.AIRequestDuration.WithLabelValues("openrouter", "chat").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("ai provider rate limited",
				slog.String("provider", "openrouter"), slog.String("op", "chat"),
				slog.String("x_request_id", resp.Header.Get("X-Request-Id")))
			return fmt.Errorf("%w: chat 429", domain.ErrUpstreamRateLimit)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("ai provider 4xx",
				slog.String("provider", "openrouter"), slog.String("op", "chat"),
				slog.Int("status", resp.StatusCode), slog.String("model", model),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("chat status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("ai provider non-2xx",
				slog.String("provider", "openrouter"), slog.String("op", "chat"),
				slog.Int("status", resp.StatusCode), slog.String("model", model),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("chat status %d", resp.StatusCode)
		}
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			slog.Error("ai provider decode error",
				slog.String("provider", "openrouter"), slog.String("op", "chat"),
				slog.String("model", model), slog.Any("error", err))
			return err
		}
		return nil
	}

	bo := backoff.WithContext(c.backoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return "", fmt.Errorf("openrouter chat failed: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty choices from OpenRouter API")
	}
	if out.Model != "" && out.Model != model {
		slog.Warn("model substitution detected",
			slog.String("requested_model", model),
			slog.String("actual_model", out.Model))
	}
	return out.Choices[0].Message.Content, nil
}

// Embed calls the OpenAI embeddings endpoint and returns vectors.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)

	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}

	op := func() error {
		start := time.Now()
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.embedHC.Do(r)
		observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
		observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			slog.Warn("ai provider rate limited",
				slog.String("provider", "openai"), slog.String("op", "embed"))
			return fmt.Errorf("%w: embed 429", domain.ErrUpstreamRateLimit)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			slog.Warn("ai provider 4xx",
				slog.String("provider", "openai"), slog.String("op", "embed"),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			slog.Error("ai provider non-2xx",
				slog.String("provider", "openai"), slog.String("op", "embed"),
				slog.Int("status", resp.StatusCode),
				slog.String("body", snippet(bodyBytes, 512)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		return json.Unmarshal(bodyBytes, &out)
	}

	bo := backoff.WithContext(c.backoffConfig(), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("openai embed failed: %w", err)
	}
	if len(out.Data) == 0 {
		return nil, errors.New("empty data from OpenAI API")
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

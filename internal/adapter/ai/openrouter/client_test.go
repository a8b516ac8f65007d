package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hirewise/ai-job-matcher/internal/config"
)

func testConfig(chatURL, embedURL string) config.Config {
	return config.Config{
		AppEnv:            "test",
		OpenRouterAPIKey:  "test-key",
		OpenRouterBaseURL: chatURL,
		OpenRouterModel:   "openai/gpt-4o-mini",
		OpenAIAPIKey:      "test-key",
		OpenAIBaseURL:     embedURL,
		EmbeddingsModel:   "text-embedding-3-small",
		AIChatTimeout:     5 * time.Second,
		AIEmbedTimeout:    5 * time.Second,
	}
}

func TestChatJSON_Success(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel, _ = req["model"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "openai/gpt-4o-mini",
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"score": 80}`}},
			},
		})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, srv.URL))
	out, err := c.ChatJSON(context.Background(), "system", "user", 500)
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if out != `{"score": 80}` {
		t.Errorf("content = %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotModel != "openai/gpt-4o-mini" {
		t.Errorf("model = %q", gotModel)
	}
}

func TestChatJSON_MissingKey(t *testing.T) {
	c := New(config.Config{AppEnv: "test"})
	if _, err := c.ChatJSON(context.Background(), "s", "u", 10); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestChatJSON_RetriesOn5xxAndRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		switch atomic.AddInt32(&calls, 1) {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]string{"content": "ok"}},
				},
			})
		}
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, srv.URL))
	out, err := c.ChatJSON(context.Background(), "s", "u", 10)
	if err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if out != "ok" || atomic.LoadInt32(&calls) != 3 {
		t.Errorf("out = %q, calls = %d", out, calls)
	}
}

func TestChatJSON_4xxIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, srv.URL))
	if _, err := c.ChatJSON(context.Background(), "s", "u", 10); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want no retry on 4xx", calls)
	}
}

func TestChatJSON_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, srv.URL))
	if _, err := c.ChatJSON(context.Background(), "s", "u", 10); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestEmbed_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		input, _ := req["input"].([]any)
		data := make([]map[string]any, len(input))
		for i := range input {
			data[i] = map[string]any{"embedding": []float64{0.1, 0.2}}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL, srv.URL))
	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vecs) != 2 || len(vecs[0]) != 2 || vecs[0][0] != float32(0.1) {
		t.Errorf("vecs = %v", vecs)
	}
}

func TestEmbed_MissingConfig(t *testing.T) {
	c := New(config.Config{AppEnv: "test", OpenAIAPIKey: "k"})
	if _, err := c.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error without embeddings model")
	}
}

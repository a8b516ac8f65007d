// Package qdrant stores candidate profile embeddings so completed
// matches can be searched by similarity. The client speaks Qdrant's
// HTTP API directly.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CollectionProfiles is the collection holding candidate embeddings.
const CollectionProfiles = "candidate-profiles"

// Client is a minimal Qdrant HTTP client.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New constructs a Client with baseURL and optional apiKey.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

// EnsureCollection creates the collection if it does not exist.
func (c *Client) EnsureCollection(ctx context.Context, name string, vectorSize int, distance string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", c.baseURL, name), nil)
	if err != nil {
		return fmt.Errorf("op=qdrant.ensure: %w", err)
	}
	c.setHeaders(req)
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("op=qdrant.ensure: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	payload := map[string]any{
		"vectors": map[string]any{"size": vectorSize, "distance": distance},
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", name), payload, nil); err != nil {
		return fmt.Errorf("op=qdrant.ensure create: %w", err)
	}
	return nil
}

// UpsertPoints inserts or updates points. ids is optional; when given
// its length must match vectors.
func (c *Client) UpsertPoints(ctx context.Context, collection string, vectors [][]float32, payloads []map[string]any, ids []any) error {
	if len(vectors) != len(payloads) {
		return fmt.Errorf("op=qdrant.upsert: vectors and payloads length mismatch")
	}
	points := make([]map[string]any, 0, len(vectors))
	for i := range vectors {
		pt := map[string]any{"vector": vectors[i], "payload": payloads[i]}
		if len(ids) == len(vectors) {
			pt["id"] = ids[i]
		}
		points = append(points, pt)
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points", collection), map[string]any{"points": points}, nil); err != nil {
		return fmt.Errorf("op=qdrant.upsert: %w", err)
	}
	return nil
}

// Search returns the top-k nearest points with payloads.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK int) ([]map[string]any, error) {
	body := map[string]any{"vector": vector, "limit": topK, "with_payload": true}
	var out struct {
		Result []map[string]any `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", collection), body, &out); err != nil {
		return nil, fmt.Errorf("op=qdrant.search: %w", err)
	}
	return out.Result, nil
}

// do sends a JSON request and optionally decodes a JSON response.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

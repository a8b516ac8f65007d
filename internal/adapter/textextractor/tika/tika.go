// Package tika extracts plain text from uploaded resumes via an Apache
// Tika server (PUT /tika with Accept: text/plain).
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hirewise/ai-job-matcher/pkg/textx"
)

// Client implements domain.TextExtractor against a Tika server.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New constructs a Tika client with a default timeout.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// ExtractPath uploads the file at path and returns its text, sanitized
// and whitespace-collapsed. Paths are constrained to the temp dir or
// the working dir; uploads land in the temp dir.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	openPath, err := constrainPath(path)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(openPath)
	if err != nil {
		return "", fmt.Errorf("op=tika.extract read: %w", err)
	}

	u := c.baseURL
	if u == "" {
		u = "http://localhost:9998"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u+"/tika", bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("op=tika.extract: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=tika.extract: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("op=tika.extract: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("op=tika.extract body: %w", err)
	}

	sanitized := textx.SanitizeText(string(b))
	return strings.Join(strings.Fields(sanitized), " "), nil
}

// constrainPath rejects paths outside the temp dir and the working dir.
func constrainPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	for _, base := range []string{filepath.Clean(os.TempDir()), workingDir()} {
		if base == "" {
			continue
		}
		if abs == base || strings.HasPrefix(abs, base+string(os.PathSeparator)) {
			rel, err := filepath.Rel(base, abs)
			if err != nil {
				return "", err
			}
			return filepath.Join(base, rel), nil
		}
	}
	return "", fmt.Errorf("op=tika.extract: disallowed path %s", abs)
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Clean(wd)
}

func contentTypeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}

// Package api holds the HTTP clients for the posting backend. Remote
// failures are translated here into typed errors or result values,
// nothing above this boundary sees raw transport errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/birddeck/birddeck/internal/logger"
)

// ErrUnauthorized is returned when the backend rejects the session
// credential. Callers should invalidate the session when they see it.
var ErrUnauthorized = errors.New("credential rejected by server")

// Config holds common client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// CacheDir backs the analytics response cache. Empty means in-memory.
	CacheDir string
	Debug    bool
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 10 * time.Second,
	}
}

// TokenSource supplies the current bearer token, if any. Implemented by
// the session provider.
type TokenSource interface {
	Token() (string, bool)
}

// Clients bundles the backend service clients.
type Clients struct {
	Auth      *AuthClient
	Generator *GeneratorClient
	Scheduler *SchedulerClient
	Analytics *AnalyticsClient
}

// NewClients creates the backend clients. Every request carries the
// bearer token from tokens when one is held, and fails after the
// configured timeout. onUnauthorized runs whenever the backend reports
// the credential invalid.
func NewClients(cfg Config, tokens TokenSource, log zerolog.Logger, onUnauthorized func()) *Clients {
	transport := newAuthTransport(logger.NewHTTPRequests(nil, log), tokens)

	base := &httpClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		onUnauthorized: onUnauthorized,
	}

	// Analytics GETs go through a caching transport; see cache.go.
	analytics := &httpClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newAuthTransport(newCachingTransport(cfg.CacheDir, log), tokens),
		},
		onUnauthorized: onUnauthorized,
	}

	return &Clients{
		Auth:      &AuthClient{c: base},
		Generator: &GeneratorClient{c: base},
		Scheduler: &SchedulerClient{c: base},
		Analytics: &AnalyticsClient{c: analytics},
	}
}

// StatusError is a non-2xx response from the backend, carrying the
// detail message when one was provided.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// httpClient is the shared JSON request helper.
type httpClient struct {
	baseURL        string
	client         *http.Client
	onUnauthorized func()
}

func (c *httpClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, readDetail(resp.Body))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// readDetail extracts the backend's {"detail": "..."} error body.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 64*1024))
	if err != nil {
		return ""
	}

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Detail != "" {
		return body.Detail
	}

	return string(bytes.TrimSpace(data))
}

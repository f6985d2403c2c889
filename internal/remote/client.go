// Package remote talks to the network API that mirrors wizard sessions and
// member profiles. Every call is best-effort: callers get a fallback value
// when the API is unreachable.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.example-network.com/v1"
	DefaultToken   = "dev-token"
	defaultTimeout = 10 * time.Second
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client

	// Fallback holds the locally cached copies served when the API fails.
	Fallback KV

	logger *zap.Logger
	now    func() time.Time
}

func NewClient(baseURL, token string, timeout time.Duration, fallback KV, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if token == "" {
		token = DefaultToken
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if fallback == nil {
		fallback = NewMemoryKV()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		HTTP:     &http.Client{Timeout: timeout},
		Fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// do sends in as the JSON body (when non-nil) and decodes the response into
// out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) warn(op string, err error, fields ...zap.Field) {
	c.logger.Warn("Remote Client: "+op+" failed, using local fallback", append(fields, zap.Error(err))...)
}

// Package remote is the JSON-over-HTTP plumbing shared by hosted embedding
// providers: throttling, auth headers, status handling and error wrapping.
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
	"unicode/utf8"

	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/docrag/internal/core/domain"
	"github.com/custodia-labs/docrag/internal/logger"
)

// maxErrorBody caps how much of a failed response is quoted in errors.
const maxErrorBody = 512

// Client sends requests to one provider. Every error it returns, other than
// context cancellation, wraps domain.ErrEmbeddingProvider.
type Client struct {
	provider string
	baseURL  string
	http     *http.Client
	limiter  *ratelimit.Limiter
	header   http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLimiter throttles every request through l.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithBearer sends token as a bearer credential.
func WithBearer(token string) Option {
	return func(c *Client) {
		c.header.Set("Authorization", "Bearer "+token)
	}
}

// New creates a client for provider rooted at baseURL.
func New(provider, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root all paths are joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON sends in as JSON to path and decodes a 200 response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return c.fail("create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail("decode response", err)
	}
	if msg := apiMessage(data); msg != "" {
		return fmt.Errorf("%w: %s: %s", domain.ErrEmbeddingProvider, c.provider, msg)
	}
	return nil
}

// Get requests path and discards a 200 body. Providers use it for Ping.
func (c *Client) Get(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return c.fail("create request", err)
	}
	_, err = c.do(ctx, req)
	return err
}

func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	for k, v := range c.header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.fail("send request", err)
	}
	defer resp.Body.Close()

	if c.limiter.Observe(resp) {
		logger.Warn("%s: rate limited, pausing until %s", c.provider, c.limiter.PausedUntil().Format(time.RFC3339))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail("read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := apiMessage(data)
		if msg == "" {
			msg = truncate(strings.TrimSpace(string(data)), maxErrorBody)
		}
		return nil, fmt.Errorf("%w: %s: status %d: %s", domain.ErrEmbeddingProvider, c.provider, resp.StatusCode, msg)
	}
	return data, nil
}

func (c *Client) fail(step string, err error) error {
	return fmt.Errorf("%w: %s: %s: %w", domain.ErrEmbeddingProvider, c.provider, step, err)
}

// apiMessage extracts an "error" field, either a bare string or an object
// with a message, from a JSON body.
func apiMessage(body []byte) string {
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &env) != nil || len(env.Error) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(env.Error, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(env.Error, &obj) == nil {
		return obj.Message
	}
	return ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// Float32s narrows decoded JSON numbers to the stored precision.
func Float32s(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}

package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docrag/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/docrag/internal/core/domain"
)

type echoResponse struct {
	Echo string `json:"echo"`
}

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("test", srv.URL+"/", time.Second, WithBearer("k"))
}

func TestClient_PostJSON(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"echo":"hi"}`))
	})

	var out echoResponse
	require.NoError(t, c.PostJSON(context.Background(), "/v1/echo", map[string]string{"in": "hi"}, &out))
	assert.Equal(t, "hi", out.Echo)
	assert.False(t, strings.HasSuffix(c.BaseURL(), "/"))
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string error field", http.StatusNotFound, `{"error":"model not found"}`, "status 404: model not found"},
		{"object error field", http.StatusBadRequest, `{"error":{"message":"bad input"}}`, "status 400: bad input"},
		{"plain body", http.StatusBadGateway, "upstream down\n", "status 502: upstream down"},
		{"error with 200", http.StatusOK, `{"error":"overloaded"}`, "test: overloaded"},
		{"undecodable 200", http.StatusOK, `not json`, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			var out echoResponse
			err := c.PostJSON(context.Background(), "/x", struct{}{}, &out)

			assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestClient_LongBodyTruncated(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	})

	err := c.Get(context.Background(), "/")

	require.Error(t, err)
	assert.Less(t, len(err.Error()), 600)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestClient_LongMultiByteBodyTruncated(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		// The odd leading byte puts the cut inside a two-byte rune.
		_, _ = w.Write([]byte("x" + strings.Repeat("é", 1000)))
	})

	err := c.Get(context.Background(), "/")

	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.True(t, strings.HasSuffix(err.Error(), "é..."))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "abc", n: 5, want: "abc"},
		{name: "exact", in: "abcde", n: 5, want: "abcde"},
		{name: "ascii", in: "abcdef", n: 3, want: "abc..."},
		{name: "rune boundary", in: "aéb", n: 3, want: "aé..."},
		{name: "mid rune", in: "aéb", n: 2, want: "a..."},
		{name: "mid four-byte rune", in: "a😀", n: 3, want: "a..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestClient_RateLimitPausesLimiter(t *testing.T) {
	limiter := ratelimit.New(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(ratelimit.HeaderRetryAfter, "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	c := New("test", srv.URL, time.Second, WithLimiter(limiter))

	err := c.Get(context.Background(), "/")

	assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
	assert.True(t, limiter.PausedUntil().After(time.Now().Add(20*time.Second)))
}

func TestClient_Cancelled(t *testing.T) {
	c := serve(t, func(http.ResponseWriter, *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/")

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrEmbeddingProvider)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New("test", url, time.Second).Get(context.Background(), "/")

	assert.ErrorIs(t, err, domain.ErrEmbeddingProvider)
	assert.ErrorContains(t, err, "send request")
}

func TestFloat32s(t *testing.T) {
	assert.Equal(t, []float32{1, -0.5}, Float32s([]float64{1, -0.5}))
	assert.Empty(t, Float32s(nil))
}

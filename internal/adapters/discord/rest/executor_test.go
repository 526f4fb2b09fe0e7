package rest

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/credentials"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, handler http.HandlerFunc) *Executor {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := credentials.NewStore("token-1", credentials.DefaultIdentity(), credentials.WithCookie("a=1"))
	return NewExecutor(Config{
		BaseURL:    server.URL + "/api/v9",
		HTTPClient: server.Client(),
		Headers:    store,
	})
}

func TestExecuteDefaultsToGetWithCredentialHeaders(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v9/channels/1/messages", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "a=1", r.Header.Get("Cookie"))
		assert.NotEmpty(t, r.Header.Get("X-Super-Properties"))
		_, _ = io.WriteString(w, `[{"id":"1"}]`)
	})

	body, err := exec.Execute(context.Background(), Request{
		Path:  "channels/1/messages",
		Query: url.Values{"limit": {"100"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(body))
}

func TestExecuteSendsJSONAndCallerHeadersWin(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "custom", r.Header.Get("User-Agent"))
		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"content":"hi"}`, string(data))
		_, _ = io.WriteString(w, `{"id":"9"}`)
	})

	_, err := exec.Execute(context.Background(), Request{
		Method: http.MethodPatch,
		Path:   "/channels/1/messages/9",
		JSON:   map[string]string{"content": "hi"},
		Header: http.Header{"User-Agent": {"custom"}},
	})
	require.NoError(t, err)
}

func TestExecuteDecompressesGzipAndDeflate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		encoding string
		encode   func(t *testing.T, data []byte) []byte
	}{
		{
			name:     "gzip",
			encoding: "gzip",
			encode: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw := gzip.NewWriter(&buf)
				_, err := zw.Write(data)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				return buf.Bytes()
			},
		},
		{
			name:     "zlib deflate",
			encoding: "deflate",
			encode: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				zw := zlib.NewWriter(&buf)
				_, err := zw.Write(data)
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				return buf.Bytes()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := tt.encode(t, []byte(`{"id":"42"}`))
			exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tt.encoding)
				_, _ = w.Write(payload)
			})

			body, err := exec.Execute(context.Background(), Request{Path: "users/@me"})
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"42"}`, string(body))
		})
	}
}

func TestExecuteMapsNonSuccessToUpstreamError(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"message":"You are being rate limited.","retry_after":1.5,"global":false,"code":0}`)
	})

	_, err := exec.Execute(context.Background(), Request{Path: "users/@me"})
	require.ErrorIs(t, err, domain.ErrUpstream)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Equal(t, 1.5, upstream.RetryAfter)
	assert.True(t, upstream.RateLimited())
}

func TestExecuteRetryAfterHeaderFallback(t *testing.T) {
	t.Parallel()

	exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := exec.Execute(context.Background(), Request{Path: "users/@me"})
	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 3.0, upstream.RetryAfter)
}

func TestExecuteAppliesDefaultTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	exec := NewExecutor(Config{BaseURL: server.URL, HTTPClient: server.Client(), Timeout: 50 * time.Millisecond})

	started := time.Now()
	_, err := exec.Execute(context.Background(), Request{Path: "slow"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestExecuteAbsoluteURLBypassesBase(t *testing.T) {
	t.Parallel()

	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emojis/1.png", r.URL.Path)
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer cdn.Close()

	exec := NewExecutor(Config{BaseURL: "http://127.0.0.1:1/api/v9", HTTPClient: cdn.Client()})
	body, err := exec.Execute(context.Background(), Request{Path: cdn.URL + "/emojis/1.png"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, body)
}

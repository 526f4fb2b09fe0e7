package credentials

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "object", input: map[string]string{"test": "is test"}, want: "eyJ0ZXN0IjoiaXMgdGVzdCJ9"},
		{name: "string", input: "is test", want: "aXMgdGVzdA=="},
		{name: "number", input: 42, want: "NDI="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Base64Encode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreInitializeJoinsCookies(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Empty(t, r.Header.Get("Authorization"))
		http.SetCookie(w, &http.Cookie{Name: "__dcfduid", Value: "abc", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: "__sdcfduid", Value: "def", HttpOnly: true})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	identity := DefaultIdentity()
	identity.CookieURL = server.URL
	store := NewStore("token-1", identity, WithHTTPClient(server.Client()))

	require.NoError(t, store.Initialize(context.Background()))
	assert.Equal(t, "__dcfduid=abc; __sdcfduid=def", store.Cookie())

	require.NoError(t, store.Initialize(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestStoreHeadersDoNotWaitForHarvest(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		http.SetCookie(w, &http.Cookie{Name: "__dcfduid", Value: "abc"})
	}))
	defer server.Close()

	identity := DefaultIdentity()
	identity.CookieURL = server.URL
	store := NewStore("token-1", identity, WithHTTPClient(server.Client()))

	initErr := make(chan error, 1)
	go func() { initErr <- store.Initialize(context.Background()) }()
	<-arrived

	headersErr := make(chan error, 1)
	go func() {
		_, err := store.Headers(nil)
		headersErr <- err
	}()

	select {
	case err := <-headersErr:
		assert.ErrorIs(t, err, domain.ErrCredential)
	case <-time.After(time.Second):
		t.Fatal("Headers blocked while cookies were being fetched")
	}

	close(release)
	require.NoError(t, <-initErr)
	assert.Equal(t, "__dcfduid=abc", store.Cookie())
}

func TestStoreInitializeFailsWithoutCookies(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	identity := DefaultIdentity()
	identity.CookieURL = server.URL
	store := NewStore("token-1", identity, WithHTTPClient(server.Client()))

	err := store.Initialize(context.Background())
	require.ErrorIs(t, err, domain.ErrCredential)
	assert.Empty(t, store.Cookie())
}

func TestStoreHeadersBeforeInitializeFails(t *testing.T) {
	t.Parallel()

	store := NewStore("token-1", DefaultIdentity())
	_, err := store.Headers(nil)
	require.ErrorIs(t, err, domain.ErrCredential)
}

func TestStoreHeadersMergesAndCallerWins(t *testing.T) {
	t.Parallel()

	store := NewStore("token-1", DefaultIdentity(), WithCookie("a=1"))

	extra := http.Header{}
	extra.Set("Authorization", "override")
	extra.Set("Content-Type", "application/json")
	h, err := store.Headers(extra)
	require.NoError(t, err)

	assert.Equal(t, "override", h.Get("Authorization"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "a=1", h.Get("Cookie"))
	assert.Equal(t, "bugReporterEnabled", h.Get("X-Debug-Options"))
	assert.Equal(t, "gzip, deflate", h.Get("Accept-Encoding"))
	assert.Equal(t, "keep-alive", h.Get("Connection"))

	decoded, err := base64.StdEncoding.DecodeString(h.Get("X-Super-Properties"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"os":"Windows","browser":"Discord Client","release_channel":"stable","client_version":"1.5.3481","os_version":"10.0.19043","os_arch":"x64","system_locale":"en-US","client_build_number":"153481","client_event_source":null}`, string(decoded))

	again, err := store.Headers(nil)
	require.NoError(t, err)
	assert.Equal(t, "token-1", again.Get("Authorization"))
}

package credentials

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bnema/selfcord/internal/domain"
)

// Store holds the account token and the session cookie harvested from the
// web client. The cookie is written once by Initialize and only read after.
type Store struct {
	token      string
	identity   Identity
	httpClient *http.Client
	logger     *slog.Logger

	mu     sync.RWMutex
	cookie string
}

type Option func(*Store)

func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCookie seeds a known cookie so Initialize skips the harvest request.
func WithCookie(cookie string) Option {
	return func(s *Store) { s.cookie = cookie }
}

func NewStore(token string, identity Identity, opts ...Option) *Store {
	s := &Store{
		token:      token,
		identity:   identity,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Token() string { return s.token }

func (s *Store) Identity() Identity { return s.identity }

func (s *Store) Cookie() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cookie
}

// Initialize harvests the platform cookies unless a cookie is already held.
// The request runs without the lock; the first harvested value is kept.
func (s *Store) Initialize(ctx context.Context) error {
	if s.Cookie() != "" {
		return nil
	}

	cookie, err := s.harvestCookies(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cookie == "" {
		s.cookie = cookie
		s.logger.Debug("harvested session cookies", "url", s.identity.CookieURL)
	}
	return nil
}

func (s *Store) harvestCookies(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.identity.CookieURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build cookie request: %v", domain.ErrCredential, err)
	}
	req.Header = s.identity.DefaultHeaders()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetch cookies: %v", domain.ErrCredential, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return "", fmt.Errorf("%w: no cookies returned by %s (status %d)", domain.ErrCredential, s.identity.CookieURL, resp.StatusCode)
	}

	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; "), nil
}

// Headers returns the authenticated header set. Keys in extra replace the
// computed ones.
func (s *Store) Headers(extra http.Header) (http.Header, error) {
	cookie := s.Cookie()
	if cookie == "" {
		return nil, fmt.Errorf("%w: missing cookies, call Initialize first", domain.ErrCredential)
	}

	fingerprint, err := Base64Encode(s.identity.SuperProperties)
	if err != nil {
		return nil, fmt.Errorf("encode super properties: %w", err)
	}

	h := s.identity.DefaultHeaders()
	h.Set("X-Super-Properties", fingerprint)
	h.Set("Authorization", s.token)
	h.Set("Cookie", cookie)
	for key, values := range extra {
		h[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return h, nil
}

// Base64Encode encodes strings as-is and anything else as its JSON form.
func Base64Encode(v any) (string, error) {
	var raw []byte
	switch value := v.(type) {
	case string:
		raw = []byte(value)
	case []byte:
		raw = value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		raw = encoded
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

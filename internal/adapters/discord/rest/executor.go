package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://discord.com/api/v9"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 32 << 20
)

// HeaderSource produces the authenticated header set for a request.
type HeaderSource interface {
	Headers(extra http.Header) (http.Header, error)
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Headers    HeaderSource
	Timeout    time.Duration
	Logger     *slog.Logger
}

type Executor struct {
	baseURL    string
	httpClient *http.Client
	headers    HeaderSource
	timeout    time.Duration
	logger     *slog.Logger
}

func NewExecutor(cfg Config) *Executor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Executor{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: cfg.HTTPClient,
		headers:    cfg.Headers,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
}

// Request describes one API call. Path is relative to the base URL unless it
// is an absolute URL. JSON takes precedence over Body.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	JSON        any
	Body        []byte
	ContentType string
	Header      http.Header
	Timeout     time.Duration
}

// Execute sends the request with the credential headers and returns the
// decompressed response body. Non-2xx responses become *domain.UpstreamError.
func (e *Executor) Execute(ctx context.Context, r Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := e.resolveURL(r.Path, r.Query)
	if err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(r)
	if err != nil {
		return nil, err
	}

	extra := http.Header{}
	if contentType != "" {
		extra.Set("Content-Type", contentType)
	}
	for key, values := range r.Header {
		extra[http.CanonicalHeaderKey(key)] = values
	}

	var header http.Header
	if e.headers != nil {
		header, err = e.headers.Headers(extra)
		if err != nil {
			return nil, err
		}
	} else {
		header = extra
	}

	if _, ok := ctx.Deadline(); !ok {
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = e.timeout
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, r.Path, err)
	}
	req.Header = header

	started := time.Now()
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, r.Path, err)
	}
	defer resp.Body.Close()

	payload, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, r.Path, err)
	}

	e.logger.Debug("discord request",
		"method", method,
		"path", r.Path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp, payload)
	}

	return payload, nil
}

func (e *Executor) resolveURL(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		raw = e.baseURL + "/" + strings.TrimLeft(path, "/")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse request url %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := parsed.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		parsed.RawQuery = q.Encode()
	}
	return parsed.String(), nil
}

func encodeBody(r Request) ([]byte, string, error) {
	if r.JSON != nil {
		data, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	}
	return r.Body, r.ContentType, nil
}

func upstreamError(resp *http.Response, payload []byte) *domain.UpstreamError {
	upstream := &domain.UpstreamError{StatusCode: resp.StatusCode}

	if gjson.ValidBytes(payload) {
		doc := gjson.ParseBytes(payload)
		upstream.Code = doc.Get("code").Int()
		upstream.Message = doc.Get("message").String()
		upstream.RetryAfter = doc.Get("retry_after").Float()
	} else {
		upstream.Message = strings.TrimSpace(string(payload))
	}

	if upstream.RetryAfter == 0 && resp.StatusCode == http.StatusTooManyRequests {
		if seconds, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil {
			upstream.RetryAfter = seconds
		}
	}

	return upstream
}

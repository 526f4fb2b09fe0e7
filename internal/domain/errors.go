package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSecretNotFound  = errors.New("secret not found")

	ErrCredential          = errors.New("credentials unavailable")
	ErrConnectTimeout      = errors.New("gateway connect timeout")
	ErrNotConnected        = errors.New("gateway not connected")
	ErrSessionNotReady     = errors.New("gateway session not ready")
	ErrHandshakeInProgress = errors.New("gateway handshake already in progress")
	ErrConnectionClosed    = errors.New("gateway connection closed")
	ErrReconnectRequested  = errors.New("gateway requested reconnect")
	ErrInvalidSession      = errors.New("gateway invalidated session")

	ErrMalformedResponse = errors.New("malformed response")
	ErrRateLimitTooHigh  = errors.New("rate limit too high")
	ErrUpstream          = errors.New("upstream error")

	ErrTooManyMessages = errors.New("cannot delete more than 100 messages at once")
	ErrCommandNotFound = errors.New("slash command not found")
)

// UpstreamError is an error reported by the API, either through a non-2xx
// status or through a code/message pair in an otherwise successful body.
type UpstreamError struct {
	StatusCode int
	Code       int64
	Message    string
	// RetryAfter is the rate-limit wait in seconds, zero when absent.
	RetryAfter float64
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Code != 0 && e.StatusCode != 0:
		return fmt.Sprintf("upstream error (status %d): %d %s", e.StatusCode, e.Code, e.Message)
	case e.Code != 0:
		return fmt.Sprintf("upstream error: %d %s", e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("upstream error (status %d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("upstream error (status %d)", e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

func (e *UpstreamError) RateLimited() bool { return e.RetryAfter > 0 }

type MalformedResponseError struct {
	Context string
	Code    int64
	Message string
}

func (e *MalformedResponseError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %d %s", e.Context, e.Code, e.Message)
	}
	return e.Context
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }

type RateLimitTooHighError struct {
	RetryAfter float64
	Ceiling    float64
}

func (e *RateLimitTooHighError) Error() string {
	return fmt.Sprintf("rate limit very high (%.1fs > %.0fs), aborting wait", e.RetryAfter, e.Ceiling)
}

func (e *RateLimitTooHighError) Unwrap() error { return ErrRateLimitTooHigh }

package openaiapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/openai/openai-go/v3"
)

// ConnectionError is raised after the attempt ceiling is exhausted on a
// retryable failure. It carries the last underlying error.
type ConnectionError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: connection failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type errorKind int

const (
	kindFatal errorKind = iota
	kindConnection
	kindRateLimit
)

// classify decides once, before the retry loop re-raises, whether a failure
// is retryable. Anything that is not a connection-class failure or a
// rate-limit signal propagates on first occurrence.
func classify(err error) errorKind {
	if err == nil {
		return kindFatal
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.Type == "rate_limit_error":
			return kindRateLimit
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return kindConnection
		}
		return kindFatal
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return kindConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return kindConnection
	}
	if hasTimeoutText(err) {
		return kindConnection
	}
	return kindFatal
}

// hasTimeoutText is the single free-text classification shim at the
// transport boundary. Some transports surface timeouts only in the message.
func hasTimeoutText(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out")
}

// IsConnectionFailure reports whether err is (or wraps) an exhausted-retry
// connection failure.
func IsConnectionFailure(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// IsRateLimit reports whether err carries a rate-limit signal from the API.
func IsRateLimit(err error) bool {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Type == "rate_limit_error"
}

// IsTimeout reports whether err was classified as a timeout, whatever the
// underlying cause looked like.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return hasTimeoutText(err)
}

package binary

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultRetries is the default number of request retries
	DefaultRetries = 3
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "biomectl/1.0"
)

// RetryTransport retries GET requests that fail at the transport level or
// with a 5xx status, backing off exponentially (1s, 2s, 4s...). Retry policy
// lives here so the acquirer itself never retries.
type RetryTransport struct {
	Base    http.RoundTripper
	Retries int
	// Backoff returns the wait before attempt n (n >= 1).
	Backoff func(attempt int) time.Duration
}

// NewRetryTransport wraps base (http.DefaultTransport when nil).
func NewRetryTransport(base http.RoundTripper, retries int) *RetryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RetryTransport{
		Base:    base,
		Retries: retries,
		Backoff: exponentialBackoff,
	}
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt-1)) * time.Second
}

// RoundTrip implements http.RoundTripper.
func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return t.Base.RoundTrip(req)
	}

	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= t.Retries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			select {
			case <-time.After(t.Backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := t.Base.RoundTrip(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			if attempt == t.Retries {
				// Hand the last 5xx response to the caller so it can report the status
				return resp, nil
			}
			resp.Body.Close()
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", t.Retries, lastErr)
}

// NewHTTPClient returns the client used for release index and binary
// downloads: retrying transport, generous timeout, bounded redirects.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: NewRetryTransport(nil, DefaultRetries),
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// GitHub release assets redirect to a CDN; allow up to 10 hops
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

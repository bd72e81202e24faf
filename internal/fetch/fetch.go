// Package fetch wraps outbound HTTP calls to external sources with a
// minimum inter-request delay and a request timeout.
//
// Every upstream gets its own limiter, so a slow Cagematch cadence never
// throttles Wikipedia. The wait is a blocking sleep: the orchestrator is
// single-threaded and sequential, so there is nothing to queue.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "WrestleBot/2.0 (Wrestling Database; https://openwrestlingdb.org)"

// TransientError covers network failures, timeouts and 5xx responses.
// The caller's circuit breaker decides when these are retried.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient fetch failure for %s: %v", e.URL, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError covers 4xx responses: the request is malformed or the
// resource does not exist, so a retry cannot help.
type PermanentError struct {
	URL        string
	StatusCode int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent fetch failure for %s: status %d", e.URL, e.StatusCode)
}

// IsPermanent reports whether err is a non-retryable fetch failure.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

// Client is a rate-limited HTTP fetcher for one upstream.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// New creates a fetcher enforcing minDelay between requests to the upstream.
func New(minDelay, timeout time.Duration) *Client {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Get performs a rate-limited GET, blocking until the inter-request
// interval has elapsed. The returned body is fully read.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := rawURL
	if len(params) > 0 {
		reqURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransientError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &PermanentError{URL: rawURL, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 500:
		return nil, &TransientError{URL: rawURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{URL: rawURL, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	return body, nil
}

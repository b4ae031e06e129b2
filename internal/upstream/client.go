// Package upstream is the gateway between the dashboard and the metrics API.
// All outbound HTTP calls are routed through the Client, which enforces
// consistent resilience patterns: circuit breaking, retries with exponential
// backoff, trace propagation, and error normalization. Every failure crossing
// this boundary is a *types.AppError carrying one of three classifications:
// network error (no response received), timeout, or an HTTP-status-derived
// message.
//
// The gateway performs exactly one HTTP call per operation invocation (plus
// transparent retries on 429/5xx). It holds no cache and no deduplication;
// callers own the decision not to issue redundant calls.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/parandev-inditech/Somata-UI-sub000/internal/types"
)

// RetryPolicy configures the retry behavior for the Client.
type RetryPolicy struct {
	MaxRetries int
	MinWait    time.Duration
	MaxWait    time.Duration
}

// DefaultRetryPolicy returns sensible defaults for metrics API calls.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 3,
		MinWait:    500 * time.Millisecond,
		MaxWait:    10 * time.Second,
	}
}

// Client wraps an *http.Client and a circuit breaker to enforce consistent
// resilience patterns on all calls to the metrics API. The Gateway embeds
// Client to inherit this behavior.
type Client struct {
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	retryPolicy RetryPolicy
	baseURL     string
	userAgent   string
	sleepFn     func(time.Duration) // for testability; defaults to time.Sleep
	observe     func(ctx context.Context, endpoint string, err error)
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithSleepFunc overrides the sleep function used between retries.
// This is intended for testing to avoid real delays.
func WithSleepFunc(fn func(time.Duration)) ClientOption {
	return func(c *Client) {
		c.sleepFn = fn
	}
}

// WithCallObserver registers a hook invoked after every completed call (all
// retries folded into one outcome) with the request path and the final error,
// nil on success. Used to publish per-endpoint call metrics.
func WithCallObserver(fn func(ctx context.Context, endpoint string, err error)) ClientOption {
	return func(c *Client) {
		c.observe = fn
	}
}

// WithBreaker replaces the default circuit breaker. Useful for testing or for
// sharing a breaker across clients.
func WithBreaker(cb *gobreaker.CircuitBreaker[*http.Response]) ClientOption {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewClient creates a Client for the metrics API at baseURL (no trailing slash
// required) with the given retry policy and user agent string.
func NewClient(httpClient *http.Client, baseURL string, retryPolicy RetryPolicy, userAgent string, opts ...ClientOption) *Client {
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "metrics-api",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	})

	c := &Client{
		client:      httpClient,
		breaker:     cb,
		retryPolicy: retryPolicy,
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		sleepFn:     time.Sleep,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// getJSON issues a GET to path (with optional query) and decodes the 2xx
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build metrics API request", err)
	}
	return c.doJSON(req, out)
}

// postJSON issues a POST with a JSON body to path and decodes the 2xx response
// body into out.
func (c *Client) postJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode metrics API request body", err)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build metrics API request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

// doJSON executes the request via do and decodes the response body into out.
// A nil out discards the body.
func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to decode metrics API response", err)
	}
	return nil
}

// do executes the HTTP request with:
//  1. Trace ID injection (X-Request-Id from context)
//  2. User-Agent header injection
//  3. Circuit breaker wrapping
//  4. Retry on 429/5xx (respecting Retry-After headers)
//  5. Error normalization to *types.AppError
//
// On a 2xx response, do returns the response as-is; the caller is responsible
// for closing the body. Any other outcome -- non-2xx status after retries,
// network failure, timeout, or open breaker -- is returned as a normalized
// *types.AppError.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.execute(req)
	if c.observe != nil {
		c.observe(req.Context(), req.URL.Path, err)
	}
	return resp, err
}

func (c *Client) execute(req *http.Request) (*http.Response, error) {
	if traceID := types.GetRequestID(req.Context()); traceID != "" {
		req.Header.Set("X-Request-Id", traceID)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	// Snapshot the request body so we can replay it on retries.
	// For requests without a body (GET), this is a no-op.
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, types.NewAppError(
				types.ErrCodeInternalUnexpected,
				"failed to read request body for retry support",
				err,
			)
		}
		req.Body.Close()
	}

	var lastResp *http.Response
	var lastErr error

	maxAttempts := 1 + c.retryPolicy.MaxRetries
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			req.ContentLength = int64(len(bodyBytes))
		}

		resp, err := c.breaker.Execute(func() (*http.Response, error) {
			r, doErr := c.client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			// Treat 429 and 5xx as errors for the circuit breaker.
			if r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests {
				return r, fmt.Errorf("metrics API returned %d", r.StatusCode)
			}
			return r, nil
		})

		if err == nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}
			// Non-retryable error status (4xx other than 429).
			resp.Body.Close()
			return nil, statusError(resp.StatusCode, nil)
		}

		lastErr = err
		if resp != nil {
			if attempt < maxAttempts-1 {
				resp.Body.Close()
			} else {
				lastResp = resp
			}
		}

		// If the circuit breaker is open, do not retry.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			break
		}

		if attempt < maxAttempts-1 {
			c.sleepFn(c.computeBackoff(attempt, resp))
		}
	}

	if lastResp != nil {
		lastResp.Body.Close()
	}

	return nil, c.mapError(lastResp, lastErr)
}

// computeBackoff determines the wait duration before the next retry attempt.
// It respects the Retry-After header if present, otherwise uses exponential
// backoff with jitter clamped to [MinWait, MaxWait].
func (c *Client) computeBackoff(attempt int, resp *http.Response) time.Duration {
	if resp != nil {
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
				wait := time.Duration(seconds) * time.Second
				if wait > c.retryPolicy.MaxWait {
					wait = c.retryPolicy.MaxWait
				}
				return wait
			}
			if t, err := http.ParseTime(retryAfter); err == nil {
				wait := time.Until(t)
				if wait <= 0 {
					return c.retryPolicy.MinWait
				}
				if wait > c.retryPolicy.MaxWait {
					wait = c.retryPolicy.MaxWait
				}
				return wait
			}
		}
	}

	// Exponential backoff with full jitter in [MinWait, min(MaxWait, MinWait*2^attempt)].
	base := float64(c.retryPolicy.MinWait) * math.Pow(2, float64(attempt))
	maxWait := float64(c.retryPolicy.MaxWait)
	if base > maxWait {
		base = maxWait
	}
	minWait := float64(c.retryPolicy.MinWait)
	if base <= minWait {
		return c.retryPolicy.MinWait
	}
	jittered := minWait + rand.Float64()*(base-minWait)
	return time.Duration(jittered)
}

// mapError translates a final failure into the three-way taxonomy:
// open breaker or 429/5xx become status errors; transport failures split into
// timeout vs network.
func (c *Client) mapError(resp *http.Response, err error) *types.AppError {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			types.UpstreamStatusMessage(http.StatusServiceUnavailable),
			err,
		)
	}

	if resp != nil {
		return statusError(resp.StatusCode, err)
	}

	if isTimeout(err) {
		return types.NewAppError(types.ErrCodeUpstreamTimeout, types.UpstreamTimeoutMessage, err)
	}
	return types.NewAppError(types.ErrCodeUpstreamNetwork, types.UpstreamNetworkMessage, err)
}

// statusError builds the normalized error for a non-2xx response.
func statusError(status int, err error) *types.AppError {
	code := types.ErrCodeUpstreamStatus
	switch {
	case status == http.StatusTooManyRequests:
		code = types.ErrCodeUpstreamRateLimited
	case status >= 500:
		code = types.ErrCodeUpstreamUnavailable
	}
	e := types.NewAppError(code, types.UpstreamStatusMessage(status), err)
	return e.WithDetails(map[string]any{"status": status})
}

// isTimeout reports whether err represents a timed-out request as opposed to a
// generic network failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

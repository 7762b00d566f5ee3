package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"literati/internal/json"
	"literati/internal/util"
	"literati/pkg/auth"
)

const (
	// DefaultMaxRetries is the number of extra attempts after the first.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the linear backoff unit; attempt n waits n units.
	DefaultRetryDelay = time.Second
	// DefaultTimeout bounds a single request/response call.
	DefaultTimeout = 10 * time.Second
)

// Options configures a Client. The zero value selects the defaults above.
type Options struct {
	// MaxRetries is the number of extra attempts after the first send.
	// Zero selects DefaultMaxRetries; negative disables retries.
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	Tokens     auth.TokenProvider
	Logger     *slog.Logger
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Client executes requests against the content API. It holds no per-call
// state, so a single instance is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	tokens     auth.TokenProvider
	logger     *slog.Logger
}

// NewClient constructs an API client for the given base URL.
func NewClient(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: opts.HTTPClient,
		maxRetries: opts.MaxRetries,
		retryDelay: opts.RetryDelay,
		timeout:    opts.Timeout,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.maxRetries == 0 {
		c.maxRetries = DefaultMaxRetries
	} else if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.retryDelay <= 0 {
		c.retryDelay = DefaultRetryDelay
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// BaseURL returns the configured base URL without its trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends the request and returns the raw 2xx body. Transport failures are
// retried with linear backoff; once any HTTP response arrives the status is
// classified and surfaced without further attempts.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var payload []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}
	requestID := util.NewRequestID()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}
		body, err := c.send(ctx, req, payload, requestID, attempt)
		if err == nil {
			return body, nil
		}
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		c.logger.Warn("transport failure, will retry",
			"method", req.Method,
			"path", req.Path,
			"attempt", attempt+1,
			"request_id", requestID,
			"error", err,
		)
	}
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, req Request, payload []byte, requestID string, attempt int) ([]byte, error) {
	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = values
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		// A response was received, so this is not retryable.
		return nil, &InvalidResponseError{Reason: "read body: " + err.Error()}
	}
	c.logger.Debug("api_request",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestID,
		"attempt", attempt+1,
	)
	if err := ClassifyStatus(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Execute sends the request and decodes the 2xx body into T.
func Execute[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	raw, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Err: err}
	}
	return out, nil
}

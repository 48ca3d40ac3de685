// Package api is the HTTP client for the remote banking backend.
//
// Every response is decoded from the {code, message, data} envelope into a
// Result, so callers never compare codes themselves. A 401 on any request other
// than login is reported to the UnauthorizedHandler before the error returns.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

const (
	headerRequestID      = "X-Request-Id"
	headerIdempotencyKey = "Idempotency-Key"

	// maxBodyBytes bounds how much of a response is read
	maxBodyBytes = 4 << 20
)

// UnauthorizedHandler is called when a non-login request is answered with 401
type UnauthorizedHandler func(ctx context.Context, endpoint string)

// Client talks to the banking backend
type Client struct {
	baseURL        string
	http           *http.Client
	token          func() string
	onUnauthorized UnauthorizedHandler
	log            *zap.SugaredLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets the function that supplies the bearer token per request
func WithTokenSource(f func() string) Option {
	return func(c *Client) { c.token = f }
}

// WithUnauthorizedHandler sets the hook for 401 responses to non-login requests
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithLogger sets the client logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for baseURL. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   func() string { return "" },
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

type idempotencyKeyCtx struct{}

// WithIdempotencyKey attaches key to ctx so the mutating request sent with it
// carries that key. Retries of one confirmation reuse the same key.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// NewIdempotencyKey mints a fresh key
func NewIdempotencyKey() string {
	return ksuid.New().String()
}

func idempotencyKeyFrom(ctx context.Context) string {
	if key, ok := ctx.Value(idempotencyKeyCtx{}).(string); ok && key != "" {
		return key
	}
	return NewIdempotencyKey()
}

// call sends one request and unwraps the envelope. Methods cannot carry type
// parameters, so endpoints go through this function.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	status, raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return zero, err
	}

	// data is decoded only on success, a rejection's data may have any shape
	var env Envelope[json.RawMessage]
	decodeErr := json.Unmarshal(raw, &env)

	if status == http.StatusUnauthorized || (decodeErr == nil && env.Code == http.StatusUnauthorized) {
		return zero, c.unauthorized(ctx, path, env.Message)
	}
	if decodeErr != nil {
		if status >= http.StatusBadRequest {
			return zero, fmt.Errorf("%w: %s %s: HTTP %d", ErrNetworkFailure, method, path, status)
		}
		return zero, fmt.Errorf("%w: %s %s: decode response: %v", ErrNetworkFailure, method, path, decodeErr)
	}

	typed := Envelope[T]{Code: env.Code, Message: env.Message}
	if env.Code == SuccessCode && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &typed.Data); err != nil {
			return zero, fmt.Errorf("%w: %s %s: decode data: %v", ErrNetworkFailure, method, path, err)
		}
	}

	data, err := typed.Result().Unwrap()
	if err != nil && path == PathLogin {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			rejected.Kind = ErrAuthenticationFailed
		}
	}
	return data, err
}

func (c *Client) unauthorized(ctx context.Context, path, message string) error {
	if path == PathLogin {
		return &RejectedError{Kind: ErrAuthenticationFailed, Code: http.StatusUnauthorized, Message: message}
	}
	c.log.Warnw("authorization expired", "endpoint", path)
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx, path)
	}
	return fmt.Errorf("%w: %s", ErrAuthorizationExpired, path)
}

func (c *Client) send(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := ksuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set(headerIdempotencyKey, idempotencyKeyFrom(ctx))
	}
	if path != PathLogin {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		c.log.Warnw("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrNetworkFailure, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}
		return 0, nil, fmt.Errorf("%w: %s %s: read body: %v", ErrNetworkFailure, method, path, err)
	}

	c.log.Debugw("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return resp.StatusCode, raw, nil
}

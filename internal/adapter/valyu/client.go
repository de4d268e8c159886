// Package valyu adapts the Valyu DeepSearch and Contents APIs to the pipeline's
// content-record model.
package valyu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"valyurag/internal/domain"
	"valyurag/internal/secret"
)

const (
	searchPath   = "/v1/deepsearch"
	contentsPath = "/v1/contents"

	apiKeyHeader = "x-api-key"

	maxErrorPreview = 200
)

// Option customizes an adapter at construction.
type Option func(*options)

type options struct {
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
}

// WithHTTPClient replaces the default HTTP client. Timeouts are applied per call
// through the request context, so the client's own Timeout may stay zero.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithLogger sets the logger used for request summaries.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records request outcomes and result counts into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// endpoint describes one remote operation and how its failures are reported.
type endpoint struct {
	name   string
	path   string
	apiErr func(status int, msg string, err error) error
}

var (
	searchEndpoint = endpoint{
		name: "search",
		path: searchPath,
		apiErr: func(status int, msg string, err error) error {
			return &domain.SearchAPIError{StatusCode: status, Message: msg, Err: err}
		},
	}
	contentsEndpoint = endpoint{
		name: "contents",
		path: contentsPath,
		apiErr: func(status int, msg string, err error) error {
			return &domain.ContentAPIError{StatusCode: status, Message: msg, Err: err}
		},
	}
)

type client struct {
	baseURL string
	apiKey  secret.Credential
	http    *http.Client
	logger  *zap.Logger
	metrics *Metrics
}

// newClient resolves the credential once; later environment changes do not affect the adapter.
func newClient(baseURL string, cred secret.Credential, opts []Option) (*client, error) {
	o := options{
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	key, err := cred.Resolve()
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "api_key", Reason: err.Error(), Err: err}
	}

	return &client{
		baseURL: baseURL,
		apiKey:  secret.FromToken(key),
		http:    o.httpClient,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// post sends payload to the endpoint and returns the status and body of a 2xx response.
func (c *client) post(ctx context.Context, ep endpoint, timeout time.Duration, payload any) (int, []byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal %s request: %w", ep.name, err)
	}

	bound := effectiveTimeout(ctx, timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ep.path, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", ep.name, err)
	}
	key, _ := c.apiKey.Resolve()
	req.Header.Set(apiKeyHeader, key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.transportError(ctx, ep, bound, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, c.transportError(ctx, ep, bound, err)
	}

	c.logger.Debug("valyu response",
		zap.String("endpoint", ep.name),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.metrics.observeRequest(ep.name, statusError)
		return resp.StatusCode, nil, ep.apiErr(resp.StatusCode, c.apiKey.Redact(remoteMessage(body)), nil)
	}

	return resp.StatusCode, body, nil
}

func (c *client) transportError(ctx context.Context, ep endpoint, timeout time.Duration, err error) error {
	if isTimeout(ctx, err) {
		c.metrics.observeRequest(ep.name, statusTimeout)
		return &domain.TimeoutError{Op: "valyu " + ep.name, Duration: timeout, Err: err}
	}
	c.metrics.observeRequest(ep.name, statusError)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("valyu %s request canceled: %w", ep.name, err)
	}
	return ep.apiErr(0, c.apiKey.Redact(err.Error()), err)
}

// effectiveTimeout is the bound a request runs under: the adapter timeout, or the
// time left on the caller's deadline when that is shorter.
func effectiveTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			return max(left, 0)
		}
	}
	return timeout
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// remoteMessage pulls a human-readable message out of an error body.
func remoteMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := rawText(payload.Error); msg != "" {
			return msg
		}
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	return preview(body)
}

// rawText reads a JSON value that is either a string or an object with a message field.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Message
	}
	return ""
}

func preview(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorPreview {
		text = text[:maxErrorPreview]
	}
	return text
}

// envelope is the SDK-style response wrapper; the API may also answer with a bare array.
type envelope[T any] struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Results []T    `json:"results"`
}

// decodeResults accepts either a JSON array of results or an envelope. A false
// success flag is returned as remoteErr with a nil err.
func decodeResults[T any](body []byte) (results []T, remoteErr string, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, "", errors.New("empty response body")
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, "", fmt.Errorf("failed to parse response (body: %s): %w", preview(trimmed), err)
		}
		return results, "", nil
	}

	var env envelope[T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, "", fmt.Errorf("failed to parse response (body: %s): %w", preview(trimmed), err)
	}
	if env.Success != nil && !*env.Success {
		if env.Error == "" {
			return nil, "unknown error", nil
		}
		return nil, env.Error, nil
	}
	return env.Results, "", nil
}

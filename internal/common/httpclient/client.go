// Package httpclient is the single configuration point for talking to the
// remote dealer-management REST API. Every resource service goes through it.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "errors"

	apperrors "dealer-dashboard/internal/common/errors"
	"dealer-dashboard/internal/common/logger"
	"dealer-dashboard/internal/common/metrics"
	"dealer-dashboard/internal/common/observability"
)

// Client issues JSON requests against the backend base URL with the
// default header set applied to every call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
	obs        *observability.Observability
}

// Option adjusts a single request.
type Option func(*http.Request)

// WithHeader sets an extra header on one request. Used for the
// resend-OTP `_customToken` header.
func WithHeader(key, value string) Option {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func New(baseURL, apiKey string, timeout time.Duration, log logger.Logger, obs *observability.Observability) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
		obs:    obs,
	}
}

// Get issues a GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST with a JSON payload and decodes the body into out.
func (c *Client) Post(ctx context.Context, path string, payload, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodPost, path, payload, out, opts...)
}

// Patch issues a PATCH with a JSON payload and decodes the body into out.
func (c *Client) Patch(ctx context.Context, path string, payload, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodPatch, path, payload, out, opts...)
}

// Delete issues a DELETE and decodes the body into out.
func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...Option) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}, opts ...Option) error {
	resource := resourceLabel(path)
	operation := method + " " + path
	start := time.Now()

	metrics.BackendRequestsTotal.WithLabelValues(resource, method).Inc()

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return c.fail(resource, method, apperrors.NewBadResponseBodyError(fmt.Errorf("marshal payload: %w", err)))
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.fail(resource, method, apperrors.NewBackendUnreachableError(err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)

	elapsed := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
	if c.obs != nil {
		c.obs.RecordRequestDuration(ctx, elapsed, resource)
	}

	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled) {
			return c.fail(resource, method, apperrors.NewRequestCancelledError(operation))
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return c.fail(resource, method, apperrors.NewBackendTimeoutError(operation))
		}
		return c.fail(resource, method, apperrors.NewBackendUnreachableError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(resource, method, apperrors.NewBackendUnreachableError(err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := failureMessage(raw)
		c.logger.Warn("backend rejected request", map[string]interface{}{
			"operation": operation,
			"status":    resp.StatusCode,
			"message":   msg,
		})
		return c.fail(resource, method, apperrors.NewBackendRejectedError(msg, resp.StatusCode))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return c.fail(resource, method, apperrors.NewBadResponseBodyError(err))
		}
	}

	if c.obs != nil {
		c.obs.RecordRequest(ctx, resource, "ok")
	}
	return nil
}

func (c *Client) fail(resource, method string, se *apperrors.StandardError) error {
	metrics.BackendRequestsFailed.WithLabelValues(resource, method, string(se.Kind)).Inc()
	if c.obs != nil {
		c.obs.RecordRequest(context.Background(), resource, "error")
	}
	return se
}

// failureMessage pulls the message out of a backend error envelope, when
// there is one to pull.
func failureMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func resourceLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}

// Package remote implements the HTTP client for the storefront backend API.
//
// The backend is an external collaborator: every service here is a thin,
// rate-limited wrapper that maps transport and status failures onto the
// domain error taxonomy and leaves recovery policy to callers.
package remote

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/jewelapp/jewel-client/internal/errors"
	"github.com/jewelapp/jewel-client/internal/ratelimit"
)

const (
	// Friendly client: a handful of requests per second per API resource.
	defaultRPS   = 5.0
	defaultBurst = 10

	defaultTimeout = 30 * time.Second
)

// TokenSource supplies the current session token, empty when logged out.
// The local store implements this.
type TokenSource interface {
	Token() string
}

// Client is a rate-limited backend API client shared by the per-resource
// services.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	tokens  TokenSource
	logger  *slog.Logger
}

// NewClient creates a backend client rooted at baseURL.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		tokens:  tokens,
		logger:  logger,
	}
}

// doJSON executes a request and decodes the JSON response into dest.
// A nil dest discards the response body.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if err := c.limiter.Wait(ctx, limiterKey(path)); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("backend request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.ErrRemoteUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.ErrRemoteUnavailable.WithCause(err)
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	if dest == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return errs.Wrap(err, errs.CodeInternal, "decode response")
	}
	return nil
}

// statusError maps a non-2xx status onto the domain error taxonomy.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := errorMessage(body)
	switch {
	case status == http.StatusUnauthorized:
		return errs.Unauthorized(msg)
	case status == http.StatusNotFound:
		return errs.NotFound(msg)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return errs.Validation(msg)
	case status == http.StatusConflict:
		return errs.Conflict(msg)
	default:
		return errs.RemoteUnavailablef("backend returned status %d", status)
	}
}

// errorMessage extracts a message from an error response body,
// falling back to the raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = "request failed"
	}
	return msg
}

// limiterKey buckets requests by API resource ("/api/cart/add" -> "cart").
func limiterKey(path string) string {
	trimmed := strings.TrimPrefix(path, "/api/")
	if idx := strings.IndexByte(trimmed, '/'); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// asUnavailable collapses any list-endpoint failure into RemoteUnavailable.
// List callers only distinguish "got a snapshot" from "fall back to local",
// so finer-grained codes would leak policy they cannot act on.
func asUnavailable(err error) error {
	if err == nil {
		return nil
	}
	if errs.Is(err, errs.ErrRemoteUnavailable) {
		return err
	}
	return errs.ErrRemoteUnavailable.WithCause(err)
}

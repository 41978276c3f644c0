// Package upstream provides the HTTP client for the DentraOS core API.
// Every remote contract the sync layer depends on goes through this client,
// which owns bearer-token injection and error-envelope mapping.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shashank35i/DentraOS-sub001/platform/apperr"
	"github.com/shashank35i/DentraOS-sub001/platform/httpkit"
	"github.com/shashank35i/DentraOS-sub001/platform/logger"
)

// TokenSource supplies the bearer token attached to every core API request.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token, mainly for tests and one-off tools.
type StaticTokenSource string

// AccessToken implements TokenSource.
func (s StaticTokenSource) AccessToken(ctx context.Context) (string, error) {
	return string(s), nil
}

// ContextTokenSource forwards the bearer token the caller authenticated with,
// falling back to an optional secondary source when none is on the context.
type ContextTokenSource struct {
	Fallback TokenSource
}

// AccessToken implements TokenSource.
func (s ContextTokenSource) AccessToken(ctx context.Context) (string, error) {
	if token, ok := httpkit.BearerTokenFromContext(ctx); ok {
		return token, nil
	}
	if s.Fallback != nil {
		return s.Fallback.AccessToken(ctx)
	}
	return "", apperr.Unauthorized("no access token available")
}

// Client is the HTTP client for the core API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	log        *logger.Logger
}

// Config configures the core API client.
type Config struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration
	Logger  *logger.Logger
}

// NewClient creates a new core API client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		httpClient: &http.Client{Timeout: timeout},
		log:        cfg.Logger,
	}
}

// Get issues a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to encode request body", err).WithOp(method + " " + path)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to build request", err).WithOp(method + " " + path)
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		if c.log != nil {
			c.log.WithContext(ctx).UpstreamError(method+" "+path, 0, err)
		}
		return apperr.Wrap(apperr.KindUnavailable, "core API unreachable", err).WithOp(method + " " + path)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		envErr := c.envelopeError(method, path, resp)
		if c.log != nil {
			c.log.WithContext(ctx).UpstreamError(method+" "+path, resp.StatusCode, envErr)
		}
		return envErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to decode core API response", err).WithOp(method + " " + path)
	}

	return nil
}

// errorEnvelope is the failure shape the core API returns. Either message or
// error may carry the human-readable text; older endpoints use error.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// envelopeError turns a non-2xx response into a typed error, preferring the
// server-provided message and falling back to a generic one with the status.
func (c *Client) envelopeError(method, path string, resp *http.Response) *apperr.Error {
	message := fmt.Sprintf("request failed (status %d)", resp.StatusCode)

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			message = envelope.Message
		} else if envelope.Error != "" {
			message = envelope.Error
		}
	}

	kind := apperr.KindUnavailable
	switch {
	case resp.StatusCode == http.StatusNotFound:
		kind = apperr.KindNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		kind = apperr.KindUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		kind = apperr.KindForbidden
	case resp.StatusCode == http.StatusConflict:
		kind = apperr.KindConflict
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		kind = apperr.KindBadRequest
	}

	return apperr.New(kind, message).WithOp(method + " " + path)
}

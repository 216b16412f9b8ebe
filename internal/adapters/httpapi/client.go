// Package httpapi is the shared HTTP client for the OpenHVX admin
// gateway. One client instance backs every endpoint group; the auth
// header is injected on the way out and 401/403 responses are
// classified on the way in.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openhvx/hvxctl/internal/domain"
	"github.com/openhvx/hvxctl/internal/ports"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout   = 20 * time.Second
	maxResponseBytes = 1 << 20

	loginSurface = "login"
)

// TokenSource supplies the current bearer token; empty means
// unauthenticated.
type TokenSource interface {
	Token() string
}

// Purger clears the credential from every tier. The transport invokes
// it when a response is classified as unauthenticated.
type Purger interface {
	Purge(ctx context.Context) error
}

// Client is the single HTTP client shared by all endpoint groups.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	purger Purger
	nav    ports.Navigator
	log    zerolog.Logger
}

// Options configures the shared client. Tokens, Purger and Nav may be
// nil, in which case the corresponding interception is skipped.
type Options struct {
	BaseURL string
	Tokens  TokenSource
	Purger  Purger
	Nav     ports.Navigator
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		base:   base,
		tokens: opts.Tokens,
		purger: opts.Purger,
		nav:    opts.Nav,
		log:    opts.Logger,
	}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &authTransport{tokens: opts.Tokens, next: http.DefaultTransport},
	}

	return c, nil
}

// authTransport injects the bearer token on outgoing requests. A
// caller-supplied Authorization header is never overridden.
type authTransport struct {
	tokens TokenSource
	next   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" && req.Header.Get("Authorization") == "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.next.RoundTrip(req)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetRaw returns the unwrapped response payload without decoding it
// into a shape; the task poller and normalizer take it from here.
func (c *Client) GetRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint, err := c.base.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.classify(ctx, resp.StatusCode, payload)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(unwrap(payload), out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}

	return nil
}

// classify turns a non-2xx response into an APIError. 401 purges the
// credential and redirects to the login surface with the original
// location as return path; 403 redirects to the forbidden surface.
// Both still propagate the error so call-site handling fires. Repeated
// 401s purge idempotently and never double-redirect: the location
// check keeps the navigator out of the loop once it is already on the
// login surface.
func (c *Client) classify(ctx context.Context, status int, payload []byte) error {
	apiErr := &domain.APIError{Status: status, Message: serverMessage(payload)}

	switch status {
	case http.StatusUnauthorized:
		apiErr.Err = domain.ErrUnauthorized
		if c.purger != nil {
			if err := c.purger.Purge(ctx); err != nil {
				c.log.Warn().Err(err).Msg("credential purge after 401 failed")
			}
		}
		if c.nav != nil {
			if current := c.nav.Location(); !strings.HasPrefix(current, loginSurface) {
				c.nav.ToLogin(current)
			}
		}
	case http.StatusForbidden:
		apiErr.Err = domain.ErrForbidden
		if c.nav != nil {
			c.nav.ToForbidden()
		}
	}

	return apiErr
}

func serverMessage(payload []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return nil, errors.New("api base url host is required")
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	return parsed, nil
}

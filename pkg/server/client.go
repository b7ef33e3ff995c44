// Package server implements the REST client for the configuration server.
//
// The server exposes data bags under "data": POST data creates a bag,
// GET data lists bag names, GET data/<name> fetches a bag's items and
// DELETE data/<name> removes it. Responses are decoded JSON passed
// through to callers verbatim.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/provisio/databag/pkg/errors"
	"github.com/provisio/databag/pkg/logging"
)

// maxJSONResponseBytes is the upper bound on JSON response size (10 MB).
// Prevents unbounded memory consumption from malformed responses.
const maxJSONResponseBytes = 10 << 20

// Client talks to one configuration server
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	token      string
}

// Option configures a Client during construction
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations
func WithHTTPClient(c *http.Client) Option {
	return func(s *Client) {
		s.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(ua string) Option {
	return func(s *Client) {
		s.userAgent = ua
	}
}

// WithAuthToken sets a bearer token for authenticated servers
func WithAuthToken(token string) Option {
	return func(s *Client) {
		s.token = token
	}
}

// New creates a Client scoped to the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "databag/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches path and returns the decoded JSON response verbatim
func (c *Client) Get(ctx context.Context, path string) (interface{}, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus(resp, path); err != nil {
		return nil, err
	}
	return decodeBody(resp.Body, path)
}

// Post JSON-encodes body and creates a resource at path. An HTTP 409
// yields an error with code CONFLICT, which callers can detect with
// IsConflict.
func (c *Client) Post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode request body for %s", path)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		return errors.Newf(errors.ErrConflict, "resource already exists at %s", path).
			WithDetail("path", path)
	}
	if err := c.checkStatus(resp, path); err != nil {
		return err
	}

	// The created resource is echoed back; drain so the connection is reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxJSONResponseBytes))
	return nil
}

// Delete removes the resource at path and returns the server's decoded
// response (servers echo the deleted resource)
func (c *Client) Delete(ctx context.Context, path string) (interface{}, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus(resp, path); err != nil {
		return nil, err
	}
	return decodeBody(resp.Body, path)
}

// IsConflict reports whether err is the "already exists" signal from Post
func IsConflict(err error) bool {
	return errors.IsErrorCode(err, errors.ErrConflict)
}

// doRequest creates and executes an HTTP request with common headers
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))

	logger := logging.GetLogger("server.client")
	logger.Debug().Str("method", method).Str("url", reqURL).Msg("Issuing request")

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTransport, "failed to create %s request for %s", method, path)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTransport, "%s %s failed", method, path)
	}
	return resp, nil
}

// checkStatus translates non-2xx statuses into coded errors
func (c *Client) checkStatus(resp *http.Response, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.Newf(errors.ErrNotFound, "resource not found at %s", path).
			WithDetail("status", resp.StatusCode)
	}
	return errors.Newf(errors.ErrServer, "unexpected status %d from %s", resp.StatusCode, path).
		WithDetail("status", resp.StatusCode)
}

// decodeBody decodes a JSON response body, passing the shape through verbatim
func decodeBody(body io.Reader, path string) (interface{}, error) {
	var out interface{}
	if err := json.NewDecoder(io.LimitReader(body, maxJSONResponseBytes)).Decode(&out); err != nil {
		return nil, errors.Wrapf(err, errors.ErrServer, "failed to decode response from %s", path)
	}
	return out, nil
}

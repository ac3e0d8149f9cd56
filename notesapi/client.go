// Package notesapi is the HTTP client for the notes API.
//
// Every request goes through Client.Do, which never returns a Go error for transport or
// protocol problems. Instead it returns a Response record whose OK method is false, so
// code that drives the API can treat "the request failed" the same way whatever the
// cause: a refused connection, a timeout, an error status, or a body that is not JSON.
package notesapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DefaultTimeout bounds every request, including reading the response body.
const DefaultTimeout = 30 * time.Second

// ErrMalformedResponse is reported when a response body is present but is not valid JSON.
var ErrMalformedResponse = errors.New("invalid JSON response")

// StatusError is reported when the service answers with a status outside [200,300).
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s returned HTTP status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s returned HTTP status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Response is the outcome of one request. StatusCode is 0 if no response was received.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Data       ldvalue.Value
	Err        error
}

// OK is true only for a 2xx response whose body, if any, was valid JSON.
func (r Response) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Error returns nil if the request succeeded, or an error describing why it did not.
func (r Response) Error() error {
	if r.Err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, r.URL, r.Err)
	}
	if !r.OK() {
		return &StatusError{Method: r.Method, URL: r.URL, StatusCode: r.StatusCode, Body: string(r.Body)}
	}
	return nil
}

// Decode unmarshals the body of a successful response into target.
func (r Response) Decode(target interface{}) error {
	if err := r.Error(); err != nil {
		return err
	}
	if len(r.Body) == 0 {
		return fmt.Errorf("%s %s: empty response body", r.Method, r.URL)
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("%s %s: unexpected response shape: %w", r.Method, r.URL, err)
	}
	return nil
}

// Client issues requests to a notes API rooted at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithTimeout replaces DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient uses the given client as is, including its timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request. A non-nil body is sent as JSON. Each request is logged once with
// its status, and error responses are logged with their body.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) Response {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	r := Response{Method: method, URL: u, Data: ldvalue.Null()}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			r.Err = fmt.Errorf("could not encode request body: %w", err)
			c.logger.Error("request failed", "method", method, "url", u, "error", r.Err)
			return r
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		r.Err = err
		c.logger.Error("request failed", "method", method, "url", u, "error", err)
		return r
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		r.Err = err
		c.logger.Error("request failed", "method", method, "url", u, "error", err)
		return r
	}
	defer func() { _ = resp.Body.Close() }()

	r.StatusCode = resp.StatusCode
	r.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		r.Err = fmt.Errorf("could not read response body: %w", err)
		c.logger.Error("request failed", "method", method, "url", u, "status", r.StatusCode, "error", r.Err)
		return r
	}

	c.logger.Info(fmt.Sprintf("%s %s -> %d", method, u, r.StatusCode))
	if r.StatusCode >= 400 {
		c.logger.Error("error response", "status", r.StatusCode, "body", string(r.Body))
	}

	if len(bytes.TrimSpace(r.Body)) > 0 {
		if err := json.Unmarshal(r.Body, &r.Data); err != nil {
			r.Err = ErrMalformedResponse
			r.Data = ldvalue.Null()
			c.logger.Error("JSON decode error", "method", method, "url", u, "error", err)
		}
	}
	return r
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }

// Package api is the single HTTP gateway to the Swift Stay backend. Every call goes through
// Client.Request, which attaches the stored bearer token, decodes the response envelope and
// turns a 401 into a cleared session.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/swiftstay/admin/internal/session"
	"github.com/swiftstay/admin/internal/storage"
)

const defaultUserAgent = "swiftstay-admin"

// Client represents an HTTP client for the Swift Stay API
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      storage.Store
	session    *session.Session
	logger     zerolog.Logger
	userAgent  string

	mu        sync.Mutex
	onExpired []func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSession routes 401 handling through s so its in-memory state and subscribers follow
func WithSession(s *session.Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new API client. baseURL already includes the /api root.
func New(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		logger:     zerolog.Nop(),
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OnSessionExpired registers fn to be called once for every 401 response
func (c *Client) OnSessionExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = append(c.onExpired, fn)
}

// RequestOptions describes a single call
type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string

	// Query is a struct with `url` tags, encoded with go-querystring
	Query any
}

// Request performs exactly one HTTP round trip.
//
// A 2xx response returns the decoded envelope as-is, including success=false. A 401 clears the
// session and returns ErrSessionExpired. Any other status returns *Error. Transport failures are
// returned wrapped.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (*RawEnvelope, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	endpoint := c.baseURL + path
	if opts.Query != nil {
		values, err := query.Values(opts.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			sep := "?"
			if strings.Contains(endpoint, "?") {
				sep = "&"
			}
			endpoint += sep + encoded
		}
	}

	token, err := storage.Lookup(ctx, c.store, storage.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	var body io.Reader
	if opts.Body != nil {
		jsonData, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	log := c.logger.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("Request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Request completed")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.expire(ctx, log)
		return nil, ErrSessionExpired

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, newHTTPError(resp.StatusCode, raw)
	}

	var env RawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	env.Body = raw
	return &env, nil
}

// expire clears the session and notifies observers. Clearing an already cleared session is a no-op.
func (c *Client) expire(ctx context.Context, log zerolog.Logger) {
	ctx = context.WithoutCancel(ctx)

	var err error
	if c.session != nil {
		err = c.session.Expire(ctx)
	} else {
		for _, key := range storage.SessionKeys {
			if delErr := c.store.Delete(ctx, key); delErr != nil && err == nil {
				err = delErr
			}
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear session after 401")
	}
	log.Warn().Msg("Session expired")

	c.mu.Lock()
	observers := make([]func(), len(c.onExpired))
	copy(observers, c.onExpired)
	c.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string) (*RawEnvelope, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodGet})
}

// Post issues a POST request with an optional JSON body
func (c *Client) Post(ctx context.Context, path string, body any) (*RawEnvelope, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPost, Body: body})
}

// Put issues a PUT request with an optional JSON body
func (c *Client) Put(ctx context.Context, path string, body any) (*RawEnvelope, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPut, Body: body})
}

// Patch issues a PATCH request with an optional JSON body
func (c *Client) Patch(ctx context.Context, path string, body any) (*RawEnvelope, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodPatch, Body: body})
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) (*RawEnvelope, error) {
	return c.Request(ctx, path, RequestOptions{Method: http.MethodDelete})
}

// call performs a request and decodes its data as T
func call[T any](ctx context.Context, c *Client, path string, opts RequestOptions) (*Envelope[T], error) {
	env, err := c.Request(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return Decode[T](env)
}

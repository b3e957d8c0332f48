// Package objects is a typed client for a remote CRUD collection of
// named objects with opaque attribute maps. Every operation is one HTTP
// exchange run through a resilient executor, followed by a best-effort
// decode of the response body.
//
// The client is a pass-through: identifiers are assigned only by the remote
// system, attribute maps are serialized verbatim, and no validation beyond
// what the remote API enforces is applied client-side.
package objects

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JohnPlummer/jp-go-restcheck/executor"
)

const defaultCollection = "objects"
const defaultTimeout = 30 * time.Second

// Client performs CRUD operations against one collection of a remote API.
type Client struct {
	baseURL    string
	collection string
	http       *http.Client
	exec       *executor.Executor[*Response]
	logger     *slog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	collection string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	retryOpts  []executor.Option
}

// WithCollection sets the collection path segment (default "objects").
func WithCollection(name string) ClientOption {
	return func(c *clientConfig) {
		c.collection = name
	}
}

// WithHTTPClient replaces the underlying HTTP client. The client's own
// timeout applies as the per-exchange ceiling.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-exchange timeout (default 30s). Ignored when a
// custom HTTP client is supplied.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger for request/response diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithRetryOptions passes executor options through to the client's
// resilient executor.
//
// Example:
//
//	objects.WithRetryOptions(
//	    executor.WithMaxAttempts(5),
//	    executor.WithInitialDelay(100*time.Millisecond),
//	)
func WithRetryOptions(opts ...executor.Option) ClientOption {
	return func(c *clientConfig) {
		c.retryOpts = append(c.retryOpts, opts...)
	}
}

// NewClient creates a client for the collection rooted at baseURL.
//
// Example:
//
//	client := objects.NewClient("https://api.restful-api.dev",
//	    objects.WithTimeout(30*time.Second),
//	)
func NewClient(baseURL string, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		collection: defaultCollection,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}

	retryOpts := append([]executor.Option{executor.WithLogger(cfg.logger)}, cfg.retryOpts...)

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: cfg.collection,
		http:       cfg.httpClient,
		exec:       executor.New(func(r *Response) int { return r.StatusCode }, retryOpts...),
		logger:     cfg.logger,
	}
}

// List reads the whole collection.
func (c *Client) List(ctx context.Context) (ListResult, error) {
	resp, err := c.do(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return ListResult{}, err
	}

	objs, ok := decodeObjects(resp.Body)
	return ListResult{
		StatusCode: resp.StatusCode,
		Objects:    objs,
		Decoded:    ok,
		Raw:        resp.Body,
	}, nil
}

// Create posts a new object. The returned Result carries whatever the
// server sent back; callers should treat identifier and timestamp presence
// as the contract signals of success, not just the status code.
func (c *Client) Create(ctx context.Context, name string, data Attributes) (Result, error) {
	payload, err := json.Marshal(writeRequest{Name: name, Data: data})
	if err != nil {
		return Result{}, fmt.Errorf("encoding create request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.collectionURL(), payload)
	if err != nil {
		return Result{}, err
	}
	return objectResult(resp), nil
}

// GetByID reads one object. A non-existent identifier yields a non-success
// status with no entity; that is the caller's not-found signal, not an error.
func (c *Client) GetByID(ctx context.Context, id string) (Result, error) {
	resp, err := c.do(ctx, http.MethodGet, c.objectURL(id), nil)
	if err != nil {
		return Result{}, err
	}
	return objectResult(resp), nil
}

// Update replaces an object. PUT semantics are a full replace: attribute
// keys absent from data are gone afterwards, not merged.
func (c *Client) Update(ctx context.Context, id, name string, data Attributes) (Result, error) {
	payload, err := json.Marshal(writeRequest{Name: name, Data: data})
	if err != nil {
		return Result{}, fmt.Errorf("encoding update request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.objectURL(id), payload)
	if err != nil {
		return Result{}, err
	}
	return objectResult(resp), nil
}

// Delete destroys an object. The result's Message is informational only.
func (c *Client) Delete(ctx context.Context, id string) (DeleteResult, error) {
	resp, err := c.do(ctx, http.MethodDelete, c.objectURL(id), nil)
	if err != nil {
		return DeleteResult{}, err
	}

	msg, _ := decodeMessage(resp.Body)
	return DeleteResult{
		StatusCode: resp.StatusCode,
		Message:    msg,
		Raw:        resp.Body,
	}, nil
}

func objectResult(resp *Response) Result {
	obj, _ := decodeObject(resp.Body)
	return Result{
		StatusCode: resp.StatusCode,
		Object:     obj,
		Raw:        resp.Body,
	}
}

func (c *Client) collectionURL() string {
	return fmt.Sprintf("%s/%s", c.baseURL, c.collection)
}

// objectURL path-escapes the identifier so caller-supplied ids cannot alter
// the request path structure.
func (c *Client) objectURL(id string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.collection, url.PathEscape(id))
}

// do runs one logical operation through the executor. The request is
// rebuilt inside the operation so every retry gets a fresh body reader.
func (c *Client) do(ctx context.Context, method, u string, payload []byte) (*Response, error) {
	return c.exec.Execute(ctx, func(ctx context.Context) (*Response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, u, body)
		if err != nil {
			return nil, fmt.Errorf("building %s %s: %w", method, u, err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		httpResp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		data, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}

		resp := &Response{
			StatusCode: httpResp.StatusCode,
			Body:       data,
			Headers:    httpResp.Header,
			Elapsed:    time.Since(start),
		}

		c.logger.Debug("exchange complete",
			"method", method,
			"url", u,
			"status", resp.StatusCode,
			"content_type", resp.Headers.Get("Content-Type"),
			"elapsed", resp.Elapsed,
			"body_bytes", len(data))

		return resp, nil
	})
}

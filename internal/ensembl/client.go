// Package ensembl provides a minimal client for the Ensembl REST API.
package ensembl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public Ensembl REST endpoint.
const DefaultBaseURL = "https://rest.ensembl.org/"

// ContentTypeJSON is the only content type the pipeline requests.
const ContentTypeJSON = "application/json"

// Client issues requests against a fixed base URL.
// Paths are appended to the base URL verbatim; callers must pre-encode them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for per-request debug messages.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the base URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch issues a GET request for path and returns the response body.
// contentType is sent as the Content-Type header.
func (c *Client) Fetch(ctx context.Context, path, contentType string) (*Body, error) {
	return c.do(ctx, http.MethodGet, path, nil, contentType)
}

// Post issues a POST request for path with the given payload.
// contentType is sent as both the Accept and Content-Type headers.
// A []byte or string payload is sent as is; anything else is JSON-encoded.
func (c *Client) Post(ctx context.Context, path string, payload any, contentType string) (*Body, error) {
	data, err := encodePayload(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, data, contentType)
}

// FetchAsync runs Fetch on its own goroutine.
func (c *Client) FetchAsync(ctx context.Context, path, contentType string) *Future[*Body] {
	return Go(func() (*Body, error) {
		return c.Fetch(ctx, path, contentType)
	})
}

// PostAsync runs Post on its own goroutine.
func (c *Client) PostAsync(ctx context.Context, path string, payload any, contentType string) *Future[*Body] {
	return Go(func() (*Body, error) {
		return c.Post(ctx, path, payload, contentType)
	})
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, contentType string) (*Body, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if method == http.MethodPost {
		req.Header.Set("Accept", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", url, err)
	}

	c.logger.Debug("ensembl request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(data),
		}
	}

	return newBody(contentType, data)
}

func encodePayload(payload any) ([]byte, error) {
	switch p := payload.(type) {
	case nil:
		return []byte{}, nil
	case []byte:
		return p, nil
	case string:
		return []byte(p), nil
	default:
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		return data, nil
	}
}

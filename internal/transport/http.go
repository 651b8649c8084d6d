package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lineage-audit/emitter/internal/lineage"
)

const (
	// DefaultEndpoint is the standard OpenLineage ingestion path, relative to
	// the backend base URL.
	DefaultEndpoint = "/api/v1/lineage"

	// DefaultTimeout bounds a single request/response exchange when the
	// caller's context carries no earlier deadline.
	DefaultTimeout = 10 * time.Second

	// maxErrorBodySize caps how much of an error response body is read back
	// into the returned Error detail.
	maxErrorBodySize = 4096
)

// ErrEmptyBaseURL indicates the HTTP transport was configured without a base URL.
var ErrEmptyBaseURL = errors.New("base URL cannot be empty")

type (
	// HTTPConfig holds settings for the HTTP transport.
	HTTPConfig struct {
		// BaseURL is the lineage backend root, e.g. "http://localhost:5002".
		BaseURL string

		// Endpoint is the ingestion path appended to BaseURL.
		// Defaults to DefaultEndpoint when empty.
		Endpoint string

		// APIKey, when non-empty, is sent as a bearer token. Marquez and
		// compatible backends accept this scheme.
		APIKey string

		// Timeout bounds each request. Defaults to DefaultTimeout when zero.
		Timeout time.Duration
	}

	// HTTP delivers events with one POST per event to
	// {baseURL}{endpoint}, synchronously: Send blocks until the backend
	// responds or the request fails.
	HTTP struct {
		url    string
		apiKey string
		client *http.Client
	}
)

// Validate validates the HTTP transport configuration.
func (c *HTTPConfig) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrEmptyBaseURL
	}

	return nil
}

// NewHTTP creates an HTTP transport from config.
// The underlying http.Client is created here; pass a fully-formed config
// rather than mutating the transport afterwards.
func NewHTTP(cfg *HTTPConfig) (*HTTP, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid http transport configuration: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &HTTP{
		url:    strings.TrimRight(cfg.BaseURL, "/") + endpoint,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// URL returns the fully-resolved ingestion URL.
func (t *HTTP) URL() string {
	return t.url
}

// Send posts one event and classifies the response.
//
// 2xx responses are success. Any other status, and any network-level
// failure, returns a *Error; the event is never re-sent by this layer.
func (t *HTTP) Send(ctx context.Context, event *lineage.RunEvent) error {
	body, err := lineage.Marshal(event)
	if err != nil {
		return &Error{Transport: "http", Detail: "event serialization failed", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return &Error{Transport: "http", Detail: "request construction failed", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")

	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &Error{Transport: "http", Detail: "request failed", Err: err}
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	return &Error{
		Transport:  "http",
		StatusCode: resp.StatusCode,
		Detail:     strings.TrimSpace(string(detail)),
	}
}

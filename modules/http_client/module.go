// Package http_client provides the HttpClient component, a shared HTTP
// client with pooled connections.
package http_client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/registry"
)

// Class is the component class this module provides.
const Class = "HttpClient"

// DefaultTimeout applies when Module.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Client is a live *http.Client shared by the components that look it up.
type Client struct {
	*http.Client
}

// NewClient creates a client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{Client: &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}}
}

// Response is the result of Fetch.
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetch performs a request and reads the whole body.
func (c *Client) Fetch(ctx context.Context, method, url string) (*Response, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Making HTTP request", "method", method, "url", url)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	logger.Debug("Received HTTP response", "status", resp.Status)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	slog.Debug("Closing idle HTTP connections")
	c.CloseIdleConnections()
	return nil
}

// Module implements the registry.Module interface for this package.
type Module struct {
	Timeout time.Duration
}

// Register registers the HttpClient factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent(Class, func() (any, error) {
		timeout := m.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		return NewClient(timeout), nil
	})
}

// Package client talks to a running proxy server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Kairi/gemini/internal/config"
	"github.com/Kairi/gemini/internal/server"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// Client is an HTTP client for the proxy API
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Models lists the models the server knows.
func (c *Client) Models(ctx context.Context, apiKey string) ([]string, error) {
	var out struct {
		Models []string `json:"models"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/models", apiKey, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to fetch models: %w", err)
	}
	return out.Models, nil
}

// Chat sends one message through the server.
func (c *Client) Chat(ctx context.Context, req server.ChatRequest, apiKey string) (server.ChatResponse, error) {
	var out server.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", apiKey, req, &out); err != nil {
		return out, fmt.Errorf("failed to get response: %w", err)
	}
	return out, nil
}

// UpdateAPIKey stores a new API key in the server's configuration.
func (c *Client) UpdateAPIKey(ctx context.Context, apiKey string) error {
	body := server.APIKeyRequest{APIKey: apiKey}
	if err := c.do(ctx, http.MethodPost, "/api/config/api-key", "", body, nil); err != nil {
		return fmt.Errorf("failed to update API key: %w", err)
	}
	return nil
}

// Config returns the server's current configuration.
func (c *Client) Config(ctx context.Context) (config.Configuration, error) {
	var out config.Configuration
	if err := c.do(ctx, http.MethodGet, "/api/config", "", nil, &out); err != nil {
		return out, fmt.Errorf("failed to get config: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set(server.APIKeyHeader, apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

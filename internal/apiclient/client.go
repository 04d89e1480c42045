// Package apiclient talks to the catalog REST backend on behalf of a visitor.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog_panel/pkg/logging"
)

// TokenSource supplies the bearer token for an outgoing request.
// An empty token means the request is sent without credentials.
type TokenSource interface {
	Token(ctx context.Context) string
}

type TokenSourceFunc func(ctx context.Context) string

func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// UnauthorizedFunc runs once for every response carrying status 401.
type UnauthorizedFunc func(ctx context.Context)

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedFunc
}

// NewClient builds a client for baseURL. Requests are bounded only by their
// context; there is no client timeout and no retry.
func NewClient(baseURL string, tokens TokenSource, onUnauthorized UnauthorizedFunc) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
	}
}

// WithHTTPClient swaps the underlying transport client, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	l := logging.FromContext(ctx).With("api_method", method, "api_path", path)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(ctx); tok != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("api_call_failed", "reason", "transport", "error", err)
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		l.Warn("api_call_unauthorized", "status", resp.StatusCode)
		c.onUnauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: payloadMessage(payload),
		}
		if resp.StatusCode != http.StatusUnauthorized {
			l.Warn("api_call_failed", "status", resp.StatusCode, "reason", apiErr.Message)
		}
		return apiErr
	}

	l.Debug("api_call_success", "status", resp.StatusCode)

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

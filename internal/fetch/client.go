package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// retryableStatuses are the HTTP statuses treated as transient. Everything
// else that is not a 2xx fails the task immediately.
var retryableStatuses = map[int]struct{}{
	http.StatusInternalServerError: {},
	http.StatusBadGateway:          {},
	http.StatusGatewayTimeout:      {},
}

// Client fetches image bytes from the remote host with bounded retry on
// transient failures. It is immutable after construction and safe for
// concurrent use by all workers.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient creates a fetch client. retries is the total number of attempts
// per request; backoff is the base delay doubled after each failed attempt.
func NewClient(baseURL string, retries int, backoff, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	if retries < 1 {
		return nil, errors.New("retries must be at least 1")
	}
	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		retries:    retries,
		backoff:    backoff,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// URL returns the request URL for a catalog file reference, percent-encoding
// the reference into the path.
func (c *Client) URL(fileName string) string {
	return c.baseURL + "/" + url.PathEscape(fileName)
}

// Fetch downloads one asset and returns its bytes and declared content type.
// Connection errors, read errors, and HTTP 500/502/504 are retried with
// exponential backoff until the attempt budget is spent; any other non-2xx
// status fails immediately.
func (c *Client) Fetch(ctx context.Context, fileName string) ([]byte, string, error) {
	endpoint := c.URL(fileName)

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, "", err
			}
		}

		data, contentType, retryable, err := c.attempt(ctx, endpoint)
		if err == nil {
			return data, contentType, nil
		}
		if !retryable {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) attempt(ctx context.Context, endpoint string) (data []byte, contentType string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, "", false, ctx.Err()
		}
		return nil, "", true, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_, retry := retryableStatuses[resp.StatusCode]
		return nil, "", retry, fmt.Errorf("unexpected status %s", resp.Status)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", true, fmt.Errorf("read response body: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), false, nil
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff << (attempt - 1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

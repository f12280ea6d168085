package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

const DefaultTimeout = 10 * time.Second

// Client is the outbound HTTP capability the adapters depend on: fetch a
// URL, get a status and body back. Upstream-specific shaping (headers, host
// fallback) stays with the adapters.
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewClient(userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Text performs a GET and returns the response body as bytes. Non-2xx
// responses and network failures are reported as *TransportError.
func (c *Client) Text(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode, Message: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Message: err.Error()}
	}

	return data, nil
}

// JSON performs a GET and decodes the response body into v.
func (c *Client) JSON(ctx context.Context, url string, headers map[string]string, v any) error {
	data, err := c.Text(ctx, url, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return &ParseError{Source: "JSON response", Err: err}
	}

	return nil
}

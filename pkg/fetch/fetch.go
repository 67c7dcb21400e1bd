package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ndelcroix/wikimirror/pkg/ratelimit"
)

// defaultUserAgent identifies the mirror client to the remote site
const defaultUserAgent = "wikimirror/1.0"

// Fetcher retrieves a remote resource fully into memory.
// Implementations must drain the complete payload before returning so
// the caller can hash it; nothing is ever streamed to disk here.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetchError represents a network, transport or non-success-status failure
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client is an outbound HTTP fetcher with a per-request timeout
// and an optional shared bandwidth limit
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	limiter    *ratelimit.Limiter
}

// NewClient creates a fetcher. A nil limiter disables bandwidth limiting.
func NewClient(timeout time.Duration, userAgent string, limiter *ratelimit.Limiter) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		userAgent:  userAgent,
		limiter:    limiter,
	}
}

// Fetch retrieves the resource and buffers the full body in memory.
// It fails on connection errors, timeouts, non-2xx statuses and
// truncated bodies. No retry is performed; retry policy belongs to
// the caller.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body := ratelimit.NewReader(ctx, resp.Body, c.limiter)

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	// A short body would make the digest lie about the remote content
	if resp.ContentLength >= 0 && int64(len(data)) != resp.ContentLength {
		return nil, &FetchError{
			URL: url,
			Err: fmt.Errorf("truncated body: got %d of %d bytes", len(data), resp.ContentLength),
		}
	}

	return data, nil
}

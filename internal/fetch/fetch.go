// Package fetch downloads EPUB files over HTTP for the parse command.
package fetch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client wraps an HTTP client with retries and a response size ceiling.
type Client struct {
	rc       *resty.Client
	maxBytes int64
}

// NewClient creates a download client. maxBytes caps the accepted
// response body size; <= 0 disables the cap.
func NewClient(timeout time.Duration, retryCount int, maxBytes int64) *Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError ||
				r.StatusCode() == http.StatusTooManyRequests
		})
	return &Client{rc: rc, maxBytes: maxBytes}
}

// Download fetches url and returns the response body. Non-2xx responses
// and bodies exceeding the ceiling are errors.
func (c *Client) Download(url string) ([]byte, error) {
	resp, err := c.rc.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status())
	}
	body := resp.Body()
	if c.maxBytes > 0 && int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("fetch %s: response of %d bytes exceeds limit of %d", url, len(body), c.maxBytes)
	}
	return body, nil
}

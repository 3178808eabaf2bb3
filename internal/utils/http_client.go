package utils

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly,
// while allowing extension with additional application-specific behavior.
//
// Example usage:
//
//	client := utils.NewHTTPClient("http://127.0.0.1:8000", 5*time.Second)
//	status, body, err := client.Check(ctx, "/healthz")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an HTTPClient sending requests relative to baseURL
// and giving up on each request after timeout. A zero timeout means no limit.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "supervisor-healthcheck")

	return &HTTPClient{Client: client}
}

// Check issues a GET request for path and returns the response status code
// and body. Transport failures are returned as errors; non-2xx statuses are
// not.
func (c *HTTPClient) Check(ctx context.Context, path string) (int, []byte, error) {
	resp, err := c.R().SetContext(ctx).Get(path)
	if err != nil {
		return 0, nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp.StatusCode(), resp.Body(), nil
}

// IsHealthy reports whether status is 200 OK.
func IsHealthy(status int) bool {
	return status == http.StatusOK
}

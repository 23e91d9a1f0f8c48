// Package network provides the shared HTTP client used for media and update requests.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/keypoint-cli/keypoint/constant"
)

// MaxMediaSize bounds how much of a remote media file is read into memory.
const MaxMediaSize = 256 << 20

// Client is the HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: &userAgentTransport{base: newTransport()},
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", constant.UserAgent)
	}
	return t.base.RoundTrip(req)
}

// Fetch downloads url into memory. Non-2xx responses are errors.
func Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, MaxMediaSize))
}

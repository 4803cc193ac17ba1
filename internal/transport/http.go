//go:build !js

package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const userAgent = "hn/0.1 (github.com/johnwakley/hn)"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// httpGetter is the native backend, built on net/http. Redirects are
// followed by the default client policy; the timeout covers the whole
// request including body read.
type httpGetter struct {
	client *http.Client
}

// New returns the Getter for this platform.
func New(timeout time.Duration) Getter {
	return &httpGetter{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *httpGetter) GetJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindStatus, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &Error{Kind: KindDecode, Err: err}
	}
	return nil
}

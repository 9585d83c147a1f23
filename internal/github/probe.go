package github

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Prober checks that the GitHub API is reachable before a scheduler tick does any work.
type Prober struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewProber creates a Prober issuing HEAD requests against baseURL.
func NewProber(baseURL string, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Prober{
		url:     withTrailingSlash(baseURL),
		timeout: timeout,
		client:  &http.Client{},
	}
}

// Probe returns nil when the API answered with any non-5xx status within the timeout.
func (p *Prober) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("github unreachable: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("github unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

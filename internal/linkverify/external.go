package linkverify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sanzoku-labs/linkcheck/internal/logfields"
)

// userAgent identifies this tool on outgoing reachability probes.
const userAgent = "linkcheck/1.0"

// CheckResult is the cached outcome of probing one external URL.
type CheckResult struct {
	OK     bool
	Status int
	// Detail explains the failure; empty when OK.
	Detail string
}

// ExternalChecker probes external URLs over HTTP. Each unique URL is
// requested at most once per checker lifetime; repeated links reuse the
// cached outcome. A checker is scoped to one run and never persisted.
type ExternalChecker struct {
	client  *http.Client
	workers int

	mu    sync.Mutex
	cache map[string]CheckResult
}

// NewExternalChecker creates a checker with the given per-request timeout
// and worker bound.
func NewExternalChecker(timeout time.Duration, workers int) *ExternalChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if workers <= 0 {
		workers = 1
	}

	// Clone the default transport so HTTP_PROXY and friends keep working.
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &ExternalChecker{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		workers: workers,
		cache:   make(map[string]CheckResult),
	}
}

// CheckAll probes every URL not already cached, with at most the configured
// number of requests in flight. The returned map has an entry per input
// URL. On cancellation no new requests start; in-flight ones finish and the
// context error is returned.
func (c *ExternalChecker) CheckAll(ctx context.Context, urls []string) (map[string]CheckResult, error) {
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for _, u := range urls {
		c.mu.Lock()
		_, cached := c.cache[u]
		c.mu.Unlock()
		if cached {
			continue
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			defer func() { <-sem }()

			res := c.check(ctx, u)

			c.mu.Lock()
			c.cache[u] = res
			c.mu.Unlock()
		}(u)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[string]CheckResult, len(urls))
	c.mu.Lock()
	for _, u := range urls {
		results[u] = c.cache[u]
	}
	c.mu.Unlock()
	return results, nil
}

// check performs the single probe for one URL. Only a 200 response counts
// as reachable; redirects are followed first.
func (c *ExternalChecker) check(ctx context.Context, rawURL string) CheckResult {
	slog.Debug("Checking external URL", logfields.URL(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return CheckResult{Detail: fmt.Sprintf("Network error: %v", err)}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Debug("External URL unreachable", logfields.URL(rawURL), logfields.Error(err))
		return CheckResult{Detail: fmt.Sprintf("Network error: %v", err)}
	}
	defer func() {
		_ = resp.Body.Close() // Ignore close errors after reading
	}()

	// Discard body
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		slog.Debug("External URL returned non-OK status",
			logfields.URL(rawURL),
			logfields.Status(resp.StatusCode))
		return CheckResult{Status: resp.StatusCode, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	return CheckResult{OK: true, Status: resp.StatusCode}
}

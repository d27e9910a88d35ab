package crawl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrStatus is returned for a non-200 response.
var ErrStatus = errors.New("crawl: unexpected HTTP status")

// maxBody caps a response body.
const maxBody = 64 << 20

// fetcher performs GET requests with retry and exponential backoff.
// Network errors, 429 and 5xx responses are retried; other statuses fail
// immediately.
type fetcher struct {
	client *http.Client
	cfg    Config
	logger *zap.Logger
}

func newFetcher(cfg Config, client *http.Client, logger *zap.Logger) *fetcher {
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		}
	}
	return &fetcher{client: client, cfg: cfg, logger: logger}
}

func (f *fetcher) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	attempts := f.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(f.cfg.RetryDelayMS) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, retry, err := f.once(ctx, rawURL, accept)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || attempt == attempts {
			break
		}

		f.logger.Warn("Request failed, retrying",
			zap.String("url", rawURL),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, lastErr
}

func (f *fetcher) once(ctx context.Context, rawURL, accept string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("%w: GET %s returned %d", ErrStatus, rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read body of %s: %w", rawURL, err)
	}
	return body, false, nil
}

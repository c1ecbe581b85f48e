package client

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Downloader fetches source files over HTTP, retrying transient failures
// with exponential backoff.
type Downloader struct {
	httpClient *http.Client
	maxRetries uint64
	maxBytes   int64
}

func NewDownloader(timeout time.Duration, maxRetries uint64, maxBytes int64) *Downloader {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = 50 << 20
	}
	return &Downloader{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		maxBytes:   maxBytes,
	}
}

// Download returns the body of url. 4xx responses are not retried.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	attempt := 0

	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}

		resp, err := d.httpClient.Do(req)
		if err != nil {
			log.Printf("Download attempt %d for %s failed: %v", attempt, url, err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			log.Printf("Download attempt %d for %s returned status %d", attempt, url, resp.StatusCode)
			return fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("server returned status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if int64(len(body)) > d.maxBytes {
			return backoff.Permanent(fmt.Errorf("file exceeds %d bytes", d.maxBytes))
		}
		data = body
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, d.maxRetries), ctx)); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	return data, nil
}

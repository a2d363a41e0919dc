// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// retryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var retryBaseDelay = time.Second

const defaultMaxRetries = 5

// Publisher sends update frames to a collector over HTTP. Pipeline
// stages hold one Publisher for the lifetime of a run.
type Publisher struct {
	cfg    types.PublisherConfig
	client *http.Client
}

// NewPublisher returns a publisher for the configured collector.
func NewPublisher(cfg types.PublisherConfig) *Publisher {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Publisher{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// Publish validates a frame and POSTs it to the collector, retrying on
// HTTP 429 with exponential backoff. Any other non-2xx response is an
// error.
func (p *Publisher) Publish(ctx context.Context, u types.StreamUpdate) error {
	body, err := types.Encode(u)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.CollectorURL+"/updates", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.doWithRetry(ctx, req, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %s for step %s", resp.Status, u.Data.ID)
	}
	return nil
}

// doWithRetry executes the request and retries on HTTP 429. The delay
// starts at retryBaseDelay and doubles each attempt. If the context is
// cancelled during a backoff wait the context error is returned. After
// exhausting retries the last 429 response is returned so the caller can
// report it.
func (p *Publisher) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		clone := req.Clone(ctx)
		clone.Body = io.NopCloser(bytes.NewReader(body))

		resp, err := p.client.Do(clone)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= p.cfg.MaxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

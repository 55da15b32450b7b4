package publish

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/redeslab/flowreport/internal/config"
)

const batchSize = 100

// Poster posts records to an HTTP backend in batches, retrying with backoff.
type Poster struct {
	endpoint    string
	client      *http.Client
	token       string
	maxAttempts int
	baseDelay   time.Duration
}

// NewPoster builds a poster from the publish settings. The bearer token is read
// from the environment variable named by AuthTokenEnv.
func NewPoster(cfg config.PublishConfig) *Poster {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	client := &http.Client{
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: tlsCfg,
		},
	}

	token := ""
	if cfg.AuthTokenEnv != "" {
		token = os.Getenv(cfg.AuthTokenEnv)
	}

	return &Poster{
		endpoint:    cfg.BackendURL,
		client:      client,
		token:       token,
		maxAttempts: 6,
		baseDelay:   500 * time.Millisecond,
	}
}

// Publish sends records in batches of 100 and stops at the first batch that
// cannot be delivered.
func (p *Poster) Publish(ctx context.Context, records []Record) error {
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := p.flushWithRetry(ctx, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Poster) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// flushWithRetry posts one batch and retries with exponential backoff + jitter
func (p *Poster) flushWithRetry(ctx context.Context, items []Record) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	correlation := uuid.New().String()

	var attempt int
	for {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Correlation-ID", correlation)
		if p.token != "" {
			req.Header.Set("Authorization", "Bearer "+p.token)
		}

		resp, err := p.client.Do(req)
		if err == nil {
			// drain and close body to reuse connection
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				log.Info().Int("count", len(items)).Str("correlation", correlation).Msg("records posted")
				return nil
			}
			// server error: treat as retryable
			err = fmt.Errorf("bad status: %d", resp.StatusCode)
		}

		log.Warn().Err(err).Int("attempt", attempt).Int("count", len(items)).Msg("records post failed, will retry")

		if attempt >= p.maxAttempts {
			return fmt.Errorf("post records after %d attempts: %w", attempt, err)
		}

		backoff := time.Duration(math.Pow(2, float64(attempt-1))) * p.baseDelay
		jitter := time.Duration(rand.Int63n(int64(p.baseDelay) + 1))

		select {
		case <-time.After(backoff + jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

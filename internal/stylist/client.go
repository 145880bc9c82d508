package stylist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lookbook-app/lookbook/pkg/config"
	"github.com/lookbook-app/lookbook/pkg/logging"
	"github.com/lookbook-app/lookbook/pkg/telemetry"
)

// Client talks to the external generative styling service that seeds fresh
// inspiration posts for a profile. Requests are retried with exponential
// backoff since the service is the one slow, flaky dependency in the system.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// New creates a new stylist client
func New(cfg *config.StylistConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("stylist_url is required")
	}

	logger := logging.WithComponent("stylist-client")
	logger.Info("Stylist client initialized", zap.String("url", cfg.URL))

	return &Client{
		baseURL:    cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    time.Second,
		logger:     logger,
	}, nil
}

type seedRequest struct {
	UserID int64 `json:"user_id"`
}

type seedResponse struct {
	Posts int `json:"posts"`
}

// SeedInspirations asks the styling service to generate new inspiration
// posts for the user and returns how many were produced.
func (c *Client) SeedInspirations(ctx context.Context, userID int64) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "stylist.seed_inspirations")
	defer span.End()

	body, err := json.Marshal(seedRequest{UserID: userID})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal seed request: %w", err)
	}

	var lastErr error
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying stylist request",
				zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return 0, ctx.Err()
			}
			backoff *= 2
		}

		resp, err := c.post(ctx, "/v1/inspirations", body)
		if err != nil {
			lastErr = err
			continue
		}
		return resp.Posts, nil
	}

	return 0, fmt.Errorf("stylist request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*seedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stylist returned status %d", resp.StatusCode)
	}

	var parsed seedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &parsed, nil
}

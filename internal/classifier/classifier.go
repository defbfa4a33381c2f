// Package classifier wraps the external scan-classification service
// that turns raw scan bytes into extracted summary text. The caller
// only sees text or a classification failure.
package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrClassification indicates the upstream classifier could not
// process the scan.
var ErrClassification = errors.New("classification failed")

// System extracts summary text from raw scan bytes.
type System interface {
	Classify(ctx context.Context, data []byte) (string, error)
}

type client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// New creates a classifier client from a finalized configuration.
func New(cfg *Config, logger *slog.Logger) System {
	return &client{
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		logger:   logger.With("system", "classifier"),
	}
}

func (c *client) Classify(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		bytes.NewReader(data),
	)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrClassification, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.logger.Warn("classifier rejected scan", "status", res.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrClassification, res.StatusCode)
	}

	text, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrClassification, err)
	}

	if len(text) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrClassification)
	}

	return string(text), nil
}

package crawl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// APISource downloads the REST countries feed.
type APISource struct {
	cfg     Config
	fetcher *fetcher
	logger  *zap.Logger
}

// NewAPISource creates an API crawler. A nil client gets a default one
// with the configured timeout.
func NewAPISource(cfg Config, client *http.Client, logger *zap.Logger) *APISource {
	return &APISource{cfg: cfg, fetcher: newFetcher(cfg, client, logger), logger: logger}
}

// Fetch downloads the feed and returns its elements unparsed, in document
// order, so the snapshot keeps the source's member ordering.
func (s *APISource) Fetch(ctx context.Context) ([]json.RawMessage, error) {
	u, err := s.cfg.RequestURL()
	if err != nil {
		return nil, fmt.Errorf("invalid API url: %w", err)
	}

	body, err := s.fetcher.get(ctx, u, "application/json")
	if err != nil {
		return nil, err
	}

	records, err := splitArray(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u, err)
	}

	s.logger.Info("Fetched API records", zap.String("url", u), zap.Int("records", len(records)))
	return records, nil
}

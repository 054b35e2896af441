// Package catalog serves the card-name catalog through a look-aside cache.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smileyface/LGS-Stock-Checker-sub001/internal/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// CardNamesCacheKey is the fixed key the catalog is memoized under.
	CardNamesCacheKey = "scryfall_card_names"
	// CardNamesCacheTTL keeps the catalog for 24 hours.
	CardNamesCacheTTL = 86400 * time.Second
)

// Fetcher retrieves the full card-name catalog from the external source.
type Fetcher interface {
	FetchCardNames(ctx context.Context) ([]string, error)
}

// Service answers card-name lookups from the cache, filling it from the
// external catalog on miss. Concurrent misses for the key collapse into a
// single upstream fetch via singleflight, so a stampede costs one external
// call instead of one per caller.
type Service struct {
	cache   cache.Cache
	fetcher Fetcher
	logger  *zap.SugaredLogger
	group   singleflight.Group
}

func NewService(c cache.Cache, fetcher Fetcher, logger *zap.SugaredLogger) *Service {
	return &Service{
		cache:   c,
		fetcher: fetcher,
		logger:  logger,
	}
}

// CardNames returns the full catalog of known card names. A fetch failure
// degrades to an empty result and is never cached, so the next miss retries
// the upstream.
func (s *Service) CardNames(ctx context.Context) []string {
	var names []string
	err := cache.GetJSON(ctx, s.cache, CardNamesCacheKey, &names)
	if err == nil {
		return names
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warnw("failed to read card name catalog from cache", "error", err)
	}

	fetched, err, _ := s.group.Do(CardNamesCacheKey, func() (interface{}, error) {
		s.logger.Info("card name catalog missing from cache, fetching")

		names, err := s.fetcher.FetchCardNames(ctx)
		if err != nil {
			return nil, err
		}

		if err := cache.SetJSON(ctx, s.cache, CardNamesCacheKey, names, CardNamesCacheTTL); err != nil {
			s.logger.Warnw("failed to cache card name catalog", "error", err)
		} else {
			s.logger.Infow("cached card name catalog", "count", len(names))
		}

		return names, nil
	})
	if err != nil {
		s.logger.Warnw("failed to fetch card name catalog, returning empty result", "error", err)
		return nil
	}

	return fetched.([]string)
}

// Search returns catalog names containing the query, case-insensitively,
// capped at limit. A limit of 0 means no cap.
func (s *Service) Search(ctx context.Context, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []string
	for _, name := range s.CardNames(ctx) {
		if strings.Contains(strings.ToLower(name), query) {
			matches = append(matches, name)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}

	return matches
}

// IsKnownCard reports whether name appears in the catalog exactly,
// case-insensitively. An empty catalog (fetch failure) accepts everything
// rather than rejecting user input on upstream flakiness.
func (s *Service) IsKnownCard(ctx context.Context, name string) bool {
	names := s.CardNames(ctx)
	if len(names) == 0 {
		return true
	}

	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

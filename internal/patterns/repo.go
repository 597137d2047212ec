package patterns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/miradorstack/enginewatch/internal/cache"
	"github.com/miradorstack/enginewatch/internal/models"
)

// StoreFunc adapts a function to the Store interface.
type StoreFunc func(ctx context.Context, runID string, patterns []models.FaultPattern) error

// StorePatterns implements Store.
func (f StoreFunc) StorePatterns(ctx context.Context, runID string, patterns []models.FaultPattern) error {
	return f(ctx, runID, patterns)
}

const patternPrefix = "enginewatch:patterns:"

// CacheStore keeps the latest run summary in a cache.Provider.
type CacheStore struct {
	provider cache.Provider
	ttl      time.Duration
}

// NewCacheStore builds a Store on top of provider.
func NewCacheStore(provider cache.Provider, ttl time.Duration) *CacheStore {
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	return &CacheStore{provider: provider, ttl: ttl}
}

// StorePatterns implements Store.
func (s *CacheStore) StorePatterns(ctx context.Context, runID string, patterns []models.FaultPattern) error {
	data, err := json.Marshal(patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}
	return s.provider.Set(ctx, patternPrefix+runID, data, s.ttl)
}

// Load returns the patterns stored for runID.
func (s *CacheStore) Load(ctx context.Context, runID string) ([]models.FaultPattern, error) {
	data, err := s.provider.Get(ctx, patternPrefix+runID)
	if err != nil {
		return nil, err
	}
	var patterns []models.FaultPattern
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, fmt.Errorf("decode patterns: %w", err)
	}
	return patterns, nil
}

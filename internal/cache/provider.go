package cache

import (
	"context"
	"errors"
	"time"
)

// Provider is the key/value store behind the alert journal and the run
// summary store. Values are opaque bytes. SetNX must be atomic: the journal
// relies on it so the first delivery of a run/category wins across processes.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Close() error
}

// ErrCacheMiss signals that a key was not found or has expired.
var ErrCacheMiss = errors.New("cache miss")

// NoopProvider stores nothing. It is used when the journal is disabled.
type NoopProvider struct{}

func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// SetNX reports success so callers behave as if the key were fresh.
func (NoopProvider) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return true, nil
}

func (NoopProvider) Close() error { return nil }

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryProviderExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	provider := NewMemoryProvider()
	provider.now = func() time.Time { return now }
	ctx := context.Background()

	if err := provider.Set(ctx, "alert", []byte("sent"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, err := provider.Get(ctx, "alert")
	if err != nil || string(value) != "sent" {
		t.Fatalf("expected stored value, got %q (%v)", value, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := provider.Get(ctx, "alert"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected cache miss after expiry, got %v", err)
	}
}

func TestMemoryProviderSetNX(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	provider := NewMemoryProvider()
	provider.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := provider.SetNX(ctx, "run:temperature-high", []byte("first"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("expected first claim to succeed, got %v (%v)", ok, err)
	}
	ok, err = provider.SetNX(ctx, "run:temperature-high", []byte("second"), time.Minute)
	if err != nil || ok {
		t.Fatalf("expected second claim to fail, got %v (%v)", ok, err)
	}
	if value, _ := provider.Get(ctx, "run:temperature-high"); string(value) != "first" {
		t.Fatalf("expected first value kept, got %q", value)
	}

	now = now.Add(2 * time.Minute)
	ok, _ = provider.SetNX(ctx, "run:temperature-high", []byte("third"), time.Minute)
	if !ok {
		t.Fatalf("expected claim after expiry to succeed")
	}
}

func TestMemoryProviderCopiesValues(t *testing.T) {
	provider := NewMemoryProvider()
	ctx := context.Background()
	value := []byte("abc")
	_ = provider.Set(ctx, "k", value, 0)
	value[0] = 'z'

	got, _ := provider.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}

func TestNewRedisProviderRequiresAddr(t *testing.T) {
	if _, err := NewRedisProvider(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNoopProvider(t *testing.T) {
	var provider Provider = NoopProvider{}
	if _, err := provider.Get(context.Background(), "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected miss, got %v", err)
	}
}

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miradorstack/enginewatch/internal/cache"
	"github.com/miradorstack/enginewatch/internal/models"
)

func TestJournalFirstDeliveryWins(t *testing.T) {
	provider := cache.NewMemoryProvider()
	// Two journals on one provider stand in for two processes sharing Redis.
	first := NewJournal(provider, time.Hour, nil)
	second := NewJournal(provider, time.Hour, nil)
	alert := models.Alert{RunID: "run-7", Category: models.AlertTemperatureHigh, Principal: models.CauseCoolingFailure}
	ctx := context.Background()

	written, err := first.Record(ctx, alert, fixedNow)
	if err != nil || !written {
		t.Fatalf("expected first record to be written, got %v (%v)", written, err)
	}

	later := alert
	later.Principal = models.CauseEngineOverload
	written, err = second.Record(ctx, later, fixedNow.Add(time.Minute))
	if err != nil || written {
		t.Fatalf("expected second record to be skipped, got %v (%v)", written, err)
	}

	entry, err := second.Lookup(ctx, "run-7", models.AlertTemperatureHigh)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if entry.Principal != models.CauseCoolingFailure || !entry.SentAt.Equal(fixedNow) {
		t.Fatalf("expected the first delivery to be kept, got %+v", entry)
	}
}

func TestJournalLookupMiss(t *testing.T) {
	journal := NewJournal(cache.NewMemoryProvider(), time.Hour, nil)
	if _, err := journal.Lookup(context.Background(), "run-8", models.AlertRPMLow); !errors.Is(err, cache.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}
}

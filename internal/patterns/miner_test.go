package patterns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miradorstack/enginewatch/internal/cache"
	"github.com/miradorstack/enginewatch/internal/models"
)

type fakePatternStore struct {
	stored int
}

func (f *fakePatternStore) StorePatterns(ctx context.Context, runID string, patterns []models.FaultPattern) error {
	f.stored += len(patterns)
	return nil
}

func tick(index float64, status models.Status, principal models.FailureCause, kinds ...models.IrregularityKind) models.TickResult {
	result := models.TickResult{
		Sample:    models.Sample{TimeIndex: index},
		Status:    status,
		Principal: principal,
	}
	for _, kind := range kinds {
		result.Irregularities = append(result.Irregularities, models.Irregularity{Kind: kind})
	}
	return result
}

func TestMinerMinesPatterns(t *testing.T) {
	store := &fakePatternStore{}
	miner := NewMiner(nil, store)

	ticks := []models.TickResult{
		tick(0, models.StatusNormal, models.CauseNone),
		tick(1, models.StatusWarning, models.CauseSparkPlugWear, models.IrregularityHighVariance),
		tick(2, models.StatusCritical, models.CauseEngineOverload, models.IrregularityHighVariance),
		tick(3, models.StatusCritical, models.CauseEngineOverload, models.IrregularityHighRPM, models.IrregularityHighVariance),
	}

	patterns, err := miner.Mine(context.Background(), "run-1", ticks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("expected two patterns, got %+v", patterns)
	}
	top := patterns[0]
	if top.Cause != models.CauseEngineOverload || top.Occurrences != 2 {
		t.Fatalf("unexpected top pattern %+v", top)
	}
	if top.Prevalence != 0.5 || top.FirstSeen != 2 || top.LastSeen != 3 {
		t.Fatalf("unexpected pattern stats %+v", top)
	}
	if top.WorstStatus != models.StatusCritical {
		t.Fatalf("expected critical worst status, got %s", top.WorstStatus)
	}
	if len(top.Irregularities) == 0 || top.Irregularities[0] != models.IrregularityHighVariance {
		t.Fatalf("expected high variance as dominant irregularity, got %v", top.Irregularities)
	}
	if store.stored != 2 {
		t.Fatalf("expected patterns to be stored, got %d", store.stored)
	}
}

func TestMinerEmpty(t *testing.T) {
	patterns, err := NewMiner(nil, nil).Mine(context.Background(), "run", nil)
	if err != nil || patterns != nil {
		t.Fatalf("expected nil result, got %v (%v)", patterns, err)
	}
}

func TestCacheStoreRoundTrip(t *testing.T) {
	store := NewCacheStore(cache.NewMemoryProvider(), time.Hour)
	miner := NewMiner(nil, store)

	_, err := miner.Mine(context.Background(), "run-2", []models.TickResult{
		tick(4, models.StatusWarning, models.CauseCoolingFailure),
	})
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	loaded, err := store.Load(context.Background(), "run-2")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Cause != models.CauseCoolingFailure {
		t.Fatalf("unexpected stored patterns %+v", loaded)
	}
}

func TestMineReturnsStoreFailure(t *testing.T) {
	storeErr := errors.New("redis down")
	miner := NewMiner(nil, StoreFunc(func(context.Context, string, []models.FaultPattern) error {
		return storeErr
	}))

	patterns, err := miner.Mine(context.Background(), "run-3", []models.TickResult{
		{Principal: models.CauseCoolingFailure, Status: models.StatusCritical},
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(patterns) != 1 || patterns[0].Cause != models.CauseCoolingFailure {
		t.Fatalf("expected mined patterns despite store failure, got %+v", patterns)
	}
}

package patterns

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/miradorstack/enginewatch/internal/models"
)

// Store abstracts persistence for mined patterns.
type Store interface {
	StorePatterns(ctx context.Context, runID string, patterns []models.FaultPattern) error
}

// Miner summarises a run by grouping ticks on their principal cause.
type Miner struct {
	store  Store
	logger *slog.Logger
}

// NewMiner constructs a Miner; store may be nil for dry runs.
func NewMiner(logger *slog.Logger, store Store) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{store: store, logger: logger}
}

// Mine returns one pattern per principal cause seen in ticks, most prevalent
// first. Ticks without a cause count towards prevalence but yield no pattern.
// A store failure is returned alongside the mined patterns.
func (m *Miner) Mine(ctx context.Context, runID string, ticks []models.TickResult) ([]models.FaultPattern, error) {
	if len(ticks) == 0 {
		return nil, nil
	}

	stats := make(map[models.FailureCause]*causeAggregate)
	for _, tick := range ticks {
		if tick.Principal.IsNone() {
			continue
		}
		agg := ensureAggregate(stats, tick.Principal, tick.Sample.TimeIndex)
		agg.count++
		agg.lastSeen = tick.Sample.TimeIndex
		if tick.Status.Severity() > agg.worst.Severity() {
			agg.worst = tick.Status
		}
		for _, flag := range tick.Irregularities {
			agg.kindCounts[flag.Kind]++
		}
	}

	patterns := make([]models.FaultPattern, 0, len(stats))
	for cause, agg := range stats {
		patterns = append(patterns, models.FaultPattern{
			RunID:          runID,
			Cause:          cause,
			Occurrences:    agg.count,
			Prevalence:     float64(agg.count) / float64(len(ticks)),
			FirstSeen:      agg.firstSeen,
			LastSeen:       agg.lastSeen,
			WorstStatus:    agg.worst,
			Irregularities: agg.topKinds(3),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Occurrences != patterns[j].Occurrences {
			return patterns[i].Occurrences > patterns[j].Occurrences
		}
		return patterns[i].FirstSeen < patterns[j].FirstSeen
	})

	m.logger.Debug("patterns mined", slog.String("run_id", runID), slog.Int("ticks", len(ticks)), slog.Int("patterns", len(patterns)))

	if m.store != nil && len(patterns) > 0 {
		if err := m.store.StorePatterns(ctx, runID, patterns); err != nil {
			return patterns, fmt.Errorf("store patterns: %w", err)
		}
	}

	return patterns, nil
}

type causeAggregate struct {
	count      int
	firstSeen  float64
	lastSeen   float64
	worst      models.Status
	kindCounts map[models.IrregularityKind]int
}

func ensureAggregate(m map[models.FailureCause]*causeAggregate, cause models.FailureCause, at float64) *causeAggregate {
	agg, ok := m[cause]
	if !ok {
		agg = &causeAggregate{
			firstSeen:  at,
			worst:      models.StatusNormal,
			kindCounts: make(map[models.IrregularityKind]int),
		}
		m[cause] = agg
	}
	return agg
}

func (agg *causeAggregate) topKinds(limit int) []models.IrregularityKind {
	kinds := make([]models.IrregularityKind, 0, len(agg.kindCounts))
	for kind := range agg.kindCounts {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if agg.kindCounts[kinds[i]] != agg.kindCounts[kinds[j]] {
			return agg.kindCounts[kinds[i]] > agg.kindCounts[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	if len(kinds) > limit {
		kinds = kinds[:limit]
	}
	return kinds
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/miradorstack/enginewatch/internal/cache"
	"github.com/miradorstack/enginewatch/internal/models"
)

const journalPrefix = "enginewatch:alert:"

// JournalEntry is the record kept for a delivered alert.
type JournalEntry struct {
	RunID     string               `json:"run_id"`
	Category  models.AlertCategory `json:"category"`
	Principal models.FailureCause  `json:"principal"`
	SentAt    time.Time            `json:"sent_at"`
}

// Journal records delivered alerts in a cache.Provider so operators (and
// other processes sharing the store) can see what a run already reported.
type Journal struct {
	provider cache.Provider
	ttl      time.Duration
	logger   *slog.Logger
}

// NewJournal wraps provider; a nil provider disables recording.
func NewJournal(provider cache.Provider, ttl time.Duration, logger *slog.Logger) *Journal {
	if provider == nil {
		provider = cache.NoopProvider{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{provider: provider, ttl: ttl, logger: logger}
}

// Record stores the entry for alert unless one already exists for the same
// run and category; the first delivery wins, including across processes
// sharing a Redis journal. It reports whether this call wrote the entry.
func (j *Journal) Record(ctx context.Context, alert models.Alert, sentAt time.Time) (bool, error) {
	if j == nil {
		return false, nil
	}
	entry := JournalEntry{
		RunID:     alert.RunID,
		Category:  alert.Category,
		Principal: alert.Principal,
		SentAt:    sentAt.UTC(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("marshal journal entry: %w", err)
	}
	written, err := j.provider.SetNX(ctx, journalKey(alert.RunID, alert.Category), data, j.ttl)
	if err != nil {
		j.logger.Warn("alert journal write failed",
			slog.String("run_id", alert.RunID),
			slog.String("category", string(alert.Category)),
			slog.Any("error", err),
		)
		return false, err
	}
	if !written {
		j.logger.Info("alert already journaled",
			slog.String("run_id", alert.RunID),
			slog.String("category", string(alert.Category)),
		)
	}
	return written, nil
}

// Lookup returns the entry for runID/category or cache.ErrCacheMiss.
func (j *Journal) Lookup(ctx context.Context, runID string, category models.AlertCategory) (JournalEntry, error) {
	var entry JournalEntry
	data, err := j.provider.Get(ctx, journalKey(runID, category))
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, fmt.Errorf("decode journal entry: %w", err)
	}
	return entry, nil
}

func journalKey(runID string, category models.AlertCategory) string {
	if runID == "" {
		runID = "adhoc"
	}
	return journalPrefix + runID + ":" + string(category)
}

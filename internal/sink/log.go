package sink

import (
	"context"
	"log/slog"

	"github.com/miradorstack/enginewatch/internal/models"
)

// LogSink renders every tick as a structured log line.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink; nil uses slog.Default().
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs the tick at a level matching its status.
func (s *LogSink) Publish(ctx context.Context, tick models.TickResult) error {
	level := slog.LevelInfo
	switch tick.Status {
	case models.StatusCritical:
		level = slog.LevelWarn
	case models.StatusNormal:
		level = slog.LevelDebug
	}

	flags := make([]string, 0, len(tick.Irregularities))
	for _, flag := range tick.Irregularities {
		flags = append(flags, flag.Description)
	}

	s.logger.Log(ctx, level, "engine status",
		slog.String("run_id", tick.RunID),
		slog.Float64("time_index", tick.Sample.TimeIndex),
		slog.Float64("rpm", tick.Sample.RPM),
		slog.Float64("temperature", tick.Sample.Temperature),
		slog.String("status", string(tick.Status)),
		slog.Any("irregularities", flags),
		slog.String("principal", tick.Principal.String()),
		slog.Int("alerts", len(tick.Alerts)),
	)
	return nil
}

// Close is a no-op.
func (s *LogSink) Close() error { return nil }

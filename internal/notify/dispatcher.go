package notify

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/miradorstack/enginewatch/internal/metrics"
	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/utils"
)

const latencyReportEvery = 20

// Result describes a single dispatch attempt.
type Result struct {
	Sent    bool
	Latency time.Duration
	Err     error
}

// Dispatcher formats alerts and pushes them through a Channel. It performs
// exactly one attempt per call; suppression is the caller's concern.
type Dispatcher struct {
	logger   *slog.Logger
	channel  Channel
	location *time.Location
	journal  *Journal
	latency  *utils.LatencyTracker
	now      func() time.Time
	attempts atomic.Int64
}

// NewDispatcher builds a dispatcher. A nil location renders timestamps in UTC.
func NewDispatcher(channel Channel, location *time.Location, journal *Journal, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &Dispatcher{
		logger:   logger,
		channel:  channel,
		location: location,
		journal:  journal,
		latency:  utils.NewLatencyTracker(256),
		now:      time.Now,
	}
}

// Dispatch never panics; failures are reported in Result.Err, typically as
// a *DispatchFailure.
func (d *Dispatcher) Dispatch(ctx context.Context, alert models.Alert) Result {
	if d.channel == nil {
		return Result{Err: ErrNotConfigured}
	}

	sentAt := d.now()
	text := FormatMessage(sentAt, d.location, alert)

	start := time.Now()
	err := d.channel.Send(ctx, text)
	elapsed := time.Since(start)

	metrics.ObserveDispatch(elapsed)
	d.latency.Observe(elapsed)
	d.reportLatency()

	attrs := []any{
		slog.String("run_id", alert.RunID),
		slog.String("category", string(alert.Category)),
		slog.String("principal", alert.Principal.Key()),
		slog.Duration("latency", elapsed),
	}
	if err != nil {
		if failure, ok := AsDispatchFailure(err); ok {
			attrs = append(attrs, slog.String("kind", string(failure.Kind)), slog.Int("status", failure.StatusCode))
		}
		d.logger.Warn("alert dispatch failed", append(attrs, slog.Any("error", err))...)
		return Result{Latency: elapsed, Err: err}
	}

	d.logger.Info("alert dispatched", attrs...)
	if d.journal != nil {
		_, _ = d.journal.Record(ctx, alert, sentAt)
	}
	return Result{Sent: true, Latency: elapsed}
}

// LatencyP95 returns the 95th percentile of recent dispatch latencies.
func (d *Dispatcher) LatencyP95() time.Duration {
	return d.latency.Percentile(95)
}

func (d *Dispatcher) reportLatency() {
	if d.attempts.Add(1)%latencyReportEvery != 0 {
		return
	}
	d.logger.Info("dispatch latency",
		slog.Int("samples", d.latency.Count()),
		slog.Duration("p95", d.LatencyP95()),
		slog.Duration("mean", d.latency.Mean()),
	)
}

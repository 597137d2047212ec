package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/miradorstack/enginewatch/internal/engine"
	"github.com/miradorstack/enginewatch/internal/metrics"
	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/notify"
	"github.com/miradorstack/enginewatch/internal/patterns"
)

// Source yields samples in order. io.EOF ends the run normally.
type Source interface {
	Next(ctx context.Context) (models.Sample, error)
}

// Sink receives every tick result (the display layer).
type Sink interface {
	Publish(ctx context.Context, tick models.TickResult) error
}

// Dispatcher delivers alerts.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert models.Alert) notify.Result
}

// Config controls a Monitor.
type Config struct {
	HistorySize   int
	Cadence       time.Duration
	NotifyEnabled bool
}

// Monitor is the orchestrator: for each sample it updates the run's RPM
// history, infers a principal cause, classifies status, dispatches claimed
// alerts and publishes the tick to every sink.
type Monitor struct {
	logger     *slog.Logger
	cfg        Config
	inference  *engine.InferenceEngine
	dispatcher Dispatcher
	sinks      []Sink
	miner      *patterns.Miner
	listener   StateListener
	now        func() time.Time
}

// New constructs a Monitor. dispatcher may be nil when notifications are off.
func New(cfg Config, inference *engine.InferenceEngine, dispatcher Dispatcher, sinks []Sink, miner *patterns.Miner, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	if inference == nil {
		inference = engine.NewInferenceEngine(nil, logger)
	}
	if miner == nil {
		miner = patterns.NewMiner(logger, nil)
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = engine.DefaultHistorySize
	}
	if dispatcher == nil {
		cfg.NotifyEnabled = false
	}
	return &Monitor{
		logger:     logger,
		cfg:        cfg,
		inference:  inference,
		dispatcher: dispatcher,
		sinks:      sinks,
		miner:      miner,
		now:        time.Now,
	}
}

// OnStateChange registers a listener for lifecycle transitions of runs
// created after the call.
func (m *Monitor) OnStateChange(listener StateListener) {
	m.listener = listener
}

// NewRun creates a run with an empty history and nothing sent.
func (m *Monitor) NewRun(thresholds models.Thresholds) *RunState {
	return newRunState(thresholds, m.cfg.HistorySize, m.listener)
}

// OnSample processes exactly one sample. It is safe to drive from any
// scheduler (timer, test harness, replay).
func (m *Monitor) OnSample(ctx context.Context, run *RunState, sample models.Sample) models.TickResult {
	run.history.Push(sample.RPM)
	inference := m.inference.Infer(sample.Temperature, sample.RPM, run.history.Values())

	status := run.Thresholds.Classify(sample.Temperature, sample.RPM, len(inference.Irregularities) > 0)
	tick := models.TickResult{
		RunID:          run.ID,
		Sample:         sample,
		Status:         status,
		Irregularities: inference.Irregularities,
		Causes:         inference.Causes,
		Principal:      inference.Principal,
		ProcessedAt:    m.now(),
	}

	if m.cfg.NotifyEnabled {
		for _, alert := range buildAlerts(run.Thresholds, sample) {
			alert.RunID = run.ID
			alert.Irregularities = inference.Irregularities
			alert.Principal = inference.Principal
			if outcome, attempted := m.dispatch(ctx, run, alert); attempted {
				tick.Alerts = append(tick.Alerts, outcome)
			}
		}
	}

	kinds := make([]string, 0, len(tick.Irregularities))
	for _, flag := range tick.Irregularities {
		kinds = append(kinds, string(flag.Kind))
	}
	metrics.ObserveTick(string(status), kinds, tick.Principal.Key())

	run.record(tick)
	for _, sink := range m.sinks {
		if err := sink.Publish(ctx, tick); err != nil {
			m.logger.Warn("display sink publish failed", slog.String("run_id", run.ID), slog.Any("error", err))
		}
	}
	return tick
}

func (m *Monitor) dispatch(ctx context.Context, run *RunState, alert models.Alert) (models.AlertOutcome, bool) {
	if !run.ClaimAlert(alert.Category) {
		metrics.ObserveAlert(string(alert.Category), metrics.OutcomeSuppressed)
		return models.AlertOutcome{}, false
	}

	// The claim stands even when delivery fails: one attempt per category per run.
	result := m.dispatcher.Dispatch(ctx, alert)
	outcome := models.AlertOutcome{Category: alert.Category, Sent: result.Sent, Latency: result.Latency}
	if result.Err != nil || !result.Sent {
		if result.Err != nil {
			outcome.Error = result.Err.Error()
		}
		metrics.ObserveAlert(string(alert.Category), metrics.OutcomeFailed)
		return outcome, true
	}
	metrics.ObserveAlert(string(alert.Category), metrics.OutcomeSent)
	return outcome, true
}

// Run drives OnSample from src at the configured cadence until the source
// is exhausted, the run is stopped or ctx is cancelled. The active flag is
// checked before each sample.
func (m *Monitor) Run(ctx context.Context, run *RunState, src Source) ([]models.FaultPattern, error) {
	if err := run.Start(ctx); err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	metrics.RunStarted()
	defer metrics.RunFinished()

	m.logger.Info("monitoring run started",
		slog.String("run_id", run.ID),
		slog.Duration("cadence", m.cfg.Cadence),
		slog.Bool("notify", m.cfg.NotifyEnabled),
	)

	var ticker *time.Ticker
	if m.cfg.Cadence > 0 {
		ticker = time.NewTicker(m.cfg.Cadence)
		defer ticker.Stop()
	}

	runErr := m.loop(ctx, run, src, ticker)
	finishCtx := context.WithoutCancel(ctx)
	var stateErr error
	if runErr == nil && run.State() == StateRunning {
		stateErr = run.complete(finishCtx)
	} else {
		stateErr = run.Stop(finishCtx)
	}
	if stateErr != nil {
		m.logger.Warn("run state transition failed", slog.String("run_id", run.ID), slog.Any("error", stateErr))
	}

	summary, err := m.miner.Mine(finishCtx, run.ID, run.Ticks())
	if err != nil {
		m.logger.Warn("run summary not stored", slog.String("run_id", run.ID), slog.Any("error", err))
	}
	m.logSummary(run, summary)

	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		return summary, nil
	}
	return summary, runErr
}

func (m *Monitor) loop(ctx context.Context, run *RunState, src Source, ticker *time.Ticker) error {
	first := true
	for {
		if !first && ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		first = false

		if err := ctx.Err(); err != nil {
			return err
		}
		if !run.Active() {
			return nil
		}

		sample, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("next sample: %w", err)
		}
		if !run.Active() {
			return nil
		}
		m.OnSample(ctx, run, sample)
	}
}

func (m *Monitor) logSummary(run *RunState, summary []models.FaultPattern) {
	ticks := run.Ticks()
	sent := 0
	failed := 0
	for _, tick := range ticks {
		for _, alert := range tick.Alerts {
			if alert.Sent {
				sent++
			} else {
				failed++
			}
		}
	}

	attrs := []any{
		slog.String("run_id", run.ID),
		slog.String("state", run.State()),
		slog.Int("samples", len(ticks)),
		slog.Int("alerts_sent", sent),
		slog.Int("alerts_failed", failed),
	}
	if len(summary) > 0 {
		attrs = append(attrs,
			slog.String("top_cause", summary[0].Cause.String()),
			slog.Float64("top_cause_prevalence", summary[0].Prevalence),
		)
	}
	m.logger.Info("monitoring run finished", attrs...)
}

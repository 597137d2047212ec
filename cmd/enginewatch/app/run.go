package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/miradorstack/enginewatch/internal/api"
	"github.com/miradorstack/enginewatch/internal/config"
	"github.com/miradorstack/enginewatch/internal/metrics"
	"github.com/miradorstack/enginewatch/internal/monitor"
	"github.com/miradorstack/enginewatch/internal/notify"
	"github.com/miradorstack/enginewatch/internal/patterns"
)

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start a monitoring run over the configured telemetry source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return runMonitor(cmd.Context(), cfg, logger)
		},
	}
}

func runMonitor(parent context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting enginewatch",
		slog.String("source", cfg.Source.Kind),
		slog.String("address", cfg.Server.Address),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	provider := newCacheProvider(ctx, cfg.Cache, logger)
	defer provider.Close()

	journal := notify.NewJournal(provider, cfg.Cache.AlertTTL, logger)
	telegram, err := newDispatcher(cfg.Notify, journal, logger)
	if err != nil {
		return err
	}
	var dispatcher monitor.Dispatcher
	if telegram != nil {
		dispatcher = telegram
	}

	src, err := newSource(cfg.Source, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	closers, err := newSinks(cfg.Sink, logger)
	if err != nil {
		return err
	}
	sinks := make([]monitor.Sink, 0, len(closers))
	for _, s := range closers {
		sinks = append(sinks, s)
		defer s.Close()
	}

	miner := patterns.NewMiner(logger, patterns.NewCacheStore(provider, cfg.Cache.PatternsTTL))
	mon := monitor.New(monitor.Config{
		HistorySize:   cfg.Monitor.HistorySize,
		Cadence:       cfg.Monitor.Cadence,
		NotifyEnabled: cfg.Notify.Enabled,
	}, newInference(cfg.Monitor, logger), dispatcher, sinks, miner, logger)

	var server *api.Server
	if cfg.Server.Address != "" {
		server, err = api.NewServer(cfg.Server)
		if err != nil {
			return err
		}
		mon.OnStateChange(healthListener(server))
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if server != nil {
		g.Go(func() error {
			logger.Info("gRPC health server listening", slog.String("address", server.Address()))
			if err := server.Start(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("gRPC server: %w", err)
			}
			return nil
		})
	}
	if metricsServer != nil {
		g.Go(func() error {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	run := mon.NewRun(cfg.Monitor.Thresholds)
	g.Go(func() error {
		defer shutdownServers(cfg.Server, server, metricsServer, logger)
		if _, err := mon.Run(gctx, run, src); err != nil {
			return fmt.Errorf("run %s: %w", run.ID, err)
		}
		return nil
	})

	err = g.Wait()
	logger.Info("enginewatch stopped")
	return err
}

// shutdownServers stops the listeners once the run is over, whether it
// completed, was cancelled or failed.
func shutdownServers(cfg config.ServerConfig, server *api.Server, metricsServer *http.Server, logger *slog.Logger) {
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulTimeout)
		server.Shutdown(shutdownCtx)
		cancel()
	}
	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}
}

type runTracker interface {
	RunStarted()
	RunFinished()
}

// healthListener flips the monitor health status on entering and leaving
// the running state.
func healthListener(tracker runTracker) monitor.StateListener {
	return func(_ *monitor.RunState, from, to string) {
		switch {
		case to == monitor.StateRunning:
			tracker.RunStarted()
		case from == monitor.StateRunning:
			tracker.RunFinished()
		}
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/miradorstack/enginewatch/internal/cache"
	"github.com/miradorstack/enginewatch/internal/config"
	"github.com/miradorstack/enginewatch/internal/engine"
	"github.com/miradorstack/enginewatch/internal/models"
	"github.com/miradorstack/enginewatch/internal/monitor"
	"github.com/miradorstack/enginewatch/internal/notify"
	"github.com/miradorstack/enginewatch/internal/sink"
	"github.com/miradorstack/enginewatch/internal/source"
	"github.com/miradorstack/enginewatch/internal/utils"
)

// newCacheProvider returns Redis when configured and reachable, otherwise
// an in-process provider. The returned provider must be closed.
func newCacheProvider(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) cache.Provider {
	if !cfg.Enabled || cfg.Addr == "" {
		return cache.NewMemoryProvider()
	}
	provider, err := cache.NewRedisProvider(ctx, cache.RedisConfig{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
		TLS:          cfg.TLS,
	})
	if err != nil {
		logger.Warn("redis cache unavailable, using in-memory journal", slog.Any("error", err))
		return cache.NewMemoryProvider()
	}
	return provider
}

// newDispatcher wires the Telegram channel. It returns nil when
// notifications are disabled.
func newDispatcher(cfg config.NotifyConfig, journal *notify.Journal, logger *slog.Logger) (*notify.Dispatcher, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("notify.timezone: %w", err)
	}
	if cfg.Token == "" || cfg.ChatID == "" {
		logger.Warn("telegram token or chat id missing, alerts will fail until configured")
	}
	channel := notify.NewTelegram(cfg.BaseURL, cfg.Token, cfg.ChatID, cfg.Timeout)
	return notify.NewDispatcher(channel, loc, journal, logger), nil
}

func newInference(cfg config.MonitorConfig, logger *slog.Logger) *engine.InferenceEngine {
	return engine.NewInferenceEngine(engine.NewAnalyzer(cfg.Analyzer), logger)
}

// closableSource is a monitor.Source that owns resources.
type closableSource interface {
	monitor.Source
	Close() error
}

func newSource(cfg config.SourceConfig, logger *slog.Logger) (closableSource, error) {
	if cfg.Kind == config.SourceKafka {
		return source.NewKafka(source.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, logger)
	}
	samples, err := loadSamples(cfg)
	if err != nil {
		return nil, err
	}
	return source.NewSlice(samples), nil
}

// loadSamples materialises a finite source.
func loadSamples(cfg config.SourceConfig) ([]models.Sample, error) {
	switch cfg.Kind {
	case config.SourceSynthetic, "":
		return source.Synthetic(cfg.Seed, cfg.Points), nil
	case config.SourceReplay:
		return source.LoadReplay(cfg.File)
	case config.SourceKafka:
		return nil, errors.New("kafka is a live source and cannot be analysed as a series")
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

type closableSink interface {
	monitor.Sink
	Close() error
}

func newSinks(cfg config.SinkConfig, logger *slog.Logger) ([]closableSink, error) {
	sinks := []closableSink{sink.NewLogSink(logger)}
	if !cfg.Kafka.Enabled {
		return sinks, nil
	}
	kafkaSink, err := sink.NewKafkaSink(sink.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.Topic,
		WriteTimeout: cfg.Kafka.WriteTimeout,
		Compression:  cfg.Kafka.Compression,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka sink: %w", err)
	}
	return append(sinks, kafkaSink), nil
}

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/miradorstack/enginewatch/internal/models"
)

// KafkaConfig describes a live telemetry topic.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
	MaxWait  time.Duration
}

// Kafka consumes JSON-encoded samples from a topic. It never returns io.EOF;
// the stream ends when ctx is cancelled.
type Kafka struct {
	reader *kafka.Reader
	logger *slog.Logger
}

// NewKafka creates a consumer group reader for cfg.
func NewKafka(cfg KafkaConfig, logger *slog.Logger) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "enginewatch"
	}
	if cfg.MinBytes <= 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 500 * time.Millisecond
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
		MaxWait:  cfg.MaxWait,
	})
	return &Kafka{reader: reader, logger: logger}, nil
}

// Next blocks until a decodable sample arrives. Malformed messages are
// logged and skipped.
func (k *Kafka) Next(ctx context.Context) (models.Sample, error) {
	for {
		msg, err := k.reader.ReadMessage(ctx)
		if err != nil {
			return models.Sample{}, fmt.Errorf("read telemetry: %w", err)
		}
		sample, err := DecodeSample(msg.Value)
		if err != nil {
			k.logger.Warn("skipping malformed telemetry message",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err),
			)
			continue
		}
		return sample, nil
	}
}

// Close releases the reader.
func (k *Kafka) Close() error {
	return k.reader.Close()
}

// DecodeSample parses one JSON sample as published by the telemetry feed.
func DecodeSample(data []byte) (models.Sample, error) {
	var sample models.Sample
	if err := json.Unmarshal(data, &sample); err != nil {
		return models.Sample{}, fmt.Errorf("decode sample: %w", err)
	}
	return sample, nil
}

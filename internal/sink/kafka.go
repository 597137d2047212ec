package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"github.com/miradorstack/enginewatch/internal/models"
)

// ErrSinkClosed is returned by Publish after Close.
var ErrSinkClosed = errors.New("sink is closed")

// KafkaConfig controls the display topic writer.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
	BatchTimeout time.Duration
	Compression  string
	RequiredAcks int
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes tick results as JSON, keyed by run ID so one run
// stays on one partition.
type KafkaSink struct {
	writer  messageWriter
	closed  atomic.Bool
	written atomic.Uint64
}

// NewKafkaSink creates a synchronous kafka-go writer for cfg.
func NewKafkaSink(cfg KafkaConfig) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
		Compression:  getCompression(cfg.Compression),
		Async:        false,
	}
	return &KafkaSink{writer: writer}, nil
}

func getCompression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Gzip
	case "snappy":
		return compress.Snappy
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.None
	}
}

// Publish writes one message per tick.
func (s *KafkaSink) Publish(ctx context.Context, tick models.TickResult) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	data, err := json.Marshal(tick)
	if err != nil {
		return fmt.Errorf("marshal tick: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(tick.RunID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(tick.RunID)},
			{Key: "status", Value: []byte(tick.Status)},
		},
		Time: tick.ProcessedAt,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish tick: %w", err)
	}
	s.written.Add(1)
	return nil
}

// Written returns the number of ticks published.
func (s *KafkaSink) Written() uint64 { return s.written.Load() }

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.writer.Close()
}

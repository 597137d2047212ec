package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/miradorstack/enginewatch/internal/models"
)

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleTick() models.TickResult {
	return models.TickResult{
		RunID:       "run-9",
		Sample:      models.Sample{TimeIndex: 6, RPM: 3300, Temperature: 90},
		Status:      models.StatusCritical,
		Principal:   models.CauseThrottleFault,
		ProcessedAt: time.Unix(1_700_000_000, 0).UTC(),
	}
}

func TestKafkaSinkPublish(t *testing.T) {
	writer := &fakeWriter{}
	sink := &KafkaSink{writer: writer}

	if err := sink.Publish(context.Background(), sampleTick()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(writer.messages) != 1 || sink.Written() != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "run-9" {
		t.Fatalf("expected run id key, got %q", msg.Key)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if decoded["status"] != "critical" || decoded["principal"] != "throttle_fault" {
		t.Fatalf("unexpected payload %v", decoded)
	}

	if err := sink.Close(); err != nil || !writer.closed {
		t.Fatalf("expected writer to close, err=%v", err)
	}
	if err := sink.Publish(context.Background(), sampleTick()); !errors.Is(err, ErrSinkClosed) {
		t.Fatalf("expected ErrSinkClosed, got %v", err)
	}
}

func TestNewKafkaSinkValidates(t *testing.T) {
	if _, err := NewKafkaSink(KafkaConfig{Topic: "t"}); err == nil {
		t.Fatalf("expected broker error")
	}
	if _, err := NewKafkaSink(KafkaConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Fatalf("expected topic error")
	}
	sink, err := NewKafkaSink(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "engine.status", Compression: "lz4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = sink.Close()
}

func TestLogSinkPublish(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sink := NewLogSink(logger)

	tick := sampleTick()
	tick.Irregularities = models.Reported("abnormally high RPM (>3200)")
	if err := sink.Publish(context.Background(), tick); err != nil {
		t.Fatalf("publish: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "status=critical") {
		t.Fatalf("unexpected log output %q", out)
	}
	if !strings.Contains(out, "throttle fault") {
		t.Fatalf("expected principal label in %q", out)
	}
}

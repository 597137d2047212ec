package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestNewLoggerToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, "warn", true)
	logger.Info("dropped")
	logger.Warn("kept", slog.String("category", "rpm-high"))

	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record); err != nil {
		t.Fatalf("expected single json record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "kept" || record["category"] != "rpm-high" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestUserMessage(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", NewAppError("scenarios.Lookup", "unknown fault", base))
	if UserMessage(err) != "unknown fault" {
		t.Fatalf("unexpected message %q", UserMessage(err))
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected AppError to unwrap to base error")
	}
	if UserMessage(base) != "boom" {
		t.Fatalf("expected plain error text")
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENGINEWATCH_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	th := cfg.Monitor.Thresholds
	if th.TempMin != 70 || th.TempMax != 85 || th.RPMMin != 1800 || th.RPMMax != 3200 {
		t.Fatalf("unexpected default thresholds %+v", th)
	}
	if cfg.Monitor.HistorySize != 10 || cfg.Monitor.Cadence != 500*time.Millisecond {
		t.Fatalf("unexpected monitor defaults %+v", cfg.Monitor)
	}
	if !cfg.Notify.Enabled || cfg.Notify.Timezone != "America/Monterrey" {
		t.Fatalf("unexpected notify defaults %+v", cfg.Notify)
	}
	if cfg.Source.Kind != SourceSynthetic || cfg.Source.Seed != 42 || cfg.Source.Points != 24 {
		t.Fatalf("unexpected source defaults %+v", cfg.Source)
	}
	if cfg.Monitor.Analyzer.VariancePercent != 15 || cfg.Monitor.Analyzer.PatternWindow != 5 {
		t.Fatalf("unexpected analyzer defaults %+v", cfg.Monitor.Analyzer)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enginewatch.yaml")
	if err := os.WriteFile(path, []byte(`
monitor:
  cadence: 1s
  thresholds:
    tempMin: 60
    tempMax: 95
    rpmMin: 1500
    rpmMax: 3500
  analyzer:
    variancePercent: 20
notify:
  token: from-file
  chatID: "123"
source:
  kind: replay
  file: samples.yaml
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ENGINEWATCH_TELEGRAM_TOKEN", "from-env")
	t.Setenv("ENGINEWATCH_RPM_MAX", "3600")
	t.Setenv("ENGINEWATCH_NOTIFY_ENABLED", "false")
	t.Setenv("ENGINEWATCH_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Monitor.Cadence != time.Second || cfg.Monitor.Thresholds.TempMax != 95 {
		t.Fatalf("file values not applied: %+v", cfg.Monitor)
	}
	if cfg.Monitor.Thresholds.RPMMax != 3600 {
		t.Fatalf("env override not applied: %+v", cfg.Monitor.Thresholds)
	}
	if cfg.Monitor.Analyzer.VariancePercent != 20 || cfg.Monitor.Analyzer.LowRPM != 1000 {
		t.Fatalf("analyzer merge incorrect: %+v", cfg.Monitor.Analyzer)
	}
	if cfg.Notify.Token != "from-env" || cfg.Notify.ChatID != "123" || cfg.Notify.Enabled {
		t.Fatalf("unexpected notify config %+v", cfg.Notify)
	}
	if len(cfg.Sink.Kafka.Brokers) != 2 || cfg.Sink.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.Sink.Kafka.Brokers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := defaultConfig()
	cfg.Monitor.Thresholds.TempMin = 90
	cfg.Source.Kind = "serial"
	cfg.Cache.Enabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"tempMin", "source.kind", "cache.addr"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

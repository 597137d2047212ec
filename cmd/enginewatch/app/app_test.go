package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/miradorstack/enginewatch/internal/config"
	"github.com/miradorstack/enginewatch/internal/monitor"
	"github.com/miradorstack/enginewatch/internal/utils"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enginewatch.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewEnginewatchCommand(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommandPrintsSummary(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\n")

	out, err := execute(t, "--config", path, "analyze")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "Samples: 24") || !strings.Contains(out, "RPM variation:") {
		t.Fatalf("unexpected summary output:\n%s", out)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\nsource:\n  points: 6\n")

	out, err := execute(t, "--config", path, "analyze", "--json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if decoded["points"].(float64) != 6 {
		t.Fatalf("expected 6 points, got %v", decoded["points"])
	}
}

func TestTestAlertWithNotificationsDisabled(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\nnotify:\n  enabled: false\n")

	out, err := execute(t, "--config", path, "test-alert")
	if err != nil {
		t.Fatalf("test-alert: %v", err)
	}
	if !strings.Contains(out, "Test alert from Predictive Maintenance") {
		t.Fatalf("expected preview of the test alert, got:\n%s", out)
	}
	if !strings.Contains(out, "Notifications disabled") {
		t.Fatalf("expected disabled notice, got:\n%s", out)
	}
}

func TestSimulateSendsAlert(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		texts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		mu.Lock()
		paths = append(paths, r.URL.Path)
		texts = append(texts, payload.Text)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	path := writeConfig(t, "logging:\n  level: error\nnotify:\n  enabled: true\n  baseURL: "+srv.URL+"\n  token: TOKEN\n  chatID: \"42\"\n")

	out, err := execute(t, "--config", path, "simulate", "overload", "--temperature", "120")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "Alert sent") {
		t.Fatalf("expected confirmation, got:\n%s", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected requests: %v", paths)
	}
	if !strings.Contains(texts[0], "SIMULATION") || !strings.Contains(texts[0], "120°C") {
		t.Fatalf("unexpected alert text: %q", texts[0])
	}
}

func TestSimulateUnknownFault(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: error\nnotify:\n  enabled: false\n")

	_, err := execute(t, "--config", path, "simulate", "gremlins")
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if !strings.Contains(appErr.Msg, "overload") {
		t.Fatalf("expected known faults listed, got %q", appErr.Msg)
	}
}

func TestLoadSamples(t *testing.T) {
	samples, err := loadSamples(config.SourceConfig{Kind: config.SourceSynthetic, Seed: 42, Points: 24})
	if err != nil || len(samples) != 24 {
		t.Fatalf("expected 24 synthetic samples, got %d (%v)", len(samples), err)
	}

	if _, err := loadSamples(config.SourceConfig{Kind: config.SourceKafka}); err == nil {
		t.Fatalf("expected kafka to be rejected as a finite series")
	}

	replay := writeConfig(t, "samples:\n  - rpm: 2500\n    temperature: 80\n  - rpm: 600\n    temperature: 90\n")
	samples, err = loadSamples(config.SourceConfig{Kind: config.SourceReplay, File: replay})
	if err != nil || len(samples) != 2 {
		t.Fatalf("expected 2 replay samples, got %d (%v)", len(samples), err)
	}
}

func TestRunMonitorCompletesFiniteSource(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
server:
  address: ""
  metricsAddress: ""
monitor:
  cadence: 0s
notify:
  enabled: false
source:
  points: 5
`))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	logger := utils.NewLoggerTo(io.Discard, "error", false)

	if err := runMonitor(context.Background(), cfg, logger); err != nil {
		t.Fatalf("run: %v", err)
	}
}

type countingTracker struct{ started, finished int }

func (c *countingTracker) RunStarted()  { c.started++ }
func (c *countingTracker) RunFinished() { c.finished++ }

func TestHealthListenerFollowsRunningState(t *testing.T) {
	tracker := &countingTracker{}
	listener := healthListener(tracker)

	listener(nil, monitor.StateIdle, monitor.StateRunning)
	listener(nil, monitor.StateRunning, monitor.StateCompleted)
	listener(nil, monitor.StateIdle, monitor.StateStopped)

	if tracker.started != 1 || tracker.finished != 1 {
		t.Fatalf("expected one start and one finish, got %+v", tracker)
	}
}

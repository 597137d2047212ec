package engine

import (
	"testing"

	"github.com/miradorstack/enginewatch/internal/models"
)

func TestInferOverloadBeatsCooling(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)

	result := engine.Infer(111, 2500, repeat(2500, 10))
	if !containsCause(result.Causes, models.CauseCoolingFailure) || !containsCause(result.Causes, models.CauseEngineOverload) {
		t.Fatalf("expected cooling and overload candidates, got %v", result.Causes)
	}
	if result.Principal != models.CauseEngineOverload {
		t.Fatalf("expected engine overload, got %s", result.Principal)
	}
}

func TestInferCoolingOnly(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)

	result := engine.Infer(105, 2500, repeat(2500, 10))
	if result.Principal != models.CauseCoolingFailure {
		t.Fatalf("expected cooling failure, got %s", result.Principal)
	}
	if containsCause(result.Causes, models.CauseEngineOverload) {
		t.Fatalf("did not expect overload at 105, got %v", result.Causes)
	}
}

func TestInferNoEvidence(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)

	result := engine.Infer(50, 2500, repeat(2500, 10))
	if result.Principal != models.CauseNone {
		t.Fatalf("expected sentinel, got %s", result.Principal)
	}
	if result.Principal.String() != "no fault detected" {
		t.Fatalf("unexpected sentinel label %q", result.Principal.String())
	}
	if len(result.Irregularities) != 0 || len(result.Causes) != 0 {
		t.Fatalf("expected empty flags and causes, got %+v", result)
	}
}

func TestInferSparkPlugWearPriority(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)
	history := append(repeat(2500, 9), 600)

	result := engine.Infer(80, 600, history)
	if result.Principal != models.CauseSparkPlugWear {
		t.Fatalf("expected spark plug wear, got %s (%v)", result.Principal, result.Causes)
	}
	if !containsCause(result.Causes, models.CauseFuelSystem) {
		t.Fatalf("expected fuel system candidate, got %v", result.Causes)
	}
}

func TestInferFirstDetectedFallback(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)

	// Low RPM in a stable window: sensor fault is detected first.
	result := engine.Infer(80, 950, []float64{950, 950, 950})
	if result.Principal != models.CauseSensorFault {
		t.Fatalf("expected first detected cause, got %s (%v)", result.Principal, result.Causes)
	}

	// Instantaneous rule only.
	result = engine.Infer(80, 3300, repeat(3000, 10))
	if result.Principal != models.CauseThrottleFault {
		t.Fatalf("expected throttle fault, got %s (%v)", result.Principal, result.Causes)
	}
}

func TestInferDeterministic(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)
	history := []float64{2500, 2900, 2400, 2950, 2350, 900}

	first := engine.Infer(90, 900, history)
	for i := 0; i < 20; i++ {
		next := engine.Infer(90, 900, history)
		if next.Principal != first.Principal || len(next.Causes) != len(first.Causes) {
			t.Fatalf("inference is not deterministic: %+v vs %+v", first, next)
		}
		for j := range next.Causes {
			if next.Causes[j] != first.Causes[j] {
				t.Fatalf("cause order changed: %v vs %v", first.Causes, next.Causes)
			}
		}
	}
}

func TestInferEmptyHistory(t *testing.T) {
	engine := NewInferenceEngine(nil, nil)
	result := engine.Infer(120, 1200, nil)
	if result.Principal != models.CauseEngineOverload {
		t.Fatalf("expected engine overload, got %s", result.Principal)
	}
	if len(result.Irregularities) != 0 {
		t.Fatalf("expected no irregularities without history, got %+v", result.Irregularities)
	}
}

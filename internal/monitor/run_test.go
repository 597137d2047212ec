package monitor

import (
	"context"
	"sync"
	"testing"

	"github.com/miradorstack/enginewatch/internal/models"
)

func TestRunStateLifecycle(t *testing.T) {
	run := newRunState(defaultThresholds, 0, nil)
	if run.State() != StateIdle || run.Active() {
		t.Fatalf("expected idle inactive run, got %s", run.State())
	}
	if run.ID == "" {
		t.Fatalf("expected run id")
	}
	if err := run.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !run.Active() || run.State() != StateRunning {
		t.Fatalf("expected active running run")
	}
	if err := run.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if run.Active() || run.State() != StateStopped {
		t.Fatalf("expected stopped run")
	}
	if err := run.Stop(context.Background()); err != nil {
		t.Fatalf("second stop should be a no-op: %v", err)
	}
	if err := run.Start(context.Background()); err == nil {
		t.Fatalf("stopped run must not restart")
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	a := newRunState(defaultThresholds, 0, nil)
	b := newRunState(defaultThresholds, 0, nil)
	if a.ID == b.ID {
		t.Fatalf("expected distinct run ids")
	}
}

func TestClaimAlertConcurrent(t *testing.T) {
	run := newRunState(defaultThresholds, 0, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	claims := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if run.ClaimAlert(models.AlertRPMHigh) {
				mu.Lock()
				claims++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if claims != 1 {
		t.Fatalf("expected a single successful claim, got %d", claims)
	}

	if run.ClaimAlert(models.AlertRPMHigh) {
		t.Fatalf("expected the category to stay claimed for the rest of the run")
	}
}

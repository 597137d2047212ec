package utils

import (
	"testing"
	"time"
)

func TestAlertStampUsesLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	ts := time.Date(2024, time.March, 4, 3, 15, 9, 0, time.UTC)

	date, clock := AlertStamp(ts, loc)
	if date != "Sunday, 03 March 2024" {
		t.Fatalf("unexpected date %q", date)
	}
	if clock != "21:15:09" {
		t.Fatalf("unexpected clock %q", clock)
	}
}

func TestLoadLocation(t *testing.T) {
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	loc, err := LoadLocation("UTC")
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v (%v)", loc, err)
	}
}

func TestSimulatedHour(t *testing.T) {
	if SimulatedHour(5.9) != 5 {
		t.Fatalf("expected hour 5")
	}
	if SimulatedHour(25) != 1 {
		t.Fatalf("expected wrap to hour 1")
	}
}

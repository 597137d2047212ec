package engine

import "testing"

func TestRPMHistoryEviction(t *testing.T) {
	history := NewRPMHistory(10)
	for i := 1; i <= 12; i++ {
		history.Push(float64(i * 100))
	}

	values := history.Values()
	if len(values) != 10 {
		t.Fatalf("expected 10 values, got %d", len(values))
	}
	for i, v := range values {
		expected := float64((i + 3) * 100)
		if v != expected {
			t.Fatalf("index %d: expected %v, got %v (%v)", i, expected, v, values)
		}
	}
}

func TestRPMHistoryValuesIsCopy(t *testing.T) {
	history := NewRPMHistory(0)
	if history.Capacity() != DefaultHistorySize {
		t.Fatalf("expected default capacity, got %d", history.Capacity())
	}
	history.Push(2500)
	values := history.Values()
	values[0] = 0
	if history.Values()[0] != 2500 {
		t.Fatalf("history mutated through returned slice")
	}
}

package engine

import "sync"

// DefaultHistorySize is the number of RPM readings kept per run.
const DefaultHistorySize = 10

// RPMHistory is a bounded FIFO of the most recent RPM readings.
type RPMHistory struct {
	mu      sync.RWMutex
	values  []float64
	maxSize int
}

// NewRPMHistory creates a history retaining up to maxSize readings.
func NewRPMHistory(maxSize int) *RPMHistory {
	if maxSize <= 0 {
		maxSize = DefaultHistorySize
	}
	return &RPMHistory{maxSize: maxSize, values: make([]float64, 0, maxSize+1)}
}

// Push appends a reading, evicting the oldest once capacity is exceeded.
func (h *RPMHistory) Push(rpm float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.values = append(h.values, rpm)
	if len(h.values) > h.maxSize {
		copy(h.values[0:], h.values[1:])
		h.values = h.values[:h.maxSize]
	}
}

// Values returns a copy of the readings, oldest first.
func (h *RPMHistory) Values() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]float64(nil), h.values...)
}

// Len returns the number of readings held.
func (h *RPMHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.values)
}

// Capacity returns the maximum number of readings retained.
func (h *RPMHistory) Capacity() int { return h.maxSize }

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/miradorstack/enginewatch/internal/models"
)

// Slice replays a fixed, ordered sample sequence and returns io.EOF at the end.
type Slice struct {
	mu      sync.Mutex
	samples []models.Sample
	pos     int
}

// NewSlice wraps samples; the slice is copied.
func NewSlice(samples []models.Sample) *Slice {
	return &Slice{samples: append([]models.Sample(nil), samples...)}
}

// Next returns the next sample or io.EOF.
func (s *Slice) Next(ctx context.Context) (models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return models.Sample{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.samples) {
		return models.Sample{}, io.EOF
	}
	sample := s.samples[s.pos]
	s.pos++
	return sample, nil
}

// Samples returns a copy of the full sequence.
func (s *Slice) Samples() []models.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Sample(nil), s.samples...)
}

// Len returns the total number of samples.
func (s *Slice) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

// Close is a no-op.
func (s *Slice) Close() error { return nil }

type replaySample struct {
	TimeIndex   *float64 `yaml:"timeIndex"`
	RPM         float64  `yaml:"rpm"`
	Temperature float64  `yaml:"temperature"`
}

type replayFile struct {
	Samples []replaySample `yaml:"samples"`
}

// LoadReplay reads a YAML file with a top-level samples list. Missing
// timeIndex values default to the sample's position.
func LoadReplay(path string) ([]models.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay file: %w", err)
	}
	var file replayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse replay file: %w", err)
	}
	if len(file.Samples) == 0 {
		return nil, fmt.Errorf("replay file %s has no samples", path)
	}

	samples := make([]models.Sample, 0, len(file.Samples))
	for i, raw := range file.Samples {
		sample := models.Sample{TimeIndex: float64(i), RPM: raw.RPM, Temperature: raw.Temperature}
		if raw.TimeIndex != nil {
			sample.TimeIndex = *raw.TimeIndex
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

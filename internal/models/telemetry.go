package models

import (
	"errors"
	"fmt"
)

// Sample is a single telemetry reading produced by the feed at a fixed cadence.
type Sample struct {
	TimeIndex   float64 `json:"time_index" yaml:"timeIndex"`
	RPM         float64 `json:"rpm" yaml:"rpm"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// Thresholds are the operator-supplied comparison bounds for one run.
type Thresholds struct {
	TempMin float64 `json:"temp_min" yaml:"tempMin"`
	TempMax float64 `json:"temp_max" yaml:"tempMax"`
	RPMMin  float64 `json:"rpm_min" yaml:"rpmMin"`
	RPMMax  float64 `json:"rpm_max" yaml:"rpmMax"`
}

// Status captures the per-sample classification handed to the display layer.
type Status string

const (
	StatusNormal   Status = "normal"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Classify derives the display status for a reading. Critical wins over warning.
func (t Thresholds) Classify(temp, rpm float64, irregular bool) Status {
	switch {
	case temp > t.TempMax || rpm > t.RPMMax || rpm < t.RPMMin:
		return StatusCritical
	case temp > t.TempMin || irregular:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// Validate reports inverted bounds.
func (t Thresholds) Validate() error {
	var errs []error
	if t.TempMin >= t.TempMax {
		errs = append(errs, fmt.Errorf("tempMin (%g) must be below tempMax (%g)", t.TempMin, t.TempMax))
	}
	if t.RPMMin >= t.RPMMax {
		errs = append(errs, fmt.Errorf("rpmMin (%g) must be below rpmMax (%g)", t.RPMMin, t.RPMMax))
	}
	return errors.Join(errs...)
}

package models

import "time"

// AlertCategory groups threshold breaches for one-shot suppression.
type AlertCategory string

const (
	AlertTemperatureHigh AlertCategory = "temperature-high"
	AlertRPMHigh         AlertCategory = "rpm-high"
	AlertRPMLow          AlertCategory = "rpm-low"
	// AlertManual is used by the simulator and test-alert commands; it is never suppressed.
	AlertManual AlertCategory = "manual"
)

// AlertCategories lists the threshold categories in evaluation order.
var AlertCategories = []AlertCategory{AlertTemperatureHigh, AlertRPMHigh, AlertRPMLow}

// Alert is the structured notification handed to the dispatcher.
type Alert struct {
	RunID          string         `json:"run_id,omitempty"`
	Category       AlertCategory  `json:"category"`
	Message        string         `json:"message"`
	Irregularities []Irregularity `json:"irregularities,omitempty"`
	Principal      FailureCause   `json:"principal"`
}

// AlertOutcome records what happened to one alert within a tick.
type AlertOutcome struct {
	Category AlertCategory `json:"category"`
	Sent     bool          `json:"sent"`
	Error    string        `json:"error,omitempty"`
	Latency  time.Duration `json:"latency"`
}

// TickResult is everything the core produces for one sample.
type TickResult struct {
	RunID          string         `json:"run_id"`
	Sample         Sample         `json:"sample"`
	Status         Status         `json:"status"`
	Irregularities []Irregularity `json:"irregularities,omitempty"`
	Causes         []FailureCause `json:"causes,omitempty"`
	Principal      FailureCause   `json:"principal"`
	Alerts         []AlertOutcome `json:"alerts,omitempty"`
	ProcessedAt    time.Time      `json:"processed_at"`
}

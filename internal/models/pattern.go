package models

// FaultPattern aggregates how often a principal cause appeared during a run.
type FaultPattern struct {
	RunID          string             `json:"run_id"`
	Cause          FailureCause       `json:"cause"`
	Occurrences    int                `json:"occurrences"`
	Prevalence     float64            `json:"prevalence"`
	FirstSeen      float64            `json:"first_seen"`
	LastSeen       float64            `json:"last_seen"`
	WorstStatus    Status             `json:"worst_status"`
	Irregularities []IrregularityKind `json:"irregularities,omitempty"`
}

// Severity orders statuses so the worst can be tracked.
func (s Status) Severity() int {
	switch s {
	case StatusCritical:
		return 2
	case StatusWarning:
		return 1
	}
	return 0
}

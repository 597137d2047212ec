package models

// IrregularityKind identifies which analyzer rule produced a finding.
type IrregularityKind string

const (
	IrregularityHighVariance IrregularityKind = "high_variance"
	IrregularityLowRPM       IrregularityKind = "low_rpm"
	IrregularityHighRPM      IrregularityKind = "high_rpm"
	IrregularityErratic      IrregularityKind = "erratic_pattern"
	// IrregularityReported marks findings supplied verbatim (simulator, test alerts).
	IrregularityReported IrregularityKind = "reported"
)

// Irregularity is a human-readable finding tag generated by one analysis call.
type Irregularity struct {
	Kind        IrregularityKind `json:"kind" yaml:"kind"`
	Description string           `json:"description" yaml:"description"`
}

func (i Irregularity) String() string { return i.Description }

// Reported wraps free text as an Irregularity.
func Reported(descriptions ...string) []Irregularity {
	out := make([]Irregularity, 0, len(descriptions))
	for _, d := range descriptions {
		if d == "" {
			continue
		}
		out = append(out, Irregularity{Kind: IrregularityReported, Description: d})
	}
	return out
}

package engine

import (
	"math"

	"github.com/miradorstack/enginewatch/internal/models"
)

// Summary describes a complete telemetry series.
type Summary struct {
	Points          int                   `json:"points"`
	MaxTemperature  float64               `json:"max_temperature"`
	MeanTemperature float64               `json:"mean_temperature"`
	RPMVariation    float64               `json:"rpm_variation_percent"`
	MaxRPM          float64               `json:"max_rpm"`
	MeanRPM         float64               `json:"mean_rpm"`
	MinRPM          float64               `json:"min_rpm"`
	Irregularities  []models.Irregularity `json:"irregularities,omitempty"`
	Causes          []models.FailureCause `json:"causes,omitempty"`
}

// Summarize runs the analyzer over the full RPM series and collects
// descriptive statistics for both channels.
func Summarize(analyzer *Analyzer, samples []models.Sample) Summary {
	if analyzer == nil {
		analyzer = NewAnalyzer(DefaultAnalyzerConfig())
	}
	summary := Summary{Points: len(samples)}
	if len(samples) == 0 {
		return summary
	}

	rpm := make([]float64, 0, len(samples))
	temps := make([]float64, 0, len(samples))
	summary.MaxTemperature = math.Inf(-1)
	summary.MaxRPM = math.Inf(-1)
	summary.MinRPM = math.Inf(1)
	for _, sample := range samples {
		rpm = append(rpm, sample.RPM)
		temps = append(temps, sample.Temperature)
		summary.MaxTemperature = math.Max(summary.MaxTemperature, sample.Temperature)
		summary.MaxRPM = math.Max(summary.MaxRPM, sample.RPM)
		summary.MinRPM = math.Min(summary.MinRPM, sample.RPM)
	}

	summary.MeanTemperature, _ = meanStdDev(temps)
	meanRPM, stdDev := meanStdDev(rpm)
	summary.MeanRPM = meanRPM
	if meanRPM != 0 {
		summary.RPMVariation = stdDev * 100 / meanRPM
	}

	analysis := analyzer.Analyze(rpm)
	summary.Irregularities = analysis.Irregularities
	summary.Causes = analysis.Causes.Slice()
	return summary
}

package engine

import (
	"fmt"
	"math"

	"github.com/miradorstack/enginewatch/internal/models"
)

// AnalyzerConfig holds the irregularity detection thresholds.
type AnalyzerConfig struct {
	VariancePercent float64 `yaml:"variancePercent"`
	LowRPM          float64 `yaml:"lowRPM"`
	HighRPM         float64 `yaml:"highRPM"`
	ErraticStdDev   float64 `yaml:"erraticStdDev"`
	RecentWindow    int     `yaml:"recentWindow"`
	PatternWindow   int     `yaml:"patternWindow"`
}

// DefaultAnalyzerConfig returns the thresholds used when nothing is configured.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		VariancePercent: 15,
		LowRPM:          1000,
		HighRPM:         3200,
		ErraticStdDev:   150,
		RecentWindow:    3,
		PatternWindow:   5,
	}
}

func (c AnalyzerConfig) withDefaults() AnalyzerConfig {
	def := DefaultAnalyzerConfig()
	if c.VariancePercent <= 0 {
		c.VariancePercent = def.VariancePercent
	}
	if c.LowRPM <= 0 {
		c.LowRPM = def.LowRPM
	}
	if c.HighRPM <= 0 {
		c.HighRPM = def.HighRPM
	}
	if c.ErraticStdDev <= 0 {
		c.ErraticStdDev = def.ErraticStdDev
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = def.RecentWindow
	}
	if c.PatternWindow < 2 {
		c.PatternWindow = def.PatternWindow
	}
	return c
}

// Analysis is the outcome of a single analyzer pass.
type Analysis struct {
	Irregularities []models.Irregularity
	Causes         CauseSet
}

// Analyzer flags irregular RPM behaviour over a series and proposes candidate causes.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer creates an analyzer; zero-valued thresholds fall back to defaults.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg.withDefaults()}
}

// Config returns the effective thresholds.
func (a *Analyzer) Config() AnalyzerConfig {
	return a.cfg
}

// Analyze applies every rule independently to the series. Statistics are
// recomputed from scratch on each call.
func (a *Analyzer) Analyze(rpm []float64) Analysis {
	var out Analysis
	if len(rpm) == 0 {
		return out
	}

	mean, stdDev := meanStdDev(rpm)
	if mean != 0 {
		variation := stdDev * 100 / mean
		if variation > a.cfg.VariancePercent {
			out.add(models.Irregularity{
				Kind:        models.IrregularityHighVariance,
				Description: fmt.Sprintf("high RPM variance (%.1f%%)", variation),
			}, models.CauseSparkPlugWear, models.CauseIgnitionFault, models.CauseAirFilterObstruction)
		}
	}

	recent := tail(rpm, a.cfg.RecentWindow)
	if anyBelow(recent, a.cfg.LowRPM) {
		out.add(models.Irregularity{
			Kind:        models.IrregularityLowRPM,
			Description: fmt.Sprintf("abnormally low RPM (<%.0f)", a.cfg.LowRPM),
		}, models.CauseSensorFault, models.CauseFuelSystem, models.CauseFilterObstruction)
	}
	if anyAbove(recent, a.cfg.HighRPM) {
		out.add(models.Irregularity{
			Kind:        models.IrregularityHighRPM,
			Description: fmt.Sprintf("abnormally high RPM (>%.0f)", a.cfg.HighRPM),
		}, models.CauseThrottleFault, models.CauseTransmission, models.CauseEngineOverload)
	}

	if len(rpm) > a.cfg.PatternWindow {
		_, diffStdDev := meanStdDev(diffs(tail(rpm, a.cfg.PatternWindow)))
		if diffStdDev > a.cfg.ErraticStdDev {
			out.add(models.Irregularity{
				Kind:        models.IrregularityErratic,
				Description: "erratic RPM pattern",
			}, models.CauseSparkPlugDefect, models.CauseIgnitionCoil, models.CauseSensorFault)
		}
	}

	return out
}

func (a *Analysis) add(flag models.Irregularity, causes ...models.FailureCause) {
	for _, existing := range a.Irregularities {
		if existing.Kind == flag.Kind {
			a.Causes.Add(causes...)
			return
		}
	}
	a.Irregularities = append(a.Irregularities, flag)
	a.Causes.Add(causes...)
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func diffs(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		out = append(out, values[i]-values[i-1])
	}
	return out
}

func anyBelow(values []float64, limit float64) bool {
	for _, v := range values {
		if v < limit {
			return true
		}
	}
	return false
}

func anyAbove(values []float64, limit float64) bool {
	for _, v := range values {
		if v > limit {
			return true
		}
	}
	return false
}

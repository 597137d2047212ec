package engine

import (
	"log/slog"

	"github.com/miradorstack/enginewatch/internal/models"
)

const (
	coolingFailureTemp = 100.0
	overloadTemp       = 110.0
	fuelStarvationRPM  = 1500.0
	throttleFaultRPM   = 3200.0
)

// principalPriority lists causes that win over first-detected order, highest first.
var principalPriority = []models.FailureCause{
	models.CauseEngineOverload,
	models.CauseCoolingFailure,
	models.CauseSparkPlugWear,
}

// Inference is the outcome of one inference call.
type Inference struct {
	Irregularities []models.Irregularity
	Causes         []models.FailureCause
	Principal      models.FailureCause
}

// InferenceEngine combines history analysis with instantaneous readings to
// pick a single most likely failure cause.
type InferenceEngine struct {
	logger   *slog.Logger
	analyzer *Analyzer
}

// NewInferenceEngine wires an analyzer into the inference engine.
func NewInferenceEngine(analyzer *Analyzer, logger *slog.Logger) *InferenceEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = NewAnalyzer(DefaultAnalyzerConfig())
	}
	return &InferenceEngine{logger: logger, analyzer: analyzer}
}

// Infer never fails; with no evidence the principal cause is CauseNone.
func (e *InferenceEngine) Infer(temp, rpm float64, history []float64) Inference {
	analysis := e.analyzer.Analyze(history)
	causes := analysis.Causes

	if temp > coolingFailureTemp {
		causes.Add(models.CauseCoolingFailure)
	}
	if temp > overloadTemp {
		causes.Add(models.CauseEngineOverload)
	}
	if rpm < fuelStarvationRPM {
		causes.Add(models.CauseFuelSystem)
	}
	if rpm > throttleFaultRPM {
		causes.Add(models.CauseThrottleFault)
	}

	result := Inference{
		Irregularities: analysis.Irregularities,
		Causes:         causes.Slice(),
		Principal:      principal(&causes),
	}

	e.logger.Debug("inference complete",
		slog.Float64("temperature", temp),
		slog.Float64("rpm", rpm),
		slog.Int("history", len(history)),
		slog.Int("irregularities", len(result.Irregularities)),
		slog.String("principal", result.Principal.Key()),
	)
	return result
}

func principal(causes *CauseSet) models.FailureCause {
	for _, cause := range principalPriority {
		if causes.Contains(cause) {
			return cause
		}
	}
	if ordered := causes.Slice(); len(ordered) > 0 {
		return ordered[0]
	}
	return models.CauseNone
}

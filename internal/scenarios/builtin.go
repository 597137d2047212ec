package scenarios

import "github.com/miradorstack/enginewatch/internal/models"

var builtinScenarios = []Scenario{
	{
		Key:            "spark_plugs",
		Name:           "Spark plugs",
		Symptoms:       "Unstable RPM, rising temperature",
		Irregularities: []string{"High RPM variance ({variation}%)", "Intermittent spark detected"},
		Cause:          models.CauseSparkPlugWear,
		Severity:       models.StatusCritical,
		Info: []string{
			"Cause: normal wear or contamination",
			"Symptoms: unstable RPM, rising temperature",
			"Typical RPM variation: 15-25%",
		},
	},
	{
		Key:            "cooling_failure",
		Name:           "Cooling failure",
		Symptoms:       "Persistently high temperature, fan not working",
		Irregularities: []string{"Critically high temperature", "Stable RPM but elevated temperature"},
		Cause:          models.CauseCoolingFailure,
		Severity:       models.StatusWarning,
		Info: []string{
			"Cause: low coolant or faulty fan",
			"Symptoms: persistently high temperature",
			"Critical threshold: >85°C",
		},
	},
	{
		Key:            "clogged_filter",
		Name:           "Clogged filter",
		Symptoms:       "Low RPM, variable temperature",
		Irregularities: []string{"Consistently low RPM", "Loss of power"},
		Cause:          models.CauseAirFilterObstruction,
		Severity:       models.StatusWarning,
		Info: []string{
			"Cause: dirt buildup",
			"Symptoms: low RPM, loss of power",
			"Fix: replace the filter",
		},
	},
	{
		Key:            "ignition",
		Name:           "Ignition problem",
		Symptoms:       "Irregular RPM, hard starting",
		Irregularities: []string{"Erratic RPM pattern", "Misfires detected"},
		Cause:          models.CauseIgnitionCoil,
		Severity:       models.StatusCritical,
		Info: []string{
			"Cause: faulty coils or spark plug wires",
			"Symptoms: irregular RPM, hard starting",
			"Typical variation: >20%",
		},
	},
	{
		Key:            "injectors",
		Name:           "Faulty injectors",
		Symptoms:       "Fluctuating RPM, excessive fuel consumption",
		Irregularities: []string{"Unstable RPM", "Poor engine performance"},
		Cause:          models.CauseInjectorFault,
		Severity:       models.StatusCritical,
		Info: []string{
			"Cause: residue buildup or wear",
			"Symptoms: fluctuating RPM, high fuel consumption",
			"Fix: clean or replace injectors",
		},
	},
	{
		Key:            "overload",
		Name:           "Engine overload",
		Symptoms:       "Temperature > 110°C, loss of power",
		Irregularities: []string{"Critically high temperature", "Forced RPM"},
		Cause:          models.CauseEngineOverload,
		Severity:       models.StatusCritical,
		Info: []string{
			"Cause: excess load or extreme conditions",
			"Symptoms: temperature >110°C, loss of power",
			"Action: stop the vehicle immediately",
		},
	},
}

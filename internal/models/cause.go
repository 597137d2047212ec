package models

import (
	"fmt"
	"strings"
)

// FailureCause enumerates the failure hypotheses the inference engine can produce.
type FailureCause uint8

const (
	// CauseNone is the sentinel returned when no candidate cause exists.
	CauseNone FailureCause = iota
	CauseSparkPlugWear
	CauseSparkPlugDefect
	CauseIgnitionFault
	CauseAirFilterObstruction
	CauseFilterObstruction
	CauseSensorFault
	CauseFuelSystem
	CauseThrottleFault
	CauseTransmission
	CauseEngineOverload
	CauseCoolingFailure
	CauseIgnitionCoil
	CauseInjectorFault
)

var causeNames = map[FailureCause]string{
	CauseNone:                 "no fault detected",
	CauseSparkPlugWear:        "worn spark plugs",
	CauseSparkPlugDefect:      "defective spark plugs",
	CauseIgnitionFault:        "ignition problem",
	CauseAirFilterObstruction: "clogged air filter",
	CauseFilterObstruction:    "clogged filter",
	CauseSensorFault:          "sensor fault",
	CauseFuelSystem:           "fuel system problem",
	CauseThrottleFault:        "throttle fault",
	CauseTransmission:         "transmission problem",
	CauseEngineOverload:       "engine overload",
	CauseCoolingFailure:       "cooling system failure",
	CauseIgnitionCoil:         "faulty ignition coils",
	CauseInjectorFault:        "faulty fuel injectors",
}

var causeKeys = map[FailureCause]string{
	CauseNone:                 "none",
	CauseSparkPlugWear:        "spark_plug_wear",
	CauseSparkPlugDefect:      "spark_plug_defect",
	CauseIgnitionFault:        "ignition_fault",
	CauseAirFilterObstruction: "air_filter_obstruction",
	CauseFilterObstruction:    "filter_obstruction",
	CauseSensorFault:          "sensor_fault",
	CauseFuelSystem:           "fuel_system",
	CauseThrottleFault:        "throttle_fault",
	CauseTransmission:         "transmission",
	CauseEngineOverload:       "engine_overload",
	CauseCoolingFailure:       "cooling_failure",
	CauseIgnitionCoil:         "ignition_coil",
	CauseInjectorFault:        "injector_fault",
}

// String returns the display label.
func (c FailureCause) String() string {
	if name, ok := causeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("FailureCause(%d)", uint8(c))
}

// Key returns the stable machine identifier used in metrics, JSON and YAML.
func (c FailureCause) Key() string {
	if key, ok := causeKeys[c]; ok {
		return key
	}
	return "unknown"
}

// IsNone reports whether c is the "no fault detected" sentinel.
func (c FailureCause) IsNone() bool { return c == CauseNone }

// ParseFailureCause resolves a key as produced by Key.
func ParseFailureCause(key string) (FailureCause, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for cause, k := range causeKeys {
		if k == key {
			return cause, nil
		}
	}
	return CauseNone, fmt.Errorf("unknown failure cause %q", key)
}

// MarshalText encodes the cause by key.
func (c FailureCause) MarshalText() ([]byte, error) {
	return []byte(c.Key()), nil
}

// UnmarshalText decodes a cause key.
func (c *FailureCause) UnmarshalText(text []byte) error {
	parsed, err := ParseFailureCause(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// v3
// internal/classify/classify.go

// Package classify turns raw sensor readings into enriched records by
// applying fixed per-metric thresholds and taking the worst of the three
// results as the overall status.
package classify

import (
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
)

// Severity is the ordered risk classification shared by all metrics.
// The order is total: Good < Moderate < Unsafe, regardless of metric.
type Severity int

const (
	Good Severity = iota
	Moderate
	Unsafe
)

// Per-tier thresholds. A value belongs to the higher tier only when it is
// strictly greater than the bound, so exactly 150 AQI is still Moderate.
const (
	AQIUnsafeAbove      = 150.0
	AQIModerateAbove    = 100.0
	TempUnsafeAboveC    = 40.0
	TempModerateAboveC  = 35.0
	HumidityUnsafeAbove = 80.0
	HumidityModerate    = 60.0
)

// Result is one per-metric classification: the shared severity plus the
// metric-specific display label and advisory text.
type Result struct {
	Severity Severity
	Label    string
	Advisory string
}

// AQI classifies an air quality index value.
func AQI(v float64) Result {
	switch {
	case v > AQIUnsafeAbove:
		return Result{Unsafe, "UNSAFE", advisories[metricAQI][Unsafe]}
	case v > AQIModerateAbove:
		return Result{Moderate, "MODERATE", advisories[metricAQI][Moderate]}
	default:
		return Result{Good, "GOOD", advisories[metricAQI][Good]}
	}
}

// Temperature classifies a temperature in degrees Celsius.
func Temperature(v float64) Result {
	switch {
	case v > TempUnsafeAboveC:
		return Result{Unsafe, "HEAT_RISK", advisories[metricTemp][Unsafe]}
	case v > TempModerateAboveC:
		return Result{Moderate, "WARM", advisories[metricTemp][Moderate]}
	default:
		return Result{Good, "NORMAL", advisories[metricTemp][Good]}
	}
}

// Humidity classifies a relative humidity percentage.
func Humidity(v float64) Result {
	switch {
	case v > HumidityUnsafeAbove:
		return Result{Unsafe, "HIGH_MOISTURE", advisories[metricHumidity][Unsafe]}
	case v > HumidityModerate:
		return Result{Moderate, "ELEVATED", advisories[metricHumidity][Moderate]}
	default:
		return Result{Good, "NORMAL", advisories[metricHumidity][Good]}
	}
}

// Overall reduces per-metric severities to the combined status string. Ties
// collapse: two Unsafe metrics still yield a single UNSAFE.
func Overall(sevs ...Severity) string {
	worst := Good
	for _, s := range sevs {
		if s > worst {
			worst = s
		}
	}
	return overallNames[worst]
}

var overallNames = map[Severity]string{
	Good:     "SAFE",
	Moderate: "CAUTION",
	Unsafe:   "UNSAFE",
}

// OverallSeverity maps an overall status string back to its severity.
// Unknown strings rank as Good so a corrupt record never outranks a real
// alert.
func OverallSeverity(status string) Severity {
	for sev, name := range overallNames {
		if name == status {
			return sev
		}
	}
	return Good
}

// Enrich validates a reading and produces its enriched record. It is a
// pure function: same reading in, same record out, no state.
func Enrich(r model.Reading) (model.EnrichedReading, error) {
	if err := r.Validate(); err != nil {
		return model.EnrichedReading{}, err
	}
	a := AQI(r.AQI)
	t := Temperature(r.TempC)
	h := Humidity(r.Humidity)
	return model.EnrichedReading{
		Reading:          r,
		AQILevel:         a.Label,
		AQIAdvisory:      a.Advisory,
		TempLevel:        t.Label,
		TempAdvisory:     t.Advisory,
		HumidityLevel:    h.Label,
		HumidityAdvisory: h.Advisory,
		Overall:          Overall(a.Severity, t.Severity, h.Severity),
	}, nil
}

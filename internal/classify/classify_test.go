// v2
// internal/classify/classify_test.go
package classify

import (
	"testing"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
)

func TestAQIThresholds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want Severity
	}{
		{"good low", 0, Good},
		{"good at bound", 100, Good},
		{"moderate just above", 100.1, Moderate},
		{"moderate at upper bound", 150, Moderate},
		{"unsafe just above", 150.1, Unsafe},
		{"unsafe high", 400, Unsafe},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AQI(tc.v).Severity; got != tc.want {
				t.Fatalf("AQI(%v)=%v want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestTemperatureThresholds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want Severity
	}{
		{"good", 20, Good},
		{"good at bound", 35, Good},
		{"moderate", 36, Moderate},
		{"moderate at upper bound", 40, Moderate},
		{"unsafe", 40.5, Unsafe},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Temperature(tc.v).Severity; got != tc.want {
				t.Fatalf("Temperature(%v)=%v want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestHumidityThresholds(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		want Severity
	}{
		{"good", 30, Good},
		{"good at bound", 60, Good},
		{"moderate", 61, Moderate},
		{"moderate at upper bound", 80, Moderate},
		{"unsafe", 81, Unsafe},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Humidity(tc.v).Severity; got != tc.want {
				t.Fatalf("Humidity(%v)=%v want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestOverallTakesWorst(t *testing.T) {
	tests := []struct {
		name string
		sevs []Severity
		want string
	}{
		{"all good", []Severity{Good, Good, Good}, "SAFE"},
		{"one moderate", []Severity{Good, Moderate, Good}, "CAUTION"},
		{"one unsafe", []Severity{Unsafe, Good, Good}, "UNSAFE"},
		{"unsafe beats moderate", []Severity{Moderate, Unsafe, Moderate}, "UNSAFE"},
		{"ties collapse", []Severity{Unsafe, Unsafe, Unsafe}, "UNSAFE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overall(tc.sevs...); got != tc.want {
				t.Fatalf("Overall(%v)=%s want %s", tc.sevs, got, tc.want)
			}
		})
	}
}

func TestOverallMonotonic(t *testing.T) {
	// Worsening any single severity must never improve the overall status.
	sevs := []Severity{Good, Moderate, Unsafe}
	for _, a := range sevs {
		for _, b := range sevs {
			for _, c := range sevs {
				base := OverallSeverity(Overall(a, b, c))
				for _, worse := range sevs {
					if worse < a {
						continue
					}
					bumped := OverallSeverity(Overall(worse, b, c))
					if bumped < base {
						t.Fatalf("overall improved when aqi worsened: %v,%v,%v -> %v", a, b, c, worse)
					}
				}
			}
		}
	}
}

func reading(aqi, temp, hum float64) model.Reading {
	return model.Reading{SensorID: "SENSOR_A", Timestamp: "2026-08-29T10:00:00Z", AQI: aqi, TempC: temp, Humidity: hum}
}

func TestEnrichScenarios(t *testing.T) {
	tests := []struct {
		name    string
		r       model.Reading
		overall string
	}{
		{"air quality driven", reading(200, 20, 30), "UNSAFE"},
		{"temperature driven", reading(50, 38, 50), "CAUTION"},
		{"all nominal", reading(80, 30, 40), "SAFE"},
		{"multiple unsafe still one outcome", reading(90, 42, 90), "UNSAFE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Enrich(tc.r)
			if err != nil {
				t.Fatalf("enrich: %v", err)
			}
			if got.Overall != tc.overall {
				t.Fatalf("overall=%s want %s", got.Overall, tc.overall)
			}
		})
	}
}

func TestEnrichBoundaryAQI(t *testing.T) {
	got, err := Enrich(reading(150, 20, 30))
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got.AQILevel != "MODERATE" {
		t.Fatalf("aqi level at exactly 150: got %s want MODERATE", got.AQILevel)
	}
	if got.Overall != "CAUTION" {
		t.Fatalf("overall at exactly 150: got %s want CAUTION", got.Overall)
	}
}

func TestEnrichIdempotent(t *testing.T) {
	r := reading(120, 37, 85)
	first, err := Enrich(r)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	second, err := Enrich(r)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if first != second {
		t.Fatalf("enrich not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestEnrichRejectsInvalid(t *testing.T) {
	bad := reading(100, 20, 30)
	bad.SensorID = ""
	if _, err := Enrich(bad); err == nil {
		t.Fatalf("expected error for missing sensor id")
	}
	neg := reading(-1, 20, 30)
	if _, err := Enrich(neg); err == nil {
		t.Fatalf("expected error for negative aqi")
	}
}

func TestAdvisoryTableComplete(t *testing.T) {
	for m, byLevel := range advisories {
		for _, sev := range []Severity{Good, Moderate, Unsafe} {
			if byLevel[sev] == "" {
				t.Fatalf("missing advisory for metric %d severity %d", m, sev)
			}
		}
	}
}

func TestEnrichCarriesAdvisories(t *testing.T) {
	got, err := Enrich(reading(200, 42, 90))
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if got.AQIAdvisory != advisories[metricAQI][Unsafe] {
		t.Fatalf("aqi advisory mismatch: %s", got.AQIAdvisory)
	}
	if got.TempAdvisory != advisories[metricTemp][Unsafe] {
		t.Fatalf("temp advisory mismatch: %s", got.TempAdvisory)
	}
	if got.HumidityAdvisory != advisories[metricHumidity][Unsafe] {
		t.Fatalf("humidity advisory mismatch: %s", got.HumidityAdvisory)
	}
}

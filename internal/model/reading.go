// v2
// internal/model/reading.go
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Reading is one raw observation from an environmental sensor.
type Reading struct {
	ReadingID string    `json:"reading_id,omitempty"`
	SensorID  string    `json:"sensor_id"`
	Timestamp Timestamp `json:"timestamp"`
	AQI       float64   `json:"aqi"`
	TempC     float64   `json:"temperature_c"`
	Humidity  float64   `json:"humidity_pct"`
}

// EnrichedReading is a Reading annotated with per-metric risk levels,
// advisories and the combined status. Produced exactly once per Reading
// and never mutated afterwards.
type EnrichedReading struct {
	Reading
	AQILevel         string `json:"aqi_level"`
	AQIAdvisory      string `json:"aqi_advisory"`
	TempLevel        string `json:"temp_level"`
	TempAdvisory     string `json:"temp_advisory"`
	HumidityLevel    string `json:"humidity_level"`
	HumidityAdvisory string `json:"humidity_advisory"`
	Overall          string `json:"overall_status"`
}

// Timestamp accepts either an RFC3339 string or a unix-seconds number on
// the wire and renders back as a string.
type Timestamp string

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*t = Timestamp(v)
		return nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	*t = Timestamp(time.Unix(int64(sec), 0).UTC().Format(time.RFC3339))
	return nil
}

func (t Timestamp) String() string { return string(t) }

var (
	ErrMissingField = errors.New("missing field")
	ErrOutOfRange   = errors.New("value out of range")
)

// Validate rejects readings the classifier must not enrich: missing sensor
// identifier, non-finite numbers, negative AQI, humidity outside 0..100.
func (r Reading) Validate() error {
	if strings.TrimSpace(r.SensorID) == "" {
		return fmt.Errorf("%w: sensor_id", ErrMissingField)
	}
	for _, f := range []struct {
		name string
		val  float64
	}{{"aqi", r.AQI}, {"temperature_c", r.TempC}, {"humidity_pct", r.Humidity}} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrOutOfRange, f.name)
		}
	}
	if r.AQI < 0 {
		return fmt.Errorf("%w: aqi %.1f", ErrOutOfRange, r.AQI)
	}
	if r.Humidity < 0 || r.Humidity > 100 {
		return fmt.Errorf("%w: humidity_pct %.1f", ErrOutOfRange, r.Humidity)
	}
	return nil
}

// DecodeReading parses one JSONL record. All numeric fields must be
// present; absent fields are an error, not a silent zero.
func DecodeReading(raw []byte) (Reading, error) {
	var w struct {
		ReadingID string    `json:"reading_id"`
		SensorID  string    `json:"sensor_id"`
		Timestamp Timestamp `json:"timestamp"`
		AQI       *float64  `json:"aqi"`
		TempC     *float64  `json:"temperature_c"`
		Humidity  *float64  `json:"humidity_pct"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return Reading{}, fmt.Errorf("decode reading: %w", err)
	}
	if w.AQI == nil {
		return Reading{}, fmt.Errorf("%w: aqi", ErrMissingField)
	}
	if w.TempC == nil {
		return Reading{}, fmt.Errorf("%w: temperature_c", ErrMissingField)
	}
	if w.Humidity == nil {
		return Reading{}, fmt.Errorf("%w: humidity_pct", ErrMissingField)
	}
	r := Reading{
		ReadingID: w.ReadingID,
		SensorID:  w.SensorID,
		Timestamp: w.Timestamp,
		AQI:       *w.AQI,
		TempC:     *w.TempC,
		Humidity:  *w.Humidity,
	}
	if err := r.Validate(); err != nil {
		return Reading{}, err
	}
	return r, nil
}

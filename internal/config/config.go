// v3
// internal/config/config.go

// Package config loads process configuration from environment variables
// with optional .properties file overrides for the simulation knobs.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GeneratorConfig drives the synthetic sensor process.
type GeneratorConfig struct {
	HTTPBind string
	Path     string
	Tick     time.Duration
	FreshRun bool

	Sensors     []string
	AQIMin      float64
	AQIMax      float64
	TempMinC    float64
	TempMaxC    float64
	HumidityMin float64
	HumidityMax float64

	KafkaBrokers []string
	ReadingTopic string
}

// ClassifierConfig drives the enrichment process.
type ClassifierConfig struct {
	HTTPBind     string
	InputPath    string
	OutputPath   string
	PollInterval time.Duration

	KafkaBrokers  []string
	ReadingTopic  string
	EnrichedTopic string
	GroupID       string
}

// DashboardConfig drives the terminal viewer.
type DashboardConfig struct {
	HTTPBind     string
	OutputPath   string
	PollInterval time.Duration
	TrendPoints  int

	KafkaBrokers  []string
	EnrichedTopic string
	GroupID       string
}

// UseKafka reports whether the generator publishes to Kafka instead of the
// stream file.
func (c GeneratorConfig) UseKafka() bool { return len(c.KafkaBrokers) > 0 }

func (c ClassifierConfig) UseKafka() bool { return len(c.KafkaBrokers) > 0 }

func (c DashboardConfig) UseKafka() bool { return len(c.KafkaBrokers) > 0 }

// LoadGenerator builds the generator config from env plus the optional
// properties file named by SIM_PROPERTIES.
func LoadGenerator(log *slog.Logger) (GeneratorConfig, error) {
	c := GeneratorConfig{
		HTTPBind:     getenv("HTTP_BIND", ":8081"),
		Path:         getenv("INPUT_PATH", "./data/sensor_data.jsonl"),
		Tick:         time.Duration(geti("TICK_MS", 2000)) * time.Millisecond,
		FreshRun:     getb("FRESH_RUN", true),
		Sensors:      split(getenv("SENSORS", "SENSOR_A,SENSOR_B,SENSOR_C"), ","),
		AQIMin:       20, AQIMax: 250,
		TempMinC:     15, TempMaxC: 50,
		HumidityMin:  20, HumidityMax: 99,
		KafkaBrokers: split(getenv("KAFKA_BROKERS", ""), ","),
		ReadingTopic: getenv("READINGS_TOPIC", "env.readings"),
	}
	if path := os.Getenv("SIM_PROPERTIES"); path != "" {
		props, err := loadProps(path)
		if err != nil {
			return GeneratorConfig{}, err
		}
		if v, ok := props["sensors"]; ok {
			c.Sensors = split(v, ",")
		}
		c.AQIMin = getf(props, "aqi.min", c.AQIMin, log)
		c.AQIMax = getf(props, "aqi.max", c.AQIMax, log)
		c.TempMinC = getf(props, "temp.min", c.TempMinC, log)
		c.TempMaxC = getf(props, "temp.max", c.TempMaxC, log)
		c.HumidityMin = getf(props, "humidity.min", c.HumidityMin, log)
		c.HumidityMax = getf(props, "humidity.max", c.HumidityMax, log)
		c.Tick = getd(props, "tick", c.Tick, log)
	}
	if len(c.Sensors) == 0 {
		return GeneratorConfig{}, fmt.Errorf("at least one sensor id required")
	}
	if c.AQIMin > c.AQIMax || c.TempMinC > c.TempMaxC || c.HumidityMin > c.HumidityMax {
		return GeneratorConfig{}, fmt.Errorf("invalid simulation range")
	}
	return c, nil
}

// LoadClassifier builds the classifier config from env.
func LoadClassifier() (ClassifierConfig, error) {
	c := ClassifierConfig{
		HTTPBind:      getenv("HTTP_BIND", ":8082"),
		InputPath:     getenv("INPUT_PATH", "./data/sensor_data.jsonl"),
		OutputPath:    getenv("OUTPUT_PATH", "./data/processed_data.jsonl"),
		PollInterval:  time.Duration(geti("POLL_INTERVAL_MS", 500)) * time.Millisecond,
		KafkaBrokers:  split(getenv("KAFKA_BROKERS", ""), ","),
		ReadingTopic:  getenv("READINGS_TOPIC", "env.readings"),
		EnrichedTopic: getenv("ENRICHED_TOPIC", "env.enriched"),
		GroupID:       getenv("GROUP_ID", "classifier"),
	}
	if c.InputPath == c.OutputPath {
		return ClassifierConfig{}, fmt.Errorf("input and output path must differ")
	}
	if c.PollInterval <= 0 {
		return ClassifierConfig{}, fmt.Errorf("POLL_INTERVAL_MS must be positive")
	}
	return c, nil
}

// LoadDashboard builds the dashboard config from env.
func LoadDashboard() (DashboardConfig, error) {
	c := DashboardConfig{
		HTTPBind:      getenv("HTTP_BIND", ":8083"),
		OutputPath:    getenv("OUTPUT_PATH", "./data/processed_data.jsonl"),
		PollInterval:  time.Duration(geti("POLL_INTERVAL_MS", 1000)) * time.Millisecond,
		TrendPoints:   geti("TREND_POINTS", 60),
		KafkaBrokers:  split(getenv("KAFKA_BROKERS", ""), ","),
		EnrichedTopic: getenv("ENRICHED_TOPIC", "env.enriched"),
		GroupID:       getenv("GROUP_ID", "dashboard"),
	}
	if c.TrendPoints <= 0 {
		return DashboardConfig{}, fmt.Errorf("TREND_POINTS must be positive")
	}
	return c, nil
}

func loadProps(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load properties file: %w", err)
	}
	m := map[string]string{}
	for _, ln := range strings.Split(string(b), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" || strings.HasPrefix(ln, "#") || strings.HasPrefix(ln, "//") {
			continue
		}
		k, v, ok := strings.Cut(ln, "=")
		if !ok {
			continue
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m, nil
}

func getf(m map[string]string, key string, def float64, log *slog.Logger) float64 {
	if v, ok := m[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn("invalid float in properties, using default", "key", key, "val", v, "default", def)
	}
	return def
}

func getd(m map[string]string, key string, def time.Duration, log *slog.Logger) time.Duration {
	if v, ok := m[key]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn("invalid duration in properties, using default", "key", key, "val", v, "default", def)
	}
	return def
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func geti(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return d
}

func getb(k string, d bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(k)))
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func split(s, sep string) []string {
	if s == "" {
		return nil
	}
	p := strings.Split(s, sep)
	out := make([]string, 0, len(p))
	for _, x := range p {
		x = strings.TrimSpace(x)
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

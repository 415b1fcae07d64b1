// v2
// internal/generator/generator.go

// Package generator simulates environmental sensors. Each tick it emits
// one randomized Reading per configured sensor to the downstream stream.
package generator

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/config"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/metrics"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/stream"
)

// Stats is the running emission tally exposed by the HTTP API.
type Stats struct {
	Ticks    int64 `json:"ticks"`
	Emitted  int64 `json:"emitted"`
	Failures int64 `json:"failures"`
}

type Generator struct {
	cfg  config.GeneratorConfig
	log  *slog.Logger
	sink stream.Producer
	rng  *rand.Rand

	mu    sync.Mutex
	stats Stats
}

func New(cfg config.GeneratorConfig, sink stream.Producer, log *slog.Logger) *Generator {
	return &Generator{
		cfg:  cfg,
		log:  log,
		sink: sink,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Stats returns a snapshot of the emission tally.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Run emits readings at the configured cadence until the context ends.
func (g *Generator) Run(ctx context.Context) {
	t := time.NewTicker(g.cfg.Tick)
	defer t.Stop()
	g.log.Info("generator start", "tick", g.cfg.Tick.String(), "sensors", g.cfg.Sensors)
	for {
		select {
		case now := <-t.C:
			g.tick(ctx, now)
		case <-ctx.Done():
			g.log.Info("generator stop")
			return
		}
	}
}

func (g *Generator) tick(ctx context.Context, now time.Time) {
	g.mu.Lock()
	g.stats.Ticks++
	g.mu.Unlock()
	for _, sensor := range g.cfg.Sensors {
		r := g.next(sensor, now)
		b, err := json.Marshal(r)
		if err != nil {
			g.log.Error("marshal failed", "err", err)
			continue
		}
		if err := g.sink.Produce(ctx, b); err != nil {
			g.log.Error("produce failed", "sensor", sensor, "err", err)
			g.mu.Lock()
			g.stats.Failures++
			g.mu.Unlock()
			continue
		}
		metrics.IncGenerated(sensor)
		g.mu.Lock()
		g.stats.Emitted++
		count := g.stats.Emitted
		g.mu.Unlock()
		g.log.Info("emitted", "n", count, "sensor", sensor,
			"aqi", r.AQI, "tempC", r.TempC, "humidity", r.Humidity)
	}
}

// next draws one reading inside the configured ranges. AQI and humidity
// are whole numbers, temperature keeps one decimal, matching the sensor
// firmware this simulates.
func (g *Generator) next(sensor string, now time.Time) model.Reading {
	aqi := float64(int(g.uniform(g.cfg.AQIMin, g.cfg.AQIMax)))
	temp := float64(int(g.uniform(g.cfg.TempMinC, g.cfg.TempMaxC)*10)) / 10
	hum := float64(int(g.uniform(g.cfg.HumidityMin, g.cfg.HumidityMax)))
	return model.Reading{
		ReadingID: uuid.NewString(),
		SensorID:  sensor,
		Timestamp: model.Timestamp(now.UTC().Format(time.RFC3339)),
		AQI:       aqi,
		TempC:     temp,
		Humidity:  hum,
	}
}

func (g *Generator) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Float64()*(hi-lo)
}

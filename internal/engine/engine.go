// v4
// internal/engine/engine.go

// Package engine runs the classifier loop: consume each new reading,
// enrich it, publish the result. Stateless per record and strictly
// order-preserving, with exactly one output per valid input.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/classify"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/metrics"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/stream"
)

// Stats is the processing tally exposed by the HTTP API.
type Stats struct {
	MessagesIn  int64 `json:"messagesIn"`
	EnrichedOut int64 `json:"enrichedOut"`
	Skipped     int64 `json:"skipped"`
	WriteErrors int64 `json:"writeErrors"`
}

// lagReporter is satisfied by consumers that can report bytes behind the
// stream head.
type lagReporter interface {
	Lag() int64
}

type Engine struct {
	log    *slog.Logger
	source stream.Consumer
	sink   stream.Producer

	mu    sync.Mutex
	stats Stats
}

func New(source stream.Consumer, sink stream.Producer, log *slog.Logger) *Engine {
	return &Engine{log: log, source: source, sink: sink}
}

// Stats returns a snapshot of the processing tally.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Run processes records until the context ends or the source closes.
func (e *Engine) Run(ctx context.Context) error {
	records, err := e.source.Consume(ctx)
	if err != nil {
		return err
	}
	e.log.Info("engine start")
	for rec := range records {
		e.handle(ctx, rec)
		metrics.SetLastPoll(time.Now())
		if lr, ok := e.source.(lagReporter); ok {
			metrics.SetStreamLag(lr.Lag())
		}
	}
	e.log.Info("engine stop")
	return ctx.Err()
}

// handle enriches one record. A record that cannot be decoded or fails
// validation is counted and skipped; a downstream write failure drops
// only that record.
func (e *Engine) handle(ctx context.Context, rec stream.Record) {
	e.mu.Lock()
	e.stats.MessagesIn++
	e.mu.Unlock()
	metrics.IncReadingIn()

	reading, err := model.DecodeReading(rec.Value)
	if err != nil {
		e.log.Warn("skipping record", "offset", rec.Offset, "err", err)
		metrics.IncDecodeError()
		e.mu.Lock()
		e.stats.Skipped++
		e.mu.Unlock()
		return
	}

	start := time.Now()
	enriched, err := classify.Enrich(reading)
	if err != nil {
		// Validate already ran in DecodeReading, so this only fires for
		// readings handed in through other paths.
		e.log.Warn("skipping record", "offset", rec.Offset, "err", err)
		metrics.IncDecodeError()
		e.mu.Lock()
		e.stats.Skipped++
		e.mu.Unlock()
		return
	}
	metrics.ObserveEnrichLatency(time.Since(start).Seconds())

	out, err := json.Marshal(enriched)
	if err != nil {
		e.log.Error("marshal enriched failed", "err", err)
		e.mu.Lock()
		e.stats.WriteErrors++
		e.mu.Unlock()
		return
	}
	if err := e.sink.Produce(ctx, out); err != nil {
		e.log.Error("publish failed", "offset", rec.Offset, "err", err)
		metrics.IncWriteError()
		e.mu.Lock()
		e.stats.WriteErrors++
		e.mu.Unlock()
		return
	}
	metrics.IncEnriched(enriched.Overall)
	e.mu.Lock()
	e.stats.EnrichedOut++
	n := e.stats.EnrichedOut
	e.mu.Unlock()
	e.log.Info("enriched", "n", n, "sensor", enriched.SensorID, "overall", enriched.Overall,
		"aqi", enriched.AQI, "tempC", enriched.TempC, "humidity", enriched.Humidity)
}

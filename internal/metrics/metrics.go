// v1
// internal/metrics/metrics.go
// Package metrics provides a minimal Prometheus-compatible registry for
// pipeline instrumentation.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

type counterVec struct {
	mu     sync.RWMutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (c *counterVec) inc(label string) {
	c.mu.Lock()
	c.values[label]++
	c.mu.Unlock()
}

func (c *counterVec) snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

type counter struct {
	mu    sync.Mutex
	value uint64
}

func newCounter() *counter { return &counter{} }

func (c *counter) inc() {
	c.mu.Lock()
	c.value++
	c.mu.Unlock()
}

func (c *counter) snapshot() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

type gauge struct {
	mu    sync.Mutex
	value float64
}

func newGauge() *gauge { return &gauge{} }

func (g *gauge) set(v float64) {
	g.mu.Lock()
	g.value = v
	g.mu.Unlock()
}

func (g *gauge) snapshot() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

type histogram struct {
	mu      sync.RWMutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(bucketEdges []float64) *histogram {
	sorted := append([]float64(nil), bucketEdges...)
	sort.Float64s(sorted)
	return &histogram{buckets: sorted, counts: make([]uint64, len(sorted))}
}

func (h *histogram) observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	h.mu.Lock()
	for i, upper := range h.buckets {
		if v <= upper {
			h.counts[i]++
			break
		}
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

func (h *histogram) snapshot() (buckets []float64, counts []uint64, sum float64, count uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	buckets = append([]float64(nil), h.buckets...)
	counts = append([]uint64(nil), h.counts...)
	sum = h.sum
	count = h.count
	return
}

var (
	readingsIn     = newCounter()
	enrichedOut    = newCounterVec()
	decodeErrTotal = newCounter()
	writeErrTotal  = newCounter()
	generatedTotal = newCounterVec()
	enrichLatency  = newHistogram([]float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1})
	streamLag      = newGauge()
	lastPoll       = newGauge()
)

// IncReadingIn counts one record observed on the input stream.
func IncReadingIn() { readingsIn.inc() }

// IncEnriched counts one enriched record, labelled by overall status.
func IncEnriched(status string) { enrichedOut.inc(strings.TrimSpace(status)) }

// IncDecodeError counts one malformed input record that was skipped.
func IncDecodeError() { decodeErrTotal.inc() }

// IncWriteError counts one downstream write failure.
func IncWriteError() { writeErrTotal.inc() }

// IncGenerated counts one synthetic reading, labelled by sensor id.
func IncGenerated(sensor string) { generatedTotal.inc(strings.TrimSpace(sensor)) }

// ObserveEnrichLatency records the seconds spent enriching one record.
func ObserveEnrichLatency(seconds float64) {
	if seconds < 0 {
		return
	}
	enrichLatency.observe(seconds)
}

// SetStreamLag updates the bytes-behind gauge for the input tailer.
func SetStreamLag(bytes int64) {
	if bytes < 0 {
		bytes = 0
	}
	streamLag.set(float64(bytes))
}

// SetLastPoll records the unix timestamp of the most recent poll.
func SetLastPoll(ts time.Time) { lastPoll.set(float64(ts.Unix())) }

// Render builds the Prometheus exposition for all registered metrics.
func Render() string {
	var b strings.Builder
	writeMetricHeader(&b, "pipeline_readings_in_total", "counter")
	writeSimpleCounter(&b, "pipeline_readings_in_total", readingsIn.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_enriched_total", "counter")
	writeCounter(&b, "pipeline_enriched_total", "status", enrichedOut.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_decode_errors_total", "counter")
	writeSimpleCounter(&b, "pipeline_decode_errors_total", decodeErrTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_write_errors_total", "counter")
	writeSimpleCounter(&b, "pipeline_write_errors_total", writeErrTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_generated_total", "counter")
	writeCounter(&b, "pipeline_generated_total", "sensor", generatedTotal.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_enrich_latency_seconds", "histogram")
	writeHistogram(&b, "pipeline_enrich_latency_seconds", enrichLatency)
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_stream_lag_bytes", "gauge")
	writeGauge(&b, "pipeline_stream_lag_bytes", streamLag.snapshot())
	b.WriteByte('\n')

	writeMetricHeader(&b, "pipeline_last_poll_ts", "gauge")
	writeGauge(&b, "pipeline_last_poll_ts", lastPoll.snapshot())
	b.WriteByte('\n')

	return b.String()
}

func writeMetricHeader(b *strings.Builder, name, typ string) {
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(typ)
	b.WriteByte('\n')
}

func writeCounter(b *strings.Builder, name, label string, values map[string]uint64) {
	if len(values) == 0 {
		fmt.Fprintf(b, "%s{} %d\n", name, 0)
		return
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s{%s=\"%s\"} %d\n", name, label, escapeLabel(k), values[k])
	}
}

func writeHistogram(b *strings.Builder, name string, h *histogram) {
	buckets, counts, sum, count := h.snapshot()
	if len(buckets) == 0 {
		fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, count)
		fmt.Fprintf(b, "%s_sum %f\n", name, sum)
		fmt.Fprintf(b, "%s_count %d\n", name, count)
		return
	}
	var cumulative uint64
	for i, upper := range buckets {
		cumulative += counts[i]
		fmt.Fprintf(b, "%s_bucket{le=\"%g\"} %d\n", name, upper, cumulative)
	}
	fmt.Fprintf(b, "%s_bucket{le=\"+Inf\"} %d\n", name, count)
	fmt.Fprintf(b, "%s_sum %f\n", name, sum)
	fmt.Fprintf(b, "%s_count %d\n", name, count)
}

func escapeLabel(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "\n", "\\n", "\"", "\\\"")
	return replacer.Replace(v)
}

func writeSimpleCounter(b *strings.Builder, name string, value uint64) {
	fmt.Fprintf(b, "%s{} %d\n", name, value)
}

func writeGauge(b *strings.Builder, name string, value float64) {
	fmt.Fprintf(b, "%s{} %g\n", name, value)
}

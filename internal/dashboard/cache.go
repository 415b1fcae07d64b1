// v2
// internal/dashboard/cache.go

// Package dashboard renders the enriched stream in the terminal: a
// latest-snapshot cache keyed by sensor plus bounded trend buffers per
// metric, so memory stays flat however long the pipeline runs.
package dashboard

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
)

// Metric names one of the three tracked series.
type Metric int

const (
	MetricAQI Metric = iota
	MetricTemp
	MetricHumidity
)

var metricNames = map[Metric]string{
	MetricAQI:      "AQI",
	MetricTemp:     "Temp",
	MetricHumidity: "Humidity",
}

func (m Metric) String() string { return metricNames[m] }

// Point is one sample in a trend buffer.
type Point struct {
	Value float64
	Time  time.Time
}

// Buffer is a bounded ring of samples with running min/peak.
type Buffer struct {
	points []Point
	max    int
	Min    float64
	Peak   float64
}

// NewBuffer creates a trend buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		points: make([]Point, 0, capacity),
		max:    capacity,
		Min:    math.MaxFloat64,
		Peak:   -math.MaxFloat64,
	}
}

// Push appends a sample, evicting the oldest when full.
func (b *Buffer) Push(v float64, t time.Time) {
	p := Point{Value: v, Time: t}
	if len(b.points) >= b.max {
		copy(b.points, b.points[1:])
		b.points[len(b.points)-1] = p
	} else {
		b.points = append(b.points, p)
	}
	if v < b.Min {
		b.Min = v
	}
	if v > b.Peak {
		b.Peak = v
	}
}

// Len reports how many samples are stored.
func (b *Buffer) Len() int { return len(b.points) }

// Last returns the most recent sample value, or 0 when empty.
func (b *Buffer) Last() float64 {
	if len(b.points) == 0 {
		return 0
	}
	return b.points[len(b.points)-1].Value
}

// Avg returns the mean of the stored samples.
func (b *Buffer) Avg() float64 {
	if len(b.points) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range b.points {
		sum += p.Value
	}
	return sum / float64(len(b.points))
}

// LastN returns up to n most recent values, oldest first.
func (b *Buffer) LastN(n int) []float64 {
	if n <= 0 || len(b.points) == 0 {
		return nil
	}
	start := len(b.points) - n
	if start < 0 {
		start = 0
	}
	vals := make([]float64, 0, n)
	for _, p := range b.points[start:] {
		vals = append(vals, p.Value)
	}
	return vals
}

// Cache holds the latest enriched record per sensor and the bounded trend
// history behind the dashboard.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	latest   map[string]model.EnrichedReading
	trends   map[string]map[Metric]*Buffer
	total    int64
}

// NewCache builds a cache whose trend buffers hold capacity samples each.
func NewCache(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		latest:   make(map[string]model.EnrichedReading),
		trends:   make(map[string]map[Metric]*Buffer),
	}
}

// Apply folds one enriched record into the cache.
func (c *Cache) Apply(rec model.EnrichedReading) {
	ts, err := time.Parse(time.RFC3339, rec.Timestamp.String())
	if err != nil {
		ts = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total++
	c.latest[rec.SensorID] = rec
	bufs, ok := c.trends[rec.SensorID]
	if !ok {
		bufs = map[Metric]*Buffer{
			MetricAQI:      NewBuffer(c.capacity),
			MetricTemp:     NewBuffer(c.capacity),
			MetricHumidity: NewBuffer(c.capacity),
		}
		c.trends[rec.SensorID] = bufs
	}
	bufs[MetricAQI].Push(rec.AQI, ts)
	bufs[MetricTemp].Push(rec.TempC, ts)
	bufs[MetricHumidity].Push(rec.Humidity, ts)
}

// Sensors returns the known sensor ids in stable sorted order.
func (c *Cache) Sensors() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.latest))
	for id := range c.latest {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Latest returns the most recent enriched record for a sensor.
func (c *Cache) Latest(sensor string) (model.EnrichedReading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.latest[sensor]
	return rec, ok
}

// Trend returns up to n recent values of one metric for a sensor.
func (c *Cache) Trend(sensor string, m Metric, n int) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bufs, ok := c.trends[sensor]
	if !ok {
		return nil
	}
	return bufs[m].LastN(n)
}

// Total reports how many records have been applied since startup.
func (c *Cache) Total() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// v1
// internal/classify/advisory.go
package classify

type metric int

const (
	metricAQI metric = iota
	metricTemp
	metricHumidity
)

// Fixed advisory text per (metric, severity) pair. A static lookup, not
// computed.
var advisories = map[metric]map[Severity]string{
	metricAQI: {
		Unsafe:   "Unsafe air, avoid outdoor activity",
		Moderate: "Sensitive groups should be cautious",
		Good:     "Air quality is safe",
	},
	metricTemp: {
		Unsafe:   "Heat risk, stay hydrated and avoid direct sun",
		Moderate: "Warm, drink water regularly",
		Good:     "Temperature is comfortable",
	},
	metricHumidity: {
		Unsafe:   "High moisture alert, risk of mold and heat stress",
		Moderate: "Elevated humidity, monitor for discomfort",
		Good:     "Humidity is comfortable",
	},
}

// v1
// internal/dashboard/chart.go
package dashboard

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	styleSafe    = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	styleCaution = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleUnsafe  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// statusStyle picks the lipgloss style for an overall or per-metric
// status string.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "UNSAFE", "HEAT_RISK", "HIGH_MOISTURE":
		return styleUnsafe
	case "CAUTION", "MODERATE", "WARM", "ELEVATED":
		return styleCaution
	default:
		return styleSafe
	}
}

// sparkline renders values as colored block characters scaled between the
// metric's caution and unsafe thresholds.
func sparkline(values []float64, width int, rangeMin, rangeMax, caution, unsafe float64) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return styleDim.Render(strings.Repeat("╌", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}
	var sb strings.Builder
	for i := 0; i < width-len(values); i++ {
		sb.WriteString(styleDim.Render("╌"))
	}
	for _, v := range values {
		norm := math.Max(0, math.Min(1, (v-rangeMin)/span))
		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}
		style := styleSafe
		switch {
		case v > unsafe:
			style = styleUnsafe
		case v > caution:
			style = styleCaution
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}
	return sb.String()
}

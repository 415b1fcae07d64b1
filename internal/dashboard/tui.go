// v3
// internal/dashboard/tui.go
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/classify"
)

var (
	styleTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Background(lipgloss.Color("17")).Bold(true).Padding(0, 1)
	styleSensor = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Bold(true)
	styleLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	styleFooter = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("235")).Padding(0, 1)
)

const trendWidth = 40

type tickMsg time.Time

// Model is the bubbletea model behind the live dashboard. Records arrive
// through the Cache, which a background consumer goroutine keeps fresh;
// the model only re-renders on its poll tick.
type Model struct {
	cache    *Cache
	interval time.Duration
	width    int
	height   int
	last     time.Time
}

// NewModel builds the dashboard model around a shared cache.
func NewModel(cache *Cache, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{cache: cache, interval: interval}
}

// Run starts the TUI and blocks until the user quits.
func Run(cache *Cache, interval time.Duration) error {
	p := tea.NewProgram(NewModel(cache, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.last = time.Time(msg)
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render("ENVIRONMENTAL RISK MONITOR"))
	sb.WriteString("\n\n")

	sensors := m.cache.Sensors()
	if len(sensors) == 0 {
		sb.WriteString(styleLabel.Render("Waiting for enriched readings..."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(m.banner(sensors))
	sb.WriteString("\n\n")

	for _, id := range sensors {
		rec, ok := m.cache.Latest(id)
		if !ok {
			continue
		}
		sb.WriteString(styleSensor.Render(id))
		sb.WriteString("  ")
		sb.WriteString(statusStyle(rec.Overall).Render(rec.Overall))
		sb.WriteString("\n")

		sb.WriteString(m.metricLine("AQI     ", fmt.Sprintf("%6.0f", rec.AQI), rec.AQILevel,
			m.cache.Trend(id, MetricAQI, trendWidth), 0, 300, classify.AQIModerateAbove, classify.AQIUnsafeAbove))
		sb.WriteString(m.metricLine("Temp    ", fmt.Sprintf("%5.1f°C", rec.TempC), rec.TempLevel,
			m.cache.Trend(id, MetricTemp, trendWidth), 10, 55, classify.TempModerateAboveC, classify.TempUnsafeAboveC))
		sb.WriteString(m.metricLine("Humidity", fmt.Sprintf("%5.0f%%", rec.Humidity), rec.HumidityLevel,
			m.cache.Trend(id, MetricHumidity, trendWidth), 0, 100, classify.HumidityModerate, classify.HumidityUnsafeAbove))

		if rec.Overall != "SAFE" {
			sb.WriteString("  ")
			sb.WriteString(styleDim.Render(worstAdvisory(rec.AQILevel, rec.AQIAdvisory, rec.TempLevel, rec.TempAdvisory, rec.HumidityLevel, rec.HumidityAdvisory)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styleFooter.Render(fmt.Sprintf("records: %d  |  updated: %s  |  q: quit",
		m.cache.Total(), m.lastString())))
	sb.WriteString("\n")
	return sb.String()
}

// banner summarizes the whole fleet with the worst overall status.
func (m Model) banner(sensors []string) string {
	worst := classify.Good
	for _, id := range sensors {
		if rec, ok := m.cache.Latest(id); ok {
			if sev := classify.OverallSeverity(rec.Overall); sev > worst {
				worst = sev
			}
		}
	}
	status := classify.Overall(worst)
	text := fmt.Sprintf(" OVERALL: %s  (%d sensors) ", status, len(sensors))
	return statusStyle(status).Render(text)
}

func (m Model) metricLine(name, value, level string, trend []float64, rangeMin, rangeMax, caution, unsafe float64) string {
	var sb strings.Builder
	sb.WriteString("  ")
	sb.WriteString(styleLabel.Render(name))
	sb.WriteString(" ")
	sb.WriteString(statusStyle(level).Render(value))
	sb.WriteString("  ")
	sb.WriteString(sparkline(trend, trendWidth, rangeMin, rangeMax, caution, unsafe))
	sb.WriteString("  ")
	sb.WriteString(statusStyle(level).Render(level))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) lastString() string {
	if m.last.IsZero() {
		return "-"
	}
	return m.last.Format("15:04:05")
}

// worstAdvisory picks the advisory of the most severe metric so the
// banner shows a single actionable line.
func worstAdvisory(aqiLevel, aqiAdv, tempLevel, tempAdv, humLevel, humAdv string) string {
	type pair struct {
		level, adv string
	}
	worst := pair{}
	worstSev := classify.Severity(-1)
	for _, p := range []pair{{aqiLevel, aqiAdv}, {tempLevel, tempAdv}, {humLevel, humAdv}} {
		sev := levelSeverity(p.level)
		if sev > worstSev {
			worstSev = sev
			worst = p
		}
	}
	return worst.adv
}

func levelSeverity(level string) classify.Severity {
	switch level {
	case "UNSAFE", "HEAT_RISK", "HIGH_MOISTURE":
		return classify.Unsafe
	case "MODERATE", "WARM", "ELEVATED":
		return classify.Moderate
	default:
		return classify.Good
	}
}

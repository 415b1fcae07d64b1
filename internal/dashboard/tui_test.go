// v1
// internal/dashboard/tui_test.go
package dashboard

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestViewWaitingState(t *testing.T) {
	m := NewModel(NewCache(10), time.Second)
	out := m.View()
	if !strings.Contains(out, "ENVIRONMENTAL RISK MONITOR") {
		t.Fatalf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "Waiting for enriched readings") {
		t.Fatalf("waiting line missing:\n%s", out)
	}
}

func TestViewRendersSensors(t *testing.T) {
	c := NewCache(10)
	rec := enriched("SENSOR_B", 180, "UNSAFE")
	rec.AQILevel = "UNSAFE"
	rec.AQIAdvisory = "Unsafe air, avoid outdoor activity"
	rec.TempLevel = "NORMAL"
	rec.HumidityLevel = "NORMAL"
	c.Apply(rec)
	c.Apply(enriched("SENSOR_A", 40, "SAFE"))

	m := NewModel(c, time.Second)
	out := m.View()
	for _, want := range []string{"SENSOR_A", "SENSOR_B", "OVERALL: UNSAFE", "(2 sensors)", "Unsafe air, avoid outdoor activity"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// SAFE sensors carry no advisory line of their own.
	if idxA, idxB := strings.Index(out, "SENSOR_A"), strings.Index(out, "SENSOR_B"); idxA > idxB {
		t.Fatalf("sensors not in sorted order:\n%s", out)
	}
}

func TestUpdateQuitKeys(t *testing.T) {
	m := NewModel(NewCache(10), time.Second)
	for _, key := range []string{"q", "ctrl+c"} {
		var msg tea.KeyMsg
		if key == "q" {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
	}
}

func TestWorstAdvisoryPicksMostSevere(t *testing.T) {
	got := worstAdvisory("MODERATE", "aqi advice", "HEAT_RISK", "heat advice", "ELEVATED", "humidity advice")
	if got != "heat advice" {
		t.Fatalf("worst advisory: %s", got)
	}
	got = worstAdvisory("GOOD", "a", "NORMAL", "b", "ELEVATED", "humidity advice")
	if got != "humidity advice" {
		t.Fatalf("worst advisory: %s", got)
	}
}

func TestLevelSeverity(t *testing.T) {
	if levelSeverity("HEAT_RISK") <= levelSeverity("WARM") {
		t.Fatalf("heat risk should outrank warm")
	}
	if levelSeverity("ELEVATED") <= levelSeverity("NORMAL") {
		t.Fatalf("elevated should outrank normal")
	}
	if levelSeverity("unknown") != levelSeverity("GOOD") {
		t.Fatalf("unknown levels rank as good")
	}
}

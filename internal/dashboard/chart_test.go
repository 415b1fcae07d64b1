// v1
// internal/dashboard/chart_test.go
package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSparklineWidth(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
	}{
		{"empty", nil, 8},
		{"fewer than width", []float64{1, 2}, 8},
		{"exactly width", []float64{1, 2, 3, 4}, 4},
		{"more than width", []float64{1, 2, 3, 4, 5, 6}, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := sparkline(tc.values, tc.width, 0, 10, 6, 8)
			if n := runeWidth(got); n != tc.width {
				t.Fatalf("rendered width %d want %d (%q)", n, tc.width, got)
			}
		})
	}
	if sparkline([]float64{1}, 0, 0, 10, 6, 8) != "" {
		t.Fatalf("zero width should render nothing")
	}
}

// runeWidth counts printable cells, skipping ANSI escape sequences.
func runeWidth(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if r == 'm' {
				inEsc = false
			}
		case r == '\x1b':
			inEsc = true
		default:
			n++
		}
	}
	return n
}

func TestSparklineScalesToRange(t *testing.T) {
	low := sparkline([]float64{0}, 1, 0, 10, 6, 8)
	high := sparkline([]float64{10}, 1, 0, 10, 6, 8)
	if !strings.ContainsRune(low, sparkBlocks[0]) {
		t.Fatalf("minimum should use the lowest block: %q", low)
	}
	if !strings.ContainsRune(high, sparkBlocks[7]) {
		t.Fatalf("maximum should use the tallest block: %q", high)
	}
	clamped := sparkline([]float64{99}, 1, 0, 10, 6, 8)
	if !strings.ContainsRune(clamped, sparkBlocks[7]) {
		t.Fatalf("out-of-range value should clamp: %q", clamped)
	}
}

func TestStatusStyleSeverity(t *testing.T) {
	for _, s := range []string{"UNSAFE", "HEAT_RISK", "HIGH_MOISTURE"} {
		st := statusStyle(s)
		if st.GetForeground() != lipgloss.Color("196") || !st.GetBold() {
			t.Fatalf("%s should use the unsafe style", s)
		}
	}
	for _, s := range []string{"CAUTION", "MODERATE", "WARM", "ELEVATED"} {
		if statusStyle(s).GetForeground() != lipgloss.Color("220") {
			t.Fatalf("%s should use the caution style", s)
		}
	}
	for _, s := range []string{"SAFE", "GOOD", "NORMAL", ""} {
		if statusStyle(s).GetForeground() != lipgloss.Color("78") {
			t.Fatalf("%s should use the safe style", s)
		}
	}
}

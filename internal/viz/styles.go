package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle      = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusPaused  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))

	onLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#333333"))
	offLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))

	forwardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	reverseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// SensorStrip renders readings as filled (black line) or empty (white floor)
// blocks in bar order.
func SensorStrip(vals []float64) string {
	var b strings.Builder
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(' ')
		}
		if v >= 0.5 {
			b.WriteString(onLineStyle.Render("■"))
		} else {
			b.WriteString(offLineStyle.Render("□"))
		}
	}
	return b.String()
}

// CommandBar renders a motor command in [-1,1] as a centred bar.
func CommandBar(v float64, half int) string {
	n := int(v*float64(half) + 0.5*sign(v))
	if n > half {
		n = half
	}
	if n < -half {
		n = -half
	}

	left := strings.Repeat(" ", half)
	right := strings.Repeat(" ", half)
	if n < 0 {
		left = strings.Repeat(" ", half+n) + reverseStyle.Render(strings.Repeat("█", -n))
	} else if n > 0 {
		right = forwardStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", half-n)
	}
	return "[" + left + "|" + right + "]"
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

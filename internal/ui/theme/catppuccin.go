package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Yellow   = lipgloss.Color("#f9e2af")
	Peach    = lipgloss.Color("#fab387")
	Red      = lipgloss.Color("#f38ba8")
	Mauve    = lipgloss.Color("#cba6f7")

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)
)

var urgencyStyles = map[string]lipgloss.Style{
	"good":        lipgloss.NewStyle().Foreground(Green),
	"approaching": lipgloss.NewStyle().Foreground(Yellow),
	"urgent":      lipgloss.NewStyle().Foreground(Peach).Bold(true),
	"overdue":     lipgloss.NewStyle().Foreground(Red).Bold(true),
	"impossible":  lipgloss.NewStyle().Foreground(Mauve).Bold(true),
}

// Urgency returns the style for an urgency label; unknown labels are muted.
func Urgency(label string) lipgloss.Style {
	if style, ok := urgencyStyles[strings.ToLower(label)]; ok {
		return style
	}
	return Muted
}

// UrgencyLabel renders label padded to width in its urgency color.
func UrgencyLabel(label string, width int) string {
	return Urgency(label).Width(width).Render(label)
}

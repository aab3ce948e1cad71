package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/ui/theme"
)

// Meter shows how many of Total items are done as a labelled bar with a
// "done/total" counter.
type Meter struct {
	Label string
	Done  int
	Total int
	Width int
}

// NewMeter returns a Meter. Done is clamped to [0, Total] when rendered.
func NewMeter(label string, done, total, width int) Meter {
	return Meter{Label: label, Done: done, Total: total, Width: width}
}

// Fraction is Done/Total, clamped to [0, 1]. An empty meter is 0.
func (m Meter) Fraction() float64 {
	if m.Total <= 0 {
		return 0
	}
	return float64(min(max(m.Done, 0), m.Total)) / float64(m.Total)
}

func (m Meter) View() string {
	label := ""
	if m.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label) + " "
	}
	count := fmt.Sprintf(" %d/%d", min(max(m.Done, 0), max(m.Total, 0)), max(m.Total, 0))

	cells := max(m.Width-lipgloss.Width(label)-len(count), 4)
	filled := int(float64(cells) * m.Fraction())

	bar := lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", cells-filled))
	return label + bar + theme.Hint.Render(count)
}

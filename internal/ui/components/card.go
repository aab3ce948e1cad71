package components

import (
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered cards.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border box of content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// SubjectBadge renders a subject name in its color.
func SubjectBadge(s catalog.Subject) string {
	return lipgloss.NewStyle().
		Foreground(theme.SubjectColor(s)).
		Bold(true).
		Render(catalog.SubjectDisplayName(s))
}

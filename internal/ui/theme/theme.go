// Package theme holds the TUI palette and shared text styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
)

var (
	Primary   = lipgloss.Color("#22D3EE") // cyan, the AR overlay colour
	Secondary = lipgloss.Color("#818CF8") // periwinkle
	Accent    = lipgloss.Color("#FB923C") // amber
	Highlight = lipgloss.Color("#FDE047") // bookmark star
	Success   = lipgloss.Color("#34D399")
	Error     = lipgloss.Color("#F87171")
	Text      = lipgloss.Color("#E2E8F0")
	TextDim   = lipgloss.Color("#64748B")
	BgCard    = lipgloss.Color("#111827")
	Border    = lipgloss.Color("#1F2937")
)

var subjectColors = map[catalog.Subject]color.Color{
	catalog.SubjectPhysics:   lipgloss.Color("#60A5FA"),
	catalog.SubjectChemistry: lipgloss.Color("#C084FC"),
	catalog.SubjectBiology:   lipgloss.Color("#86EFAC"),
}

// SubjectColor returns a subject's badge colour, or Text for an unknown
// subject.
func SubjectColor(s catalog.Subject) color.Color {
	if c, ok := subjectColors[s]; ok {
		return c
	}
	return Text
}

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Hint  = lipgloss.NewStyle().Foreground(TextDim).Italic(true)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

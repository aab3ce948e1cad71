package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("ARLab needs a %d×%d terminal.\nThis one is %d×%d.", MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// RenderHeader renders the top bar: "ARLab › title" on the left and status,
// usually the learner id, on the right.
func RenderHeader(title, status string, width int) string {
	crumb := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("ARLab")
	if title != "" {
		crumb += theme.Hint.Render(" › ") + lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}
	right := ""
	if status != "" {
		right = lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + status)
	}

	inner := max(width-4, 0)
	gap := max(inner-lipgloss.Width(crumb)-lipgloss.Width(right), 1)
	return bar(crumb+strings.Repeat(" ", gap)+right, width)
}

// RenderFooter renders key hints. When the full hints do not fit, only the
// keys are shown.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	full := make([]string, len(hints))
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = keyStyle.Render(h.Key)
		full[i] = keys[i] + " " + descStyle.Render(h.Description)
	}

	content := strings.Join(full, "   ")
	if lipgloss.Width(content) > width-4 {
		content = strings.Join(keys, " ")
	}
	return bar(content, width)
}

func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}

// Divider renders a horizontal rule at most 60 cells wide.
func Divider(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0)))
}

// Centered renders s centered in width.
func Centered(s string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

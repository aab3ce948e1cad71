package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██████╗ ██╗      █████╗ ██████╗
 ██╔══██╗██╔══██╗██║     ██╔══██╗██╔══██╗
 ███████║██████╔╝██║     ███████║██████╔╝
 ██╔══██║██╔══██╗██║     ██╔══██║██╔══██╗
 ██║  ██║██║  ██║███████╗██║  ██║██████╔╝
 ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═════╝`

const bannerCompact = "A R L A B"

// bannerMargin keeps the block art off the terminal edges.
const bannerMargin = 2

var bannerStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

// RenderBanner returns the block-letter banner, or the spaced compact form
// when the art plus a margin on each side does not fit in width.
func RenderBanner(width int) string {
	if width < lipgloss.Width(bannerArt)+2*bannerMargin {
		return bannerStyle.Render(bannerCompact)
	}
	return bannerStyle.Render(bannerArt)
}

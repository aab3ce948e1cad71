package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/arlab/arlab/internal/ui/layout"
)

// Screen is one entry on the router's stack. Only the top screen receives
// messages; the app draws the header and footer around View.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body into a width×height area.
	View(width, height int) string

	// Title is the screen's breadcrumb in the header. Empty titles are
	// left out of the trail.
	Title() string
}

// KeyHintProvider replaces the footer's default hints while the screen is
// on top.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens holding subscriptions or timers. The
// router calls Close when the screen leaves the stack.
type Closer interface {
	Close()
}

// Resumer is implemented by screens that refresh when they become the top
// of the stack again after a pop.
type Resumer interface {
	Resume() tea.Cmd
}

package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/ui/theme"
)

const frameInterval = 100 * time.Millisecond

// Frame counts at which each part of the splash appears. The animation
// stops ticking at settleFrame.
const (
	orbitFrame  = 5
	bannerFrame = 15
	settleFrame = 45
)

const atomArt = `      .-~~~-.
   .-~  ●    ~-.
  (  ●  (◉)  ●  )
   '-._     _.-'
       '~~~'`

var orbitFrames = []string{"◜", "◝", "◞", "◟"}

type frameMsg struct{}

// WelcomeScreen is the splash shown at launch. Any key opens the screen
// built by next.
type WelcomeScreen struct {
	next     func() screen.Screen
	subjects []subjectCount
	frame    int
	done     bool
}

type subjectCount struct {
	subject catalog.Subject
	lessons int
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New returns a WelcomeScreen. cat may be nil, in which case the subject
// line is omitted.
func New(next func() screen.Screen, cat *catalog.Catalog) *WelcomeScreen {
	w := &WelcomeScreen{next: next}
	if cat != nil {
		for _, s := range cat.Subjects() {
			w.subjects = append(w.subjects, subjectCount{s, len(cat.BySubject(s))})
		}
	}
	return w
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.frame >= settleFrame {
			return w, nil
		}
		w.frame++
		return w, nextFrame()

	case tea.KeyPressMsg:
		if w.done {
			return w, nil
		}
		w.done = true
		s := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	atom := strings.Split(lipgloss.NewStyle().Foreground(theme.Primary).Render(atomArt), "\n")
	if w.frame >= orbitFrame && len(atom) > 2 {
		mark := orbitFrames[w.frame%len(orbitFrames)]
		atom[2] = theme.Hint.Foreground(theme.Accent).Render(mark) + "  " + atom[2] + "  " +
			theme.Hint.Foreground(theme.Secondary).Render(mark)
	}
	sections := []string{strings.Join(atom, "\n")}

	if w.frame >= bannerFrame {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Science you can walk around."),
		)
		if line := w.subjectLine(); line != "" {
			sections = append(sections, line)
		}
		sections = append(sections, "", theme.Hint.Italic(true).Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

// subjectLine lists the subjects with their lesson counts, lighting one
// subject at a time while the animation runs.
func (w *WelcomeScreen) subjectLine() string {
	if len(w.subjects) == 0 {
		return ""
	}
	lit := -1
	if w.frame < settleFrame {
		lit = (w.frame / 5) % len(w.subjects)
	}
	parts := make([]string, len(w.subjects))
	for i, sc := range w.subjects {
		text := fmt.Sprintf("%s %d", catalog.SubjectDisplayName(sc.subject), sc.lessons)
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == lit || lit < 0 {
			style = style.Foreground(theme.SubjectColor(sc.subject))
		}
		parts[i] = style.Render(text)
	}
	return strings.Join(parts, theme.Hint.Render("  ·  "))
}

package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/screens/dashboard"
	"github.com/arlab/arlab/internal/screens/lesson"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/ui/components"
	"github.com/arlab/arlab/internal/ui/layout"
	"github.com/arlab/arlab/internal/ui/theme"
)

type loadedMsg struct {
	records []store.Progress
	stats   progress.Stats
	err     error
}

// HomeScreen lists the catalog's lessons with the user's progress on each.
type HomeScreen struct {
	env      screen.Env
	tabs     []catalog.Subject // "" is every subject
	tab      int
	filter   components.TextInput
	menu     components.Menu
	lessons  []catalog.Lesson
	progress map[string]store.Progress
	stats    progress.Stats
	errMsg   string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a HomeScreen. Progress is loaded by Init.
func New(env screen.Env) *HomeScreen {
	h := &HomeScreen{
		env:      env,
		tabs:     append([]catalog.Subject{""}, env.Catalog.Subjects()...),
		filter:   components.NewTextInput("filter lessons", 40),
		progress: map[string]store.Progress{},
	}
	h.rebuild()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads progress after a lesson or dashboard closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	env := h.env
	return func() tea.Msg {
		ctx := context.Background()
		records, err := env.Tracker.All(ctx, env.UserID)
		if err != nil {
			return loadedMsg{err: err}
		}
		stats, err := env.Tracker.Stats(ctx, env.UserID)
		return loadedMsg{records: records, stats: stats, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Lessons"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	if h.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Done"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Subject"},
		{Key: "/", Description: "Filter"},
		{Key: "P", Description: "Progress"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			h.env.Logger.OrNop().Error("load progress", "user", h.env.UserID, "error", msg.err)
			return h, nil
		}
		h.errMsg = ""
		h.progress = make(map[string]store.Progress, len(msg.records))
		for _, p := range msg.records {
			h.progress[p.LessonID] = p
		}
		h.stats = msg.stats
		h.rebuild()
		return h, nil

	case tea.KeyMsg:
		if h.filter.Focused() {
			return h.updateFilter(msg)
		}
		switch msg.String() {
		case "tab":
			h.tab = (h.tab + 1) % len(h.tabs)
			h.rebuild()
			return h, nil
		case "shift+tab":
			h.tab = (h.tab + len(h.tabs) - 1) % len(h.tabs)
			h.rebuild()
			return h, nil
		case "/":
			return h, h.filter.Focus()
		case "p":
			d := dashboard.New(h.env)
			return h, func() tea.Msg { return router.PushScreenMsg{Screen: d} }
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) updateFilter(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		h.filter.Blur()
		return h, nil
	case "esc":
		h.filter.Reset()
		h.filter.Blur()
		h.rebuild()
		return h, nil
	}
	var cmd tea.Cmd
	h.filter, cmd = h.filter.Update(msg)
	h.rebuild()
	return h, cmd
}

// rebuild recomputes the visible lessons from the subject tab and filter,
// keeping the selection on the same lesson when it is still visible.
func (h *HomeScreen) rebuild() {
	var selectedID string
	if h.menu.Selected < len(h.lessons) {
		selectedID = h.lessons[h.menu.Selected].ID
	}

	var pool []catalog.Lesson
	if s := h.tabs[h.tab]; s == "" {
		pool = h.env.Catalog.All()
	} else {
		pool = h.env.Catalog.BySubject(s)
	}

	query := strings.ToLower(strings.TrimSpace(h.filter.Value()))
	h.lessons = h.lessons[:0]
	items := make([]components.MenuItem, 0, len(pool))
	selected := 0
	for _, l := range pool {
		if query != "" && !matches(l, query) {
			continue
		}
		if l.ID == selectedID {
			selected = len(h.lessons)
		}
		h.lessons = append(h.lessons, l)
		items = append(items, components.MenuItem{
			Label:  l.Title,
			Detail: h.detail(l),
			Action: h.open(l),
		})
	}
	h.menu = components.NewMenu(items)
	h.menu.Select(selected)
}

func (h *HomeScreen) open(l catalog.Lesson) func() tea.Cmd {
	return func() tea.Cmd {
		next := lesson.New(h.env, l)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (h *HomeScreen) detail(l catalog.Lesson) string {
	p, ok := h.progress[l.ID]
	if !ok {
		return fmt.Sprintf("%s · %dm", l.Difficulty, l.EstimatedMinutes)
	}
	var parts []string
	if p.Bookmarked {
		parts = append(parts, "★")
	}
	if p.Completed {
		parts = append(parts, "✓")
	} else {
		parts = append(parts, fmt.Sprintf("%.0f%%", progress.Percent(p, l.TotalSteps())*100))
	}
	return strings.Join(parts, " ")
}

func matches(l catalog.Lesson, query string) bool {
	if strings.Contains(strings.ToLower(l.Title), query) ||
		strings.Contains(strings.ToLower(l.Description), query) {
		return true
	}
	for _, tag := range l.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, h.renderTabs())
	sections = append(sections, h.renderStats())

	if h.filter.Focused() || h.filter.Value() != "" {
		sections = append(sections, "/ "+h.filter.View())
	}

	if len(h.lessons) == 0 {
		sections = append(sections, theme.Hint.Render("No lessons match."))
	} else {
		list := h.menu.View(cw - 4)
		if sel := h.menu.Selected; sel < len(h.lessons) && !layout.IsCompactHeight(height) {
			l := h.lessons[sel]
			list += "\n\n" + components.SubjectBadge(l.Subject) + "  " +
				lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw-4).Render(l.Description)
		}
		sections = append(sections, components.Card(list, cw))
	}

	if h.errMsg != "" {
		sections = append(sections, theme.Incorrect.Render("Progress unavailable: "+h.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n")))
}

func (h *HomeScreen) renderTabs() string {
	tabs := make([]string, len(h.tabs))
	for i, s := range h.tabs {
		name := "All"
		if s != "" {
			name = catalog.SubjectDisplayName(s)
		}
		if i == h.tab {
			tabs[i] = theme.Selected.Render("[" + name + "]")
		} else {
			tabs[i] = theme.Unselected.Render(" " + name + " ")
		}
	}
	return strings.Join(tabs, " ")
}

func (h *HomeScreen) renderStats() string {
	line := fmt.Sprintf("%d started · %d completed · %d bookmarked",
		h.stats.Lessons, h.stats.Completed, h.stats.Bookmarked)
	if h.stats.HasScores {
		line += fmt.Sprintf(" · avg quiz %.0f%%", h.stats.AverageScore)
	}
	return theme.Hint.Render(line)
}

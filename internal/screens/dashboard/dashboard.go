// Package dashboard shows the user's progress across lessons.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/screens/lesson"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/ui/components"
	"github.com/arlab/arlab/internal/ui/layout"
	"github.com/arlab/arlab/internal/ui/theme"
)

// Filter selects which records the dashboard lists.
type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterBookmarked
)

var filterNames = []string{"All", "Completed", "Bookmarked"}

type loadedMsg struct {
	filter  Filter
	records []store.Progress
	stats   progress.Stats
	err     error
}

// DashboardScreen lists progress records, most recent first.
type DashboardScreen struct {
	env     screen.Env
	filter  Filter
	records []store.Progress
	stats   progress.Stats
	menu    components.Menu
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Resumer = (*DashboardScreen)(nil)

// New creates a DashboardScreen showing every record.
func New(env screen.Env) *DashboardScreen {
	return &DashboardScreen{env: env}
}

func (d *DashboardScreen) Init() tea.Cmd {
	return d.load()
}

// Resume reloads after a lesson opened from the dashboard closes.
func (d *DashboardScreen) Resume() tea.Cmd {
	return d.load()
}

func (d *DashboardScreen) load() tea.Cmd {
	env, filter := d.env, d.filter
	return func() tea.Msg {
		ctx := context.Background()
		var (
			records []store.Progress
			err     error
		)
		switch filter {
		case FilterCompleted:
			records, err = env.Tracker.Completed(ctx, env.UserID)
		case FilterBookmarked:
			records, err = env.Tracker.Bookmarked(ctx, env.UserID)
		default:
			records, err = env.Tracker.All(ctx, env.UserID)
		}
		if err != nil {
			return loadedMsg{filter: filter, err: err}
		}
		stats, err := env.Tracker.Stats(ctx, env.UserID)
		return loadedMsg{filter: filter, records: records, stats: stats, err: err}
	}
}

func (d *DashboardScreen) Title() string {
	return "Progress"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		// A reply for a filter the user has since left is stale.
		if msg.filter != d.filter {
			return d, nil
		}
		d.loaded = true
		if msg.err != nil {
			d.errMsg = msg.err.Error()
			return d, nil
		}
		d.errMsg = ""
		d.records = msg.records
		d.stats = msg.stats
		d.rebuild()
		return d, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			d.filter = (d.filter + 1) % Filter(len(filterNames))
			return d, d.load()
		case "shift+tab", "left", "h":
			d.filter = (d.filter + Filter(len(filterNames)) - 1) % Filter(len(filterNames))
			return d, d.load()
		}
	}

	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) rebuild() {
	items := make([]components.MenuItem, 0, len(d.records))
	for _, p := range d.records {
		l, ok := d.env.Catalog.Get(p.LessonID)
		item := components.MenuItem{Label: p.LessonID, Detail: recordDetail(p, l, ok), Disabled: !ok}
		if ok {
			item.Label = l.Title
			item.Action = func() tea.Cmd {
				next := lesson.New(d.env, l)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
		items = append(items, item)
	}
	selected := d.menu.Selected
	d.menu = components.NewMenu(items)
	d.menu.Select(selected)
}

func recordDetail(p store.Progress, l catalog.Lesson, known bool) string {
	var parts []string
	if p.Bookmarked {
		parts = append(parts, "★")
	}
	switch {
	case p.Completed:
		parts = append(parts, "✓")
	case known:
		parts = append(parts, fmt.Sprintf("%.0f%%", progress.Percent(p, l.TotalSteps())*100))
	}
	if p.QuizAttempts > 0 {
		parts = append(parts, fmt.Sprintf("quiz %d%%", p.QuizScore))
	}
	if p.TimeSpent > 0 {
		parts = append(parts, p.TimeSpent.Round(time.Second).String())
	}
	return strings.Join(parts, " · ")
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	tabs := make([]string, len(filterNames))
	for i, name := range filterNames {
		if Filter(i) == d.filter {
			tabs[i] = theme.Selected.Render("[" + name + "]")
		} else {
			tabs[i] = theme.Unselected.Render(" " + name + " ")
		}
	}
	sections = append(sections, strings.Join(tabs, " "))

	avg := "no quiz scores yet"
	if d.stats.HasScores {
		avg = fmt.Sprintf("average quiz score %.0f%%", d.stats.AverageScore)
	}
	sections = append(sections, theme.Hint.Render(fmt.Sprintf(
		"%d of %d lessons completed · %s", d.stats.Completed, d.env.Catalog.Len(), avg)))

	if d.env.Catalog.Len() > 0 {
		bar := components.NewMeter("Catalog", d.stats.Completed, d.env.Catalog.Len(), cw)
		sections = append(sections, bar.View())
	}

	switch {
	case d.errMsg != "":
		sections = append(sections, theme.Incorrect.Render("Could not load progress: "+d.errMsg))
	case !d.loaded:
		sections = append(sections, theme.Hint.Render("Loading..."))
	case len(d.records) == 0:
		sections = append(sections, theme.Hint.Render("Nothing here yet."))
	default:
		sections = append(sections, components.Card(d.menu.View(cw-4), cw))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n")))
}

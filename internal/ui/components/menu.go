package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/ui/theme"
)

// MenuItem is one row of a Menu. Detail is right-aligned.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that skips disabled rows.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu selects the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.move(0, 1)
	return m
}

// Select moves the cursor to i if that row exists and is enabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

// move selects the first enabled row at or after from, stepping by dir.
// The cursor stays put when there is none.
func (m *Menu) move(from, dir int) {
	for i := from; i >= 0 && i < len(m.Items); i += dir {
		if m.Select(i) {
			return
		}
	}
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.move(m.Selected-1, -1)
	case "down", "j":
		m.move(m.Selected+1, 1)
	case "home", "g":
		m.move(0, 1)
	case "end", "G":
		m.move(len(m.Items)-1, -1)
	case "enter":
		if m.Selected < len(m.Items) {
			if it := m.Items[m.Selected]; it.Action != nil && !it.Disabled {
				return m, it.Action()
			}
		}
	}
	return m, nil
}

func (m Menu) View(width int) string {
	rows := make([]string, len(m.Items))
	for i, it := range m.Items {
		marker, style := "   ", lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case it.Disabled:
			style = style.Foreground(theme.TextDim).Strikethrough(true)
		case i == m.Selected:
			marker, style = " ▸ ", theme.Selected
		}

		row := marker + style.Render(it.Label)
		if it.Detail != "" {
			detail := theme.Hint.Render(it.Detail)
			row += strings.Repeat(" ", max(width-lipgloss.Width(row)-lipgloss.Width(detail), 1)) + detail
		}
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestMultiChoice_SelectAndReveal(t *testing.T) {
	m := NewMultiChoice([]string{"Inertia", "Gravity", "Friction"})
	m, _ = m.Update(key('j'))
	m, _ = m.Update(key('j'))
	m, _ = m.Update(key('j'))
	if m.Selected != 2 {
		t.Fatalf("selected = %d, want 2 (clamped)", m.Selected)
	}
	m, _ = m.Update(key('1'))
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	got, ok := m.Chosen()
	if !ok || got != "Inertia" {
		t.Fatalf("chosen = %q, %v", got, ok)
	}

	// Input is ignored once submitted.
	m, _ = m.Update(key('j'))
	if m.Selected != 0 {
		t.Error("selection moved after submit")
	}

	m.Reveal("Gravity")
	if m.CorrectIndex != 1 {
		t.Errorf("correct index = %d, want 1", m.CorrectIndex)
	}
	if !strings.Contains(m.View(), "2)  Gravity") {
		t.Errorf("view = %q", m.View())
	}
}

func TestMultiChoice_EmptyNeverSubmits(t *testing.T) {
	m := NewMultiChoice(nil)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := m.Chosen(); ok {
		t.Error("empty selector reported a choice")
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b", Action: func() tea.Cmd { fired = "b"; return nil }},
		{Label: "c", Disabled: true},
		{Label: "d", Action: func() tea.Cmd { fired = "d"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}
	m, _ = m.Update(key('j'))
	if m.Selected != 3 {
		t.Fatalf("selection = %d, want 3", m.Selected)
	}
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if fired != "d" {
		t.Errorf("fired %q, want d", fired)
	}

	m, _ = m.Update(key('g'))
	if m.Selected != 1 {
		t.Errorf("after g selection = %d, want 1", m.Selected)
	}
	if m.Select(2) {
		t.Error("Select accepted a disabled row")
	}
	if m.Select(9) || m.Selected != 1 {
		t.Errorf("Select out of range moved cursor to %d", m.Selected)
	}
}

func TestMenu_AllDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "retired_001", Disabled: true}})
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("enter on a disabled row produced a command")
	}
}

func TestMeter(t *testing.T) {
	tests := []struct {
		done, total int
		frac        float64
		count       string
	}{
		{0, 3, 0, "0/3"},
		{2, 4, 0.5, "2/4"},
		{5, 3, 1, "3/3"},
		{-1, 3, 0, "0/3"},
		{0, 0, 0, "0/0"},
	}
	for _, tt := range tests {
		m := NewMeter("Steps", tt.done, tt.total, 30)
		if got := m.Fraction(); got != tt.frac {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.frac)
		}
		if v := m.View(); !strings.Contains(v, tt.count) || !strings.Contains(v, "Steps") {
			t.Errorf("View(%d/%d) = %q, want label and %q", tt.done, tt.total, v, tt.count)
		}
	}
}

package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/internal/screen/screentest"
	"github.com/arlab/arlab/internal/screens/home"
	"github.com/arlab/arlab/internal/screens/welcome"
)

func TestAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(screentest.NewEnv(t), Options{})
	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())
	assert.NotNil(t, m.Init(), "welcome animation ticks from the start")
}

func TestAppModel_SkipWelcome(t *testing.T) {
	m := newAppModel(screentest.NewEnv(t), Options{SkipWelcome: true})
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
	assert.NotNil(t, m.Init(), "home loads progress on init")
}

func TestAppModel_WindowSizeAndHints(t *testing.T) {
	m := newAppModel(screentest.NewEnv(t), Options{SkipWelcome: true})
	assert.Equal(t, screentest.UserID, m.status)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(AppModel)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, 40, m.height)

	hints := m.footerHints(m.router.Active())
	assert.Equal(t, "Filter", hints[3].Description, "footer shows the active screen's hints")

	w := newAppModel(screentest.NewEnv(t), Options{})
	assert.Equal(t, "Continue", w.footerHints(w.router.Active())[0].Description)
}

func TestAppModel_Keys(t *testing.T) {
	var m tea.Model = newAppModel(screentest.NewEnv(t), Options{SkipWelcome: true})

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd, "esc on the root screen does not pop")
}

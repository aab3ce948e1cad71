// Package router keeps the stack of TUI screens: home at the bottom, the
// screen the learner is looking at on top.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/arlab/arlab/internal/screen"
)

// PushScreenMsg opens Screen on top of the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg returns to the screen underneath.
type PopScreenMsg struct{}

// ReplaceScreenMsg swaps the top screen for Screen, keeping the depth.
// The quiz uses it to hand over to its result screen so that going back
// lands on the lesson, not on a finished quiz.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router is a stack of screens. It is never empty.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Init runs the root screen's Init.
func (r *Router) Init() tea.Cmd {
	return r.stack[0].Init()
}

// Push opens s and runs its Init.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop closes the top screen and resumes the one revealed. The root is
// never popped.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) == 1 {
		return nil
	}
	release(r.Active())
	r.stack = r.stack[:len(r.stack)-1]
	if rs, ok := r.Active().(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}

// Replace closes the top screen and puts s in its place.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	release(r.Active())
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// CloseAll closes every screen, top first. Used when the program exits so
// open lessons record their time.
func (r *Router) CloseAll() {
	for i := len(r.stack) - 1; i >= 0; i-- {
		release(r.stack[i])
	}
}

func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Trail returns the titles from the root to the top, skipping screens
// without a title.
func (r *Router) Trail() []string {
	var out []string
	for _, s := range r.stack {
		if t := s.Title(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Update applies navigation messages and forwards everything else to the
// top screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	next, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}

func release(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

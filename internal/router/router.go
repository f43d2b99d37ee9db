// Package router keeps the stack of TUI screens. Screens never hold a
// reference to the router; they ask for navigation with a NavigateMsg.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/screen"
)

// Op is a stack operation.
type Op int

const (
	OpPush    Op = iota // cover the active screen
	OpPop               // return to the screen below
	OpReplace           // swap the active screen, e.g. a finished quiz for its results
	OpHome              // drop everything above the root screen
)

func (o Op) String() string {
	switch o {
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpReplace:
		return "replace"
	case OpHome:
		return "home"
	}
	return "unknown"
}

// NavigateMsg asks the router to change the stack. Screen is used by
// OpPush and OpReplace.
type NavigateMsg struct {
	Op     Op
	Screen screen.Screen
}

// Router owns the screen stack. The root screen is never removed.
type Router struct {
	stack []screen.Screen
}

// New creates a router showing root.
func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

// Active returns the top screen.
func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of stacked screens.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Push covers the active screen with s and initializes it.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	return r.Navigate(NavigateMsg{Op: OpPush, Screen: s})
}

// Pop returns to the screen below. No-op at the root.
func (r *Router) Pop() tea.Cmd {
	return r.Navigate(NavigateMsg{Op: OpPop})
}

// Replace swaps the active screen for s and initializes it.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	return r.Navigate(NavigateMsg{Op: OpReplace, Screen: s})
}

// PopToRoot drops every screen above the root.
func (r *Router) PopToRoot() tea.Cmd {
	return r.Navigate(NavigateMsg{Op: OpHome})
}

// Navigate applies m. A screen uncovered by a pop is resumed when it
// implements screen.Resumer.
func (r *Router) Navigate(m NavigateMsg) tea.Cmd {
	top := len(r.stack) - 1
	switch m.Op {
	case OpPush:
		r.stack = append(r.stack, m.Screen)
		return m.Screen.Init()
	case OpReplace:
		r.stack[top] = m.Screen
		return m.Screen.Init()
	case OpPop:
		if top == 0 {
			return nil
		}
		r.stack = r.stack[:top]
	case OpHome:
		if top == 0 {
			return nil
		}
		r.stack = r.stack[:1]
	default:
		return nil
	}

	if res, ok := r.Active().(screen.Resumer); ok {
		return res.Resume()
	}
	return nil
}

// Update handles navigation and forwards everything else to the active
// screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if nav, ok := msg.(NavigateMsg); ok {
		return r.Navigate(nav)
	}
	updated, cmd := r.Active().Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}

// Push returns a command that pushes s.
func Push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Op: OpPush, Screen: s} }
}

// Replace returns a command that replaces the active screen with s.
func Replace(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Op: OpReplace, Screen: s} }
}

// Pop is a command that returns to the previous screen.
func Pop() tea.Msg { return NavigateMsg{Op: OpPop} }

// PopToRoot is a command that returns to the root screen.
func PopToRoot() tea.Msg { return NavigateMsg{Op: OpHome} }

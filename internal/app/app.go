// Package app is the root Bubble Tea model: it frames the active screen
// and routes global keys.
package app

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/home"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// Options holds the dependencies of the TUI.
type Options struct {
	Store *store.Store

	// Source generates practice questions; nil disables practice.
	Source questiongen.Source

	// LogPath receives log output while the TUI owns the terminal.
	// Empty discards it.
	LogPath string
}

// Model is the root model.
type Model struct {
	router        *router.Router
	width, height int
}

func newModel(root screen.Screen) Model {
	return Model{router: router.New(root)}
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !capturesEscape(m.router.Active()) {
				return m, router.Pop
			}
		}
	}
	return m, m.router.Update(msg)
}

func capturesEscape(s screen.Screen) bool {
	ec, ok := s.(screen.EscapeCapturer)
	return ok && ec.CapturesEscape()
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	switch {
	case m.width == 0 || m.height == 0:
	case layout.IsTooSmall(m.width, m.height):
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
	default:
		v.SetContent(m.render())
	}
	return v
}

func (m Model) render() string {
	active := m.router.Active()
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(m.hints(active), m.width)
	room := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.router.View(m.width, room), footer, m.width, m.height)
}

var quitHint = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}

// hints returns the footer hints of active, falling back to navigation
// defaults.
func (m Model) hints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return append(hints, quitHint)
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quitHint}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		quitHint,
	}
}

// Run starts the program on the home screen and blocks until it exits.
func Run(opts Options) error {
	logger := log.New(io.Discard, "", 0)
	if opts.LogPath != "" {
		f, err := tea.LogToFile(opts.LogPath, "kotoba")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	deps := screen.Deps{Store: opts.Store, Source: opts.Source, Logger: logger}
	if _, err := tea.NewProgram(newModel(home.New(deps))).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}

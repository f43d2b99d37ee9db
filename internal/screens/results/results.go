// Package results shows a finished quiz: the score, every question with
// the learner's answer, and per-question save toggles.
package results

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// ResultsScreen implements screen.Screen for a completed quiz.
type ResultsScreen struct {
	deps          screen.Deps
	flow          *revision.Flow
	onlyIncorrect bool
	slots         []savestate.Slot
	cursor        int
	expanded      bool
	notice        string
}

var (
	_ screen.Screen          = (*ResultsScreen)(nil)
	_ screen.KeyHintProvider = (*ResultsScreen)(nil)
	_ screen.StatusProvider  = (*ResultsScreen)(nil)
)

// New creates the results screen for flow's session.
func New(deps screen.Deps, flow *revision.Flow) *ResultsScreen {
	s := &ResultsScreen{deps: deps, flow: flow}
	s.reload()
	return s
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) Status() string {
	sess := s.flow.Session()
	return fmt.Sprintf("score %d/%d", sess.Score(), sess.Total())
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	wrong := "Wrong only"
	if s.onlyIncorrect {
		wrong = "Show all"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Details"},
		{Key: "S", Description: "Save / unsave"},
		{Key: "W", Description: wrong},
		{Key: "X", Description: "Finish"},
		{Key: "Esc", Description: "Back"},
	}
}

// OnlyIncorrect reports whether correctly answered questions are hidden.
func (s *ResultsScreen) OnlyIncorrect() bool {
	return s.onlyIncorrect
}

// Slots returns the listed slots.
func (s *ResultsScreen) Slots() []savestate.Slot {
	return s.slots
}

func (s *ResultsScreen) reload() {
	s.slots = s.flow.Results(s.onlyIncorrect)
	if s.cursor >= len(s.slots) {
		s.cursor = max(len(s.slots)-1, 0)
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.SaveResultMsg:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ResultsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.slots)-1 {
			s.cursor++
		}
	case "enter":
		s.expanded = !s.expanded
	case "w", "W":
		s.onlyIncorrect = !s.onlyIncorrect
		s.cursor = 0
		s.reload()
	case "s", "S":
		return s, s.toggleSave()
	case "x", "X":
		if err := s.flow.Reset(context.Background()); err != nil {
			s.deps.Log().Printf("results: reset session: %v", err)
		}
		return s, router.PopToRoot
	}
	return s, nil
}

func (s *ResultsScreen) toggleSave() tea.Cmd {
	if len(s.slots) == 0 {
		return nil
	}
	saves := s.flow.Saves()
	t, err := saves.Toggle(s.slots[s.cursor].Sequence)
	switch {
	case errors.Is(err, savestate.ErrBusy):
		return nil
	case err != nil:
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	return screen.SaveCmd(saves, t)
}

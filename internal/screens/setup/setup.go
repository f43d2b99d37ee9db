// Package setup is the practice configuration screen: pick a level, a
// section, how many questions and, for grammar, a scope.
package setup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	quizscreen "github.com/abhisek/kotoba/internal/screens/quiz"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

type step int

const (
	stepLevel step = iota
	stepSection
	stepCount
	stepScope
)

var stepTitles = map[step]string{
	stepLevel:   "Choose a JLPT level",
	stepSection: "Choose a section",
	stepCount:   "How many questions?",
	stepScope:   "Focus on a grammar scope",
}

// flowOpenedMsg carries the practice flow ready to be seeded.
type flowOpenedMsg struct {
	Flow *revision.Flow
	Err  error
}

// SetupScreen implements screen.Screen for practice configuration.
type SetupScreen struct {
	deps   screen.Deps
	step   step
	menu   components.Menu
	req    questiongen.Request
	errMsg string
}

var (
	_ screen.Screen          = (*SetupScreen)(nil)
	_ screen.KeyHintProvider = (*SetupScreen)(nil)
)

// New creates the setup screen.
func New(deps screen.Deps) *SetupScreen {
	s := &SetupScreen{deps: deps}
	s.enter(stepLevel)
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "Practice"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.step > stepLevel {
		hints = append(hints, layout.KeyHint{Key: "Backspace", Description: "Previous"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

// Request returns the request built so far.
func (s *SetupScreen) Request() questiongen.Request {
	return s.req
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case flowOpenedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		title := fmt.Sprintf("%s %s", s.req.Topic.Level.Label(), s.req.Topic.Section.Label())
		return s, router.Replace(quizscreen.New(s.deps, msg.Flow, title, startPractice(s.req)))

	case tea.KeyMsg:
		if msg.String() == "backspace" && s.step > stepLevel {
			s.enter(s.step - 1)
			return s, nil
		}
	}

	// Actions may move to the next step, which replaces the menu.
	before := s.step
	menu, cmd := s.menu.Update(msg)
	if s.step == before {
		s.menu = menu
	}
	return s, cmd
}

// enter shows the menu of step st.
func (s *SetupScreen) enter(st step) {
	s.step = st
	s.errMsg = ""

	var items []components.MenuItem
	switch st {
	case stepLevel:
		for _, l := range quiz.Levels {
			items = append(items, components.MenuItem{
				Label:  l.Label(),
				Action: func() tea.Cmd { return s.chooseLevel(l) },
			})
		}
	case stepSection:
		for _, sec := range quiz.Sections {
			items = append(items, components.MenuItem{
				Label:  sec.Label(),
				Hint:   string(sec),
				Action: func() tea.Cmd { return s.chooseSection(sec) },
			})
		}
	case stepCount:
		for _, n := range questiongen.QuestionCounts {
			items = append(items, components.MenuItem{
				Label:  strconv.Itoa(n) + "問",
				Action: func() tea.Cmd { return s.chooseCount(n) },
			})
		}
	case stepScope:
		for _, scope := range questiongen.GrammarScopes {
			items = append(items, components.MenuItem{
				Label:  scope,
				Action: func() tea.Cmd { return s.chooseScope(scope) },
			})
		}
	}
	s.menu = components.NewMenu(items)
}

func (s *SetupScreen) chooseLevel(l quiz.Level) tea.Cmd {
	s.req.Topic.Level = l
	s.enter(stepSection)
	return nil
}

func (s *SetupScreen) chooseSection(sec quiz.Section) tea.Cmd {
	s.req.Topic.Section = sec
	s.enter(stepCount)
	return nil
}

func (s *SetupScreen) chooseCount(n int) tea.Cmd {
	s.req.Count = n
	if s.req.Topic.Section == quiz.SectionGrammar {
		s.enter(stepScope)
		return nil
	}
	s.req.Scope = ""
	return s.open()
}

func (s *SetupScreen) chooseScope(scope string) tea.Cmd {
	s.req.Scope = scope
	return s.open()
}

// open loads the practice session off the event loop.
func (s *SetupScreen) open() tea.Cmd {
	if s.deps.Source == nil {
		s.errMsg = "No question source configured. Set KOTOBA_GEMINI_API_KEY (or another provider key) and restart."
		return nil
	}
	deps := s.deps
	return func() tea.Msg {
		flow, err := revision.Open(context.Background(), deps.Store, session.KeyPractice, deps.Source, deps.Logger)
		return flowOpenedMsg{Flow: flow, Err: err}
	}
}

func startPractice(req questiongen.Request) quizscreen.StartFunc {
	return func(ctx context.Context, flow *revision.Flow) (int, error) {
		return flow.StartPractice(ctx, req.Topic, req.Count, req.Scope)
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render(stepTitles[s.step]))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.summary()))
	b.WriteString("\n\n")

	menu := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(
		lipgloss.NewStyle().Align(lipgloss.Left).Render(s.menu.View()))
	b.WriteString(menu)

	if s.errMsg != "" {
		b.WriteString("\n" + theme.Incorrect.Width(width).Align(lipgloss.Center).Render(s.errMsg))
	}
	return b.String()
}

func (s *SetupScreen) summary() string {
	var parts []string
	if s.req.Topic.Level != "" && s.step > stepLevel {
		parts = append(parts, s.req.Topic.Level.Label())
	}
	if s.req.Topic.Section != "" && s.step > stepSection {
		parts = append(parts, s.req.Topic.Section.Label())
	}
	if s.req.Count > 0 && s.step > stepCount {
		parts = append(parts, fmt.Sprintf("%d問", s.req.Count))
	}
	return strings.Join(parts, " · ")
}

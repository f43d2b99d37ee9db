// Package bank is the revision bank browser: filter saved questions,
// delete them, and start a revision quiz on the selection.
package bank

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	kbank "github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	quizscreen "github.com/abhisek/kotoba/internal/screens/quiz"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// loadedMsg carries a bank query result.
type loadedMsg struct {
	Filter  kbank.Filter
	Records []quiz.StoredRecord
	Stats   []kbank.TopicStats
	Err     error
}

// deletedMsg reports a finished delete.
type deletedMsg struct {
	ID  int
	Err error
}

// flowOpenedMsg carries the revision flow ready to be seeded.
type flowOpenedMsg struct {
	Flow   *revision.Flow
	Filter kbank.Filter
	Err    error
}

// BankScreen implements screen.Screen for the revision bank.
type BankScreen struct {
	deps    screen.Deps
	engine  *kbank.Engine
	filter  kbank.Filter
	search  components.TextInput
	records []quiz.StoredRecord
	stats   []kbank.TopicStats
	cursor  int
	loading bool
	notice  string
}

var (
	_ screen.Screen          = (*BankScreen)(nil)
	_ screen.KeyHintProvider = (*BankScreen)(nil)
	_ screen.StatusProvider  = (*BankScreen)(nil)
	_ screen.EscapeCapturer  = (*BankScreen)(nil)
	_ screen.Resumer         = (*BankScreen)(nil)
)

// New creates the bank screen.
func New(deps screen.Deps) *BankScreen {
	return &BankScreen{
		deps:   deps,
		engine: kbank.NewEngine(deps.Store.Questions()),
		search: components.NewTextInput("search prompt, options or explanation", 40),
	}
}

func (s *BankScreen) Init() tea.Cmd {
	return s.load()
}

// Resume reloads after a revision quiz may have regraded records.
func (s *BankScreen) Resume() tea.Cmd {
	return s.load()
}

func (s *BankScreen) Title() string {
	return "Revision Bank"
}

func (s *BankScreen) Status() string {
	total := 0
	for _, st := range s.stats {
		total += st.Total
	}
	return fmt.Sprintf("%d saved", total)
}

func (s *BankScreen) CapturesEscape() bool {
	return s.search.Focused()
}

func (s *BankScreen) KeyHints() []layout.KeyHint {
	if s.search.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "L/S/C", Description: "Level/section/result"},
		{Key: "/", Description: "Search"},
		{Key: "R", Description: "Revise"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

// Filter returns the active filter.
func (s *BankScreen) Filter() kbank.Filter {
	return s.filter
}

// Records returns the listed records.
func (s *BankScreen) Records() []quiz.StoredRecord {
	return s.records
}

func (s *BankScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.Filter != s.filter {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.notice = msg.Err.Error()
			return s, nil
		}
		s.records, s.stats = msg.Records, msg.Stats
		s.cursor = min(s.cursor, max(len(s.records)-1, 0))
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.notice = fmt.Sprintf("delete #%d: %v", msg.ID, msg.Err)
		}
		return s, s.load()

	case flowOpenedMsg:
		if msg.Err != nil {
			s.notice = msg.Err.Error()
			return s, nil
		}
		return s, router.Push(quizscreen.New(s.deps, msg.Flow, "Revision", startRevision(msg.Filter)))

	case tea.KeyMsg:
		if s.search.Focused() {
			return s.handleSearchKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.search.Focused() {
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *BankScreen) handleSearchKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.search.Blur()
		s.filter.Text = s.search.Value()
		s.cursor = 0
		return s, s.load()
	case "esc":
		s.search.Blur()
		s.search.Model.SetValue(s.filter.Text)
		return s, nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	return s, cmd
}

func (s *BankScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.records)-1 {
			s.cursor++
		}
	case "l", "L":
		s.filter.Level = nextLevel(s.filter.Level)
		return s, s.reset()
	case "s", "S":
		s.filter.Section = nextSection(s.filter.Section)
		return s, s.reset()
	case "c", "C":
		s.filter.Correctness = (s.filter.Correctness + 1) % 3
		return s, s.reset()
	case "/":
		return s, s.search.Focus()
	case "d", "D":
		return s, s.deleteSelected()
	case "r", "R":
		return s, s.openRevision()
	}
	return s, nil
}

func (s *BankScreen) reset() tea.Cmd {
	s.cursor = 0
	return s.load()
}

func (s *BankScreen) load() tea.Cmd {
	s.loading = true
	s.notice = ""
	engine, f := s.engine, s.filter
	return func() tea.Msg {
		ctx := context.Background()
		recs, err := engine.Query(ctx, f)
		if err != nil {
			return loadedMsg{Filter: f, Err: err}
		}
		stats, err := engine.Stats(ctx)
		return loadedMsg{Filter: f, Records: recs, Stats: stats, Err: err}
	}
}

func (s *BankScreen) deleteSelected() tea.Cmd {
	if len(s.records) == 0 {
		return nil
	}
	id := s.records[s.cursor].ID
	st := s.deps.Store
	return func() tea.Msg {
		return deletedMsg{ID: id, Err: revision.DeleteRecord(context.Background(), st, id)}
	}
}

func (s *BankScreen) openRevision() tea.Cmd {
	if len(s.records) == 0 {
		s.notice = "Nothing to revise with this filter."
		return nil
	}
	deps, f := s.deps, s.filter
	return func() tea.Msg {
		flow, err := revision.Open(context.Background(), deps.Store, session.KeyRevision, deps.Source, deps.Logger)
		return flowOpenedMsg{Flow: flow, Filter: f, Err: err}
	}
}

func startRevision(f kbank.Filter) quizscreen.StartFunc {
	return func(ctx context.Context, flow *revision.Flow) (int, error) {
		return flow.StartRevision(ctx, f)
	}
}

func nextLevel(l quiz.Level) quiz.Level {
	if l == "" {
		return quiz.Levels[0]
	}
	for i, v := range quiz.Levels {
		if v == l && i+1 < len(quiz.Levels) {
			return quiz.Levels[i+1]
		}
	}
	return ""
}

func nextSection(sec quiz.Section) quiz.Section {
	if sec == "" {
		return quiz.Sections[0]
	}
	for i, v := range quiz.Sections {
		if v == sec && i+1 < len(quiz.Sections) {
			return quiz.Sections[i+1]
		}
	}
	return ""
}

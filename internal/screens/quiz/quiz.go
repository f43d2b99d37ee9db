// Package quiz is the screen that asks the questions of a session one at a
// time and shows feedback after each answer.
package quiz

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/results"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// StartFunc seeds the flow's session, returning the number of questions.
type StartFunc func(ctx context.Context, f *revision.Flow) (int, error)

// QuizScreen implements screen.Screen for an active quiz.
type QuizScreen struct {
	deps    screen.Deps
	flow    *revision.Flow
	title   string
	start   StartFunc
	loading bool
	spinner spinner.Model

	choice   components.MultiChoice
	feedback *revision.Feedback
	errMsg   string
	notice   string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
)

// New creates a quiz screen. With a nil start the flow's current session
// is resumed.
func New(deps screen.Deps, flow *revision.Flow, title string, start StartFunc) *QuizScreen {
	return &QuizScreen{
		deps:    deps,
		flow:    flow,
		title:   title,
		start:   start,
		loading: start != nil,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.start != nil {
		flow, start := s.flow, s.start
		return tea.Batch(s.spinner.Tick, func() tea.Msg {
			n, err := start(context.Background(), flow)
			return startedMsg{Count: n, Err: err}
		})
	}
	return s.next()
}

func (s *QuizScreen) Title() string {
	return s.title
}

func (s *QuizScreen) Status() string {
	sess := s.flow.Session()
	if sess.Total() == 0 {
		return ""
	}
	return fmt.Sprintf("score %d/%d", sess.Score(), sess.Total())
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading:
		return []layout.KeyHint{{Key: "Esc", Description: "Cancel"}}
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.feedback != nil:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "S", Description: "Save / unsave"},
			{Key: "Esc", Description: "Pause"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Choose"},
		{Key: "Esc", Description: "Pause"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = startError(msg.Err)
			return s, nil
		}
		return s, s.next()

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

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

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}
	if s.errMsg != "" {
		return s, router.Pop
	}

	if s.feedback != nil {
		switch msg.String() {
		case "s", "S":
			return s, s.toggleSave(s.feedback.Sequence)
		case "enter", "space", "n":
			if s.feedback.Done {
				return s, router.Replace(results.New(s.deps, s.flow))
			}
			s.feedback = nil
			return s, s.next()
		}
		return s, nil
	}

	var submitted bool
	s.choice, submitted = s.choice.Update(msg)
	if !submitted {
		return s, nil
	}

	fb, err := s.flow.Answer(context.Background(), s.choice.Chosen)
	if errors.Is(err, revision.ErrNoActiveQuestion) || errors.Is(err, revision.ErrUnknownOption) {
		s.errMsg = err.Error()
		return s, nil
	}
	if err != nil {
		s.deps.Log().Printf("quiz: answer not fully saved: %v", err)
		s.notice = "Progress could not be saved: " + err.Error()
	}
	s.feedback = &fb
	return s, nil
}

// next shows the current question, or the results once none remain.
func (s *QuizScreen) next() tea.Cmd {
	cur, ok := s.flow.Session().Current()
	if !ok {
		return router.Replace(results.New(s.deps, s.flow))
	}
	q := cur.QuestionData.Question
	s.choice = components.NewMultiChoice(q.Options, q.CorrectAnswer)
	s.notice = ""
	return nil
}

func (s *QuizScreen) toggleSave(sequence int) tea.Cmd {
	saves := s.flow.Saves()
	t, err := saves.Toggle(sequence)
	if errors.Is(err, savestate.ErrBusy) {
		return nil
	}
	if err != nil {
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	return screen.SaveCmd(saves, t)
}

func startError(err error) string {
	if errors.Is(err, revision.ErrNothingToRevise) {
		return "Nothing to revise: no saved questions match this filter."
	}
	return "Could not start the quiz: " + err.Error()
}

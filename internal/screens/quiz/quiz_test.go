package quiz

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/screen"
	"github.com/abhisek/kotoba/internal/screens/results"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/store"
)

type stubSource struct{}

func (stubSource) Fetch(_ context.Context, req questiongen.Request) ([]quiz.Question, error) {
	qs := make([]quiz.Question, req.Count)
	for i := range qs {
		qs[i] = quiz.Question{
			Prompt:        fmt.Sprintf("雨（　　）降っている。%d", i+1),
			Options:       []string{"は", "が", "を", "に"},
			CorrectAnswer: "が",
			Explanation:   "主語を示す。",
		}
	}
	return qs, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testQuiz(t *testing.T) (*QuizScreen, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	deps := screen.Deps{Store: st, Source: stubSource{}}
	flow, err := revision.Open(ctx, st, session.KeyPractice, deps.Source, nil)
	require.NoError(t, err)

	topic := quiz.Topic{Level: quiz.LevelN3, Section: quiz.SectionGrammar}
	s := New(deps, flow, "N3 文法", func(ctx context.Context, f *revision.Flow) (int, error) {
		return f.StartPractice(ctx, topic, 3, "")
	})
	require.True(t, s.loading)

	n, err := s.start(ctx, flow)
	require.NoError(t, err)
	s.Update(startedMsg{Count: n})
	require.False(t, s.loading)
	return s, st
}

func TestAnswerShowsFeedback(t *testing.T) {
	s, _ := testQuiz(t)

	s.Update(keyPress('2'))
	require.NotNil(t, s.feedback)
	assert.True(t, s.feedback.Correct)
	assert.Equal(t, 1, s.feedback.Sequence)
	assert.Contains(t, s.View(100, 30), "正解")
	assert.Equal(t, "score 1/3", s.Status())

	s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, s.feedback)

	s.Update(keyPress('1'))
	require.NotNil(t, s.feedback)
	assert.False(t, s.feedback.Correct)
	assert.Contains(t, s.View(100, 30), "不正解")
}

func TestSaveToggleRunsAsCommand(t *testing.T) {
	s, st := testQuiz(t)
	ctx := context.Background()

	s.Update(keyPress('1'))
	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)

	v, ok := s.flow.Saves().View(1)
	require.True(t, ok)
	assert.Equal(t, savestate.Saving, v.State)

	// A second toggle while pending is ignored.
	_, again := s.Update(keyPress('s'))
	assert.Nil(t, again)

	msg := cmd()
	require.IsType(t, screen.SaveResultMsg{}, msg)
	s.Update(msg)

	v, _ = s.flow.Saves().View(1)
	assert.Equal(t, savestate.Saved, v.State)
	require.NotNil(t, v.ID)

	stored, err := st.Questions().Get(ctx, *v.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.LastCorrectAt)
	assert.Equal(t, *v.ID, *s.flow.Session().Snapshot().QuestionStates[0].ID)
}

func TestLastAnswerReplacesWithResults(t *testing.T) {
	s, _ := testQuiz(t)

	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		s.Update(keyPress('2'))
		_, cmd = s.Update(specialKey(tea.KeyEnter))
	}
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, router.OpReplace, msg.Op)
	assert.IsType(t, &results.ResultsScreen{}, msg.Screen)
	assert.Equal(t, session.PhaseCompleted, s.flow.Session().Phase())
}

func TestStartErrorGoesBack(t *testing.T) {
	s, _ := testQuiz(t)
	s.Update(startedMsg{Err: revision.ErrNothingToRevise})

	assert.Contains(t, s.View(100, 30), "Nothing to revise")
	_, cmd := s.Update(keyPress('x'))
	require.NotNil(t, cmd)
	assert.Equal(t, router.NavigateMsg{Op: router.OpPop}, cmd())
}

func TestResumeCompletedSessionShowsResults(t *testing.T) {
	s, _ := testQuiz(t)
	for i := 0; i < 3; i++ {
		s.Update(keyPress('2'))
		s.Update(specialKey(tea.KeyEnter))
	}

	resumed := New(s.deps, s.flow, "Practice", nil)
	cmd := resumed.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, router.OpReplace, msg.Op)
}

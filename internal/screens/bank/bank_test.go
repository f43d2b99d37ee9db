package bank

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kbank "github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	quizscreen "github.com/abhisek/kotoba/internal/screens/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testBank(t *testing.T) (*BankScreen, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	correct := time.Now()
	for i, topic := range []quiz.Topic{
		{Level: quiz.LevelN3, Section: quiz.SectionGrammar},
		{Level: quiz.LevelN3, Section: quiz.SectionVocabulary},
		{Level: quiz.LevelN1, Section: quiz.SectionGrammar},
	} {
		rec := quiz.Record{Topic: topic, Question: quiz.Question{
			Prompt:        fmt.Sprintf("問題%d", i+1),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Explanation:   "x",
		}}
		if i == 0 {
			rec.LastCorrectAt = &correct
		}
		_, err := st.Questions().Add(ctx, rec)
		require.NoError(t, err)
	}

	s := New(screen.Deps{Store: st})
	run(t, s, s.Init())
	return s, st
}

// run executes cmd and feeds its message back to s.
func run(t *testing.T, s *BankScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	_, next := s.Update(cmd())
	return next
}

func TestBankLoads(t *testing.T) {
	s, _ := testBank(t)
	assert.Len(t, s.Records(), 3)
	assert.Equal(t, "3 saved", s.Status())
	assert.Contains(t, s.View(100, 30), "問題3")
}

func TestBankFilterKeys(t *testing.T) {
	s, _ := testBank(t)

	_, cmd := s.Update(keyPress('c'))
	run(t, s, cmd)
	assert.Equal(t, kbank.OnlyCorrect, s.Filter().Correctness)
	assert.Len(t, s.Records(), 1)

	_, cmd = s.Update(keyPress('c'))
	run(t, s, cmd)
	assert.Equal(t, kbank.OnlyIncorrect, s.Filter().Correctness)
	assert.Len(t, s.Records(), 2)

	_, cmd = s.Update(keyPress('l'))
	run(t, s, cmd)
	assert.Equal(t, quiz.LevelN1, s.Filter().Level)
	require.Len(t, s.Records(), 1)
	assert.Equal(t, "問題3", s.Records()[0].Question.Prompt)
}

func TestBankSearch(t *testing.T) {
	s, _ := testBank(t)

	_, cmd := s.Update(keyPress('/'))
	assert.NotNil(t, cmd)
	assert.True(t, s.CapturesEscape())

	s.search.Model.SetValue("問題2")
	_, cmd = s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)
	assert.False(t, s.CapturesEscape())
	assert.Equal(t, "問題2", s.Filter().Text)
	require.Len(t, s.Records(), 1)

	s.Update(keyPress('/'))
	s.search.Model.SetValue("discarded")
	s.Update(specialKey(tea.KeyEscape))
	assert.False(t, s.CapturesEscape())
	assert.Equal(t, "問題2", s.search.Value())
}

func TestBankDelete(t *testing.T) {
	s, st := testBank(t)
	id := s.Records()[0].ID

	_, cmd := s.Update(keyPress('d'))
	run(t, s, run(t, s, cmd))

	assert.Len(t, s.Records(), 2)
	_, err := st.Questions().Get(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBankStartRevision(t *testing.T) {
	s, _ := testBank(t)

	_, cmd := s.Update(keyPress('r'))
	require.NotNil(t, cmd)
	_, push := s.Update(cmd())
	require.NotNil(t, push)

	msg, ok := push().(router.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, router.OpPush, msg.Op)
	assert.IsType(t, &quizscreen.QuizScreen{}, msg.Screen)
}

func TestBankRevisionWithEmptySelection(t *testing.T) {
	s, _ := testBank(t)
	s.records = nil

	_, cmd := s.Update(keyPress('r'))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(100, 30), "Nothing to revise")
}

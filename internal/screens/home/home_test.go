package home

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	quizscreen "github.com/abhisek/kotoba/internal/screens/quiz"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func load(t *testing.T, h *HomeScreen) {
	t.Helper()
	cmd := h.Init()
	require.NotNil(t, cmd)
	h.Update(cmd())
}

func TestHomeWithoutSourceDisablesPractice(t *testing.T) {
	h := New(screen.Deps{Store: openStore(t)})
	load(t, h)

	assert.True(t, h.menu.Items[itemPractice].Disabled)
	assert.True(t, h.menu.Items[itemResumePractice].Disabled)
	assert.True(t, h.menu.Items[itemResumeRevision].Disabled)
	assert.Equal(t, itemBank, h.menu.Selected)
	assert.Contains(t, h.View(100, 40), "Set an LLM API key")
}

func TestHomeOffersResume(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	sess, err := session.Open(ctx, st.Sessions(), session.KeyRevision)
	require.NoError(t, err)
	require.NoError(t, sess.StartNewQuiz(ctx, []quiz.Record{{
		Topic: quiz.Topic{Level: quiz.LevelN2, Section: quiz.SectionGrammar},
		Question: quiz.Question{
			Prompt:        "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: "a",
			Explanation:   "x",
		},
	}}))

	h := New(screen.Deps{Store: st})
	load(t, h)
	require.False(t, h.menu.Items[itemResumeRevision].Disabled)
	assert.Contains(t, h.View(120, 40), "RESUME REVISION 0/1")

	h.menu.Selected = itemResumeRevision
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, router.OpPush, msg.Op)
	assert.IsType(t, &quizscreen.QuizScreen{}, msg.Screen)
}

package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	kbank "github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/revision"
	"github.com/abhisek/kotoba/internal/router"
	"github.com/abhisek/kotoba/internal/screen"
	bankscreen "github.com/abhisek/kotoba/internal/screens/bank"
	quizscreen "github.com/abhisek/kotoba/internal/screens/quiz"
	"github.com/abhisek/kotoba/internal/screens/setup"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/ui/components"
)

const (
	itemPractice = iota
	itemResumePractice
	itemBank
	itemResumeRevision
	itemQuit
)

// status is what the home screen shows about stored progress.
type status struct {
	practice  *revision.Flow
	revision  *revision.Flow
	bankTotal int
	bankWrong int
	err       error
}

// statusMsg delivers a freshly loaded status.
type statusMsg status

// HomeScreen is the main menu.
type HomeScreen struct {
	deps   screen.Deps
	menu   components.Menu
	labels []string
	status status
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates the home screen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	h.labels = []string{"PRACTICE", "RESUME PRACTICE", "REVISION BANK", "RESUME REVISION", "QUIT"}

	items := []components.MenuItem{
		{Label: h.labels[itemPractice], Disabled: deps.Source == nil, Action: func() tea.Cmd {
			return router.Push(setup.New(h.deps))
		}},
		{Label: h.labels[itemResumePractice], Disabled: true, Action: func() tea.Cmd {
			return h.resume(h.status.practice, "Practice")
		}},
		{Label: h.labels[itemBank], Action: func() tea.Cmd {
			return router.Push(bankscreen.New(h.deps))
		}},
		{Label: h.labels[itemResumeRevision], Disabled: true, Action: func() tea.Cmd {
			return h.resume(h.status.revision, "Revision")
		}},
		{Label: h.labels[itemQuit], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Resume reloads progress when the home screen is shown again.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) load() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		var st status

		st.practice, st.err = revision.Open(ctx, deps.Store, session.KeyPractice, deps.Source, deps.Logger)
		if st.err != nil {
			return statusMsg(st)
		}
		st.revision, st.err = revision.Open(ctx, deps.Store, session.KeyRevision, deps.Source, deps.Logger)
		if st.err != nil {
			return statusMsg(st)
		}

		stats, err := kbank.NewEngine(deps.Store.Questions()).Stats(ctx)
		if err != nil {
			st.err = err
			return statusMsg(st)
		}
		for _, s := range stats {
			st.bankTotal += s.Total
			st.bankWrong += s.Incorrect()
		}
		return statusMsg(st)
	}
}

// resumable reports whether f holds a session worth returning to.
func resumable(f *revision.Flow) bool {
	return f != nil && f.Session().Phase() != session.PhaseIdle
}

func (h *HomeScreen) resume(f *revision.Flow, title string) tea.Cmd {
	if !resumable(f) {
		return nil
	}
	return router.Push(quizscreen.New(h.deps, f, title, nil))
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statusMsg); ok {
		h.status = status(msg)
		if h.status.err != nil {
			h.deps.Log().Printf("home: load status: %v", h.status.err)
		}
		h.menu.SetDisabled(itemResumePractice, !resumable(h.status.practice))
		h.menu.SetDisabled(itemResumeRevision, !resumable(h.status.revision))
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 22 || width < 100
	cw := contentWidth(width)

	labels := make([]string, len(h.labels))
	copy(labels, h.labels)
	for i, f := range map[int]*revision.Flow{itemResumePractice: h.status.practice, itemResumeRevision: h.status.revision} {
		if resumable(f) {
			s := f.Session()
			labels[i] = fmt.Sprintf("%s %d/%d", labels[i], s.Snapshot().CurrentIndex, s.Total())
		}
	}
	disabled := make(map[int]bool, len(h.menu.Items))
	for i, item := range h.menu.Items {
		disabled[i] = item.Disabled
	}

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(h.status, cw),
	}
	if h.deps.Source == nil {
		sections = append(sections, renderSourceBanner(cw))
	}
	sections = append(sections, renderMenu(labels, h.menu.Selected, disabled, cw, compact))

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

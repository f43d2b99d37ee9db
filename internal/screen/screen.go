package screen

import (
	"context"
	"io"
	"log"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/store"
	"github.com/abhisek/kotoba/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status in the
// header, e.g. the running score.
type StatusProvider interface {
	Status() string
}

// EscapeCapturer is implemented by screens that use Esc themselves while
// CapturesEscape reports true, e.g. to close a search box.
type EscapeCapturer interface {
	CapturesEscape() bool
}

// Resumer is implemented by screens that refresh when they become active
// again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Deps are the services shared by screens.
type Deps struct {
	Store *store.Store

	// Source generates practice questions. Nil when no LLM or question
	// service is configured; practice is then unavailable.
	Source questiongen.Source

	Logger *log.Logger
}

// Log returns the logger, discarding output when none is set.
func (d Deps) Log() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return d.Logger
}

// SaveResultMsg reports a save or unsave that has already been written
// and reconciled. Err is the failure to show, if any.
type SaveResultMsg struct {
	Result savestate.Result
	Err    error
}

// SaveCmd writes and reconciles a save task off the event loop. The
// controller is updated before the message is delivered, so the outcome
// survives the screen being closed in the meantime.
func SaveCmd(c *savestate.Controller, t savestate.Task) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		r := c.Execute(ctx, t)
		return SaveResultMsg{Result: r, Err: c.Apply(ctx, r)}
	}
}

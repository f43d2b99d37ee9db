package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are chosen with the
// arrows and Enter, or directly with the number keys.
type MultiChoice struct {
	Options   []string
	Correct   string
	Selected  int
	Submitted bool
	Chosen    string
}

// NewMultiChoice creates a selector for options whose right answer is
// correct.
func NewMultiChoice(options []string, correct string) MultiChoice {
	return MultiChoice{Options: options, Correct: correct}
}

// Update handles navigation. It reports true once an option is submitted.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, bool) {
	if m.Submitted {
		return m, false
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m.submit(m.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				return m.submit(i)
			}
		}
	}
	return m, false
}

func (m MultiChoice) submit(i int) (MultiChoice, bool) {
	if i < 0 || i >= len(m.Options) {
		return m, false
	}
	m.Selected = i
	m.Submitted = true
	m.Chosen = m.Options[i]
	return m, true
}

// View renders the options. After submission the right answer is shown in
// green and a wrong choice in red.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Submitted && opt == m.Correct:
			style = theme.Correct
		case m.Submitted && opt == m.Chosen:
			style = theme.Incorrect
		case m.Submitted:
			style = theme.Dim
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}

// IsCorrect reports whether the submitted option is the right one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Chosen == m.Correct
}

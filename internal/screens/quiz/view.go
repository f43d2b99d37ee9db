package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return center(width, height, theme.Incorrect.Render(s.errMsg)+"\n\n"+
			theme.Hint.Render("Press any key to go back"))
	case s.loading:
		return center(width, height, s.spinner.View()+" Preparing questions...")
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) renderQuestion(width int) string {
	sess := s.flow.Session()
	snap := sess.Snapshot()

	seq := snap.CurrentIndex + 1
	if s.feedback != nil {
		seq = s.feedback.Sequence
	}
	if seq < 1 || seq > len(snap.QuestionStates) {
		return ""
	}
	state := snap.QuestionStates[seq-1]
	q := state.QuestionData.Question
	inner := max(width-4, 20)

	var b strings.Builder
	b.WriteString("  " + components.NewProgressBar(state.QuestionData.Topic.String(), snap.CurrentIndex, len(snap.QuestionStates), min(inner, 70)).View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		Padding(0, 2).
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("問%d  %s", seq, q.Prompt)))
	b.WriteString("\n\n")
	b.WriteString(indent(s.choice.View(), "  "))

	if fb := s.feedback; fb != nil {
		b.WriteString("\n")
		if fb.Correct {
			b.WriteString("  " + theme.Correct.Render("正解！ Correct"))
		} else {
			b.WriteString("  " + theme.Incorrect.Render("不正解 Incorrect") +
				theme.Dim.Render("  answer: ") + theme.Correct.Render(fb.CorrectAnswer))
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(inner).
			Padding(0, 2).
			Foreground(theme.TextDim).
			Render(fb.Explanation))
		b.WriteString("\n\n  " + s.saveBadge(fb.Sequence))
	}

	if s.notice != "" {
		b.WriteString("\n\n  " + theme.Warning.Render(layout.Truncate(s.notice, inner-2)))
	}
	return b.String()
}

func (s *QuizScreen) saveBadge(sequence int) string {
	v, ok := s.flow.Saves().View(sequence)
	if !ok {
		return ""
	}
	return components.SaveBadge(v)
}

func center(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

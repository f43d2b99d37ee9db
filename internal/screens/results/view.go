package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/ui/components"
	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

func (s *ResultsScreen) View(width, height int) string {
	snap := s.flow.Session().Snapshot()
	sum := session.BuildSummary(snap)
	inner := max(width-4, 20)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render(fmt.Sprintf("%d / %d 正解", sum.Score, sum.Total)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(fmt.Sprintf(
		"%s  accuracy %d%%  saved %d", snap.Topic, int(sum.Accuracy*100), sum.Saved)))
	b.WriteString("\n\n")

	if len(s.slots) == 0 {
		msg := "No questions."
		if s.onlyIncorrect {
			msg = "No wrong answers. 全問正解！"
		}
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(msg))
		return b.String()
	}

	states := make(map[int]session.QuestionState, len(snap.QuestionStates))
	for _, q := range snap.QuestionStates {
		states[q.Sequence] = q
	}

	// Keep the cursor visible when the list is taller than the screen.
	listHeight := max(height-8, 3)
	if s.expanded {
		listHeight = max(listHeight-6, 1)
	}
	first := max(s.cursor-listHeight+1, 0)
	last := min(first+listHeight, len(s.slots))

	for i := first; i < last; i++ {
		slot := s.slots[i]
		q := states[slot.Sequence]

		mark := theme.Dim.Render("·")
		switch {
		case q.Answered() && q.Correct():
			mark = theme.Correct.Render("○")
		case q.Answered():
			mark = theme.Incorrect.Render("×")
		}

		badge := ""
		if v, ok := s.flow.Saves().View(slot.Sequence); ok {
			badge = components.SaveBadge(v)
		}

		prefix := "  "
		style := theme.Unselected
		if i == s.cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		room := inner - 14 - lipgloss.Width(badge)
		line := fmt.Sprintf("%s%2d %s %s", prefix, slot.Sequence, mark,
			style.Render(layout.Truncate(slot.Record.Question.Prompt, room)))
		b.WriteString(line + "  " + badge + "\n")
	}

	if s.expanded {
		slot := s.slots[s.cursor]
		q := states[slot.Sequence]
		qq := slot.Record.Question
		detail := fmt.Sprintf("%s\n\nyour answer: %s   correct: %s\n\n%s",
			qq.Prompt, answerOrDash(q.Answer), qq.CorrectAnswer, qq.Explanation)
		b.WriteString("\n")
		b.WriteString(theme.Card.Width(inner).Render(detail))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n  " + theme.Warning.Render(layout.Truncate(s.notice, inner-2)))
	}
	return b.String()
}

func answerOrDash(a string) string {
	if a == "" {
		return "-"
	}
	return a
}

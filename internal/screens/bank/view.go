package bank

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/ui/layout"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

func (s *BankScreen) View(width, height int) string {
	inner := max(width-4, 20)

	var b strings.Builder
	b.WriteString("\n  " + theme.Selected.Render("Filter: ") + theme.Body.Render(s.filter.String()))
	b.WriteString("\n  " + theme.Dim.Render("Search: ") + s.search.View())
	b.WriteString("\n  " + s.renderStats(inner))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	switch {
	case len(s.records) == 0 && s.loading:
		b.WriteString(theme.Hint.Render("  Loading..."))
	case len(s.records) == 0:
		b.WriteString(theme.Hint.Render("  No saved questions match. Save questions from a quiz's results."))
	default:
		b.WriteString(s.renderList(inner, max(height-10, 3)))
	}

	if s.notice != "" {
		b.WriteString("\n\n  " + theme.Warning.Render(layout.Truncate(s.notice, inner-2)))
	}
	return b.String()
}

func (s *BankScreen) renderStats(width int) string {
	if len(s.stats) == 0 {
		return theme.Dim.Render("bank is empty")
	}
	parts := make([]string, 0, len(s.stats))
	for _, st := range s.stats {
		parts = append(parts, fmt.Sprintf("%s %d (%d wrong)", st.Topic, st.Total, st.Incorrect()))
	}
	return theme.Dim.Render(layout.Truncate(strings.Join(parts, "  ·  "), width-2))
}

func (s *BankScreen) renderList(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Dim.Render(fmt.Sprintf("  %d questions", len(s.records))) + "\n")

	first := max(s.cursor-height+1, 0)
	last := min(first+height, len(s.records))
	for i := first; i < last; i++ {
		r := s.records[i]
		mark := theme.Incorrect.Render("×")
		if r.AnsweredCorrectly() {
			mark = theme.Correct.Render("○")
		}
		prefix := "  "
		style := theme.Unselected
		if i == s.cursor {
			prefix = "▸ "
			style = theme.Selected
		}
		meta := theme.Dim.Render(fmt.Sprintf("%s %s", r.Topic, r.CreatedAt.Local().Format("01-02")))
		room := width - lipgloss.Width(meta) - 10
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", prefix, mark, style.Render(layout.Truncate(r.Question.Prompt, room)), meta))
	}
	return b.String()
}

package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/kotoba/internal/ui/theme"
)

const titleFull = `╻┏  ┏━┓ ╺┳╸ ┏━┓ ┏┓  ┏━┓
┣┻┓ ┃ ┃  ┃  ┃ ┃ ┣┻┓ ┣━┫
╹ ╹ ┗━┛  ╹  ┗━┛ ┗━┛ ╹ ╹`

const titleCompact = "K O T O B A"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	title := titleFull
	if compact {
		title = titleCompact
	}
	block := style.Render(title) + "\n" + theme.Dim.Render("言葉 · JLPT 文法と語彙")
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(block)
}

// renderStatsBar shows the bank totals in a box matching content width.
func renderStatsBar(st status, cw int) string {
	saved := theme.Saved.Render(fmt.Sprintf("★ %d SAVED", st.bankTotal))
	wrong := theme.Incorrect.Render(fmt.Sprintf("× %d TO REVIEW", st.bankWrong))
	if st.bankWrong == 0 {
		wrong = theme.Dim.Render("× NONE TO REVIEW")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(saved + "   " + wrong)
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

func renderMenu(labels []string, selected int, disabled map[int]bool, cw int, compact bool) string {
	base := lipgloss.NewStyle().Width(buttonWidth).Align(lipgloss.Center)
	if !compact {
		base = base.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)
	}
	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary)
	if !compact {
		selectedBtn = selectedBtn.BorderForeground(theme.Primary)
	}

	buttons := make([]string, 0, len(labels))
	for i, label := range labels {
		switch {
		case disabled[i]:
			buttons = append(buttons, base.Foreground(theme.TextDim).Render(label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		default:
			buttons = append(buttons, base.Foreground(theme.Text).Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderSourceBanner warns that practice needs a question source.
func renderSourceBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to practice (see kotoba --help)")
}

// renderFrame wraps content in a double-border frame, centered in the
// given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

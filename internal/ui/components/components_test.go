package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMultiChoiceNumberKeySubmits(t *testing.T) {
	mc := NewMultiChoice([]string{"は", "が", "を", "に"}, "が")

	mc, done := mc.Update(key("2"))
	assert.True(t, done)
	assert.Equal(t, "が", mc.Chosen)
	assert.True(t, mc.IsCorrect())

	// Further keys are ignored once submitted.
	mc, done = mc.Update(key("1"))
	assert.False(t, done)
	assert.Equal(t, "が", mc.Chosen)
}

func TestMultiChoiceArrowsAndEnter(t *testing.T) {
	mc := NewMultiChoice([]string{"a", "b", "c", "d"}, "a")

	mc, _ = mc.Update(key("down"))
	mc, _ = mc.Update(key("down"))
	mc, _ = mc.Update(key("up"))
	mc, done := mc.Update(key("enter"))
	assert.True(t, done)
	assert.Equal(t, "b", mc.Chosen)
	assert.False(t, mc.IsCorrect())

	mc2 := NewMultiChoice([]string{"a", "b"}, "a")
	_, done = mc2.Update(key("9"))
	assert.False(t, done)
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two"},
		{Label: "three", Disabled: true},
		{Label: "four"},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)

	m.SetDisabled(3, true)
	assert.Equal(t, 1, m.Selected)
}

func TestProgressFraction(t *testing.T) {
	assert.Equal(t, 0.5, NewProgressBar("", 5, 10, 40).Fraction())
	assert.Equal(t, 0.0, NewProgressBar("", 1, 0, 40).Fraction())
	assert.Equal(t, 1.0, NewProgressBar("", 12, 10, 40).Fraction())
	assert.Contains(t, NewProgressBar("Q", 3, 10, 40).View(), "3/10")
}

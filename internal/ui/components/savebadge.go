package components

import (
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/ui/theme"
)

// SaveBadge renders the bank indicator of a quiz slot.
func SaveBadge(v savestate.View) string {
	switch v.State {
	case savestate.Saved:
		return theme.Saved.Render("★ saved")
	case savestate.Saving:
		return theme.Dim.Render("☆ saving...")
	case savestate.Unsaving:
		return theme.Dim.Render("★ removing...")
	}
	if v.Outcome == savestate.RolledBack {
		return theme.Incorrect.Render("☆ save failed")
	}
	return theme.Dim.Render("☆")
}

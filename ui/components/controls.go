package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/ui/styles"
)

// RenderControls draws the pause/resume and stop buttons. Hidden controls
// render as an empty line so the layout does not jump.
func RenderControls(c core.Controls, pauseKey, stopKey string) string {
	if !c.Visible() {
		return ""
	}
	pause := styles.ControlStyle().Render(c.PauseIcon + " " + c.PauseTitle + " (" + pauseKey + ")")
	if c.Mode == core.ControlsWaiting {
		return pause
	}
	stop := styles.ControlStyle().Render("■ " + c.StopLabel + " (" + stopKey + ")")
	return lipgloss.JoinHorizontal(lipgloss.Top, pause, " ", stop)
}

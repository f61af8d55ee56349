package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Rorical/diabeguide/ui/styles"
)

func RenderStatus(status string, hints string, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if hints != "" {
		gap := width - 2 - ansi.StringWidth(status) - ansi.StringWidth(hints)
		if gap >= 2 {
			statusContent += strings.Repeat(" ", gap) + hints
		}
	}

	return statusStyle.Render(ansi.Truncate(statusContent, max(width-2, 0), "…"))
}

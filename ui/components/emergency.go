package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/internal/emergency"
	"github.com/Rorical/diabeguide/ui/styles"
)

func RenderEmergency(symptoms []emergency.Symptom, cursor int) string {
	buttons := make([]string, 0, len(symptoms))
	for i, s := range symptoms {
		buttons = append(buttons, styles.EmergencyButtonStyle(i == cursor).Render(s.Title()))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle().Render("Feeling unwell?"),
		"Pick what you are experiencing to ask the assistant right away.",
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...),
		"",
		styles.HintStyle().Render("←/→ to choose, enter to ask"),
	)
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/ui/styles"
)

func RenderAlert(text string, width int) string {
	body := styles.ErrorStyle().Render("!") + " " + text + "\n\n" + styles.HintStyle().Render("enter to dismiss")
	return styles.DialogStyle(width).Render(body)
}

func RenderConfirm(question string, width int) string {
	body := question + "\n\n" + styles.HintStyle().Render("y to confirm, n to cancel")
	return styles.DialogStyle(width).Render(body)
}

// RenderQuickCommands lists the canned questions with their number keys.
func RenderQuickCommands(commands []string, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle().Render("Quick questions"))
	b.WriteString("\n")
	for i, c := range commands {
		fmt.Fprintf(&b, "%d  %s\n", i+1, c)
	}
	b.WriteString("\n" + styles.HintStyle().Render("number to ask, esc to close"))
	return styles.DialogStyle(width).Render(b.String())
}

// Center places an overlay in the middle of the screen.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

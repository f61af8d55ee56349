package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/ui/styles"
)

func RenderTabs(active models.View) string {
	tabs := make([]string, 0, len(models.Views()))
	for _, v := range models.Views() {
		tabs = append(tabs, styles.TabStyle(v == active).Render(v.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/ui/styles"
)

// RenderDashboard plots every reading in order with a summary line and the
// notes underneath.
func RenderDashboard(values []float64, labels []string, width, height int) string {
	title := styles.TitleStyle().Render("Sugar Level (mg/dL)")
	hints := styles.HintStyle().Render("d download, r refresh")
	if len(values) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, "No readings to chart yet.", "", hints)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(max(height, 3)),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
	}
	if len(values) > 1 {
		opts = append(opts, asciigraph.Width(max(width-10, 2)))
	}
	chart := asciigraph.Plot(values, opts...)

	s := tracker.Summarize(values)
	summary := fmt.Sprintf("%d readings  min %.0f  avg %.1f  max %.0f", s.Count, s.Min, s.Avg, s.Max)

	return lipgloss.JoinVertical(lipgloss.Left, title, chart, "", summary, renderLabels(labels, width), "", hints)
}

func renderLabels(labels []string, width int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%d:%s", i+1, l)
	}
	return styles.HintStyle().Width(max(width-2, 10)).Render(strings.Join(parts, "  "))
}

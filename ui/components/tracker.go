package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/ui/styles"
)

// Field is one labelled input of the tracker form.
type Field struct {
	Label   string
	View    string
	Focused bool
}

func RenderTrackerForm(fields []Field) string {
	rows := make([]string, 0, len(fields)+2)
	rows = append(rows, styles.TitleStyle().Render("Log a reading"))
	for _, f := range fields {
		rows = append(rows, styles.FieldStyle(f.Focused).Render(fmt.Sprintf("%-12s", f.Label))+" "+f.View)
	}
	rows = append(rows, "", styles.HintStyle().Render("↑/↓ field, enter to log, ctrl+r reload, ctrl+x clear all"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderTrackerLog lists the log month by month.
func RenderTrackerLog(groups []tracker.Group) string {
	if len(groups) == 0 {
		return styles.HintStyle().Render("No readings logged yet.")
	}
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(styles.TitleStyle().UnsetMarginBottom().Render(g.Label()) + "\n")
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "  Sugar: %s mg/dL - Note: %s\n", FormatSugar(e.SugarLevel), e.Note)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatSugar drops a trailing ".0".
func FormatSugar(v api.SugarLevel) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

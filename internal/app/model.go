package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/emergency"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/internal/update"
	"github.com/Rorical/diabeguide/ui/components"
)

func (m *AppModel) Init() tea.Cmd {
	m.state.Chat.ShowWelcome()
	if err := m.state.Bus.SendToCore(eventbus.LoadSessionEvent{}); err != nil {
		m.state.Chat.LoadSession(nil, err)
		m.state.SessionLoaded = true
	}
	return tea.Batch(
		m.dispatcher.ListenForCoreEvents(),
		m.state.Spinner.Tick,
		textinput.Blink,
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg == nil {
		return m, nil
	}

	// Handle core events and continue listening
	if _, ok := msg.(update.CoreEventMsg); ok {
		cmd := update.Handle(&m.state, msg)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	}

	return m, update.Handle(&m.state, msg)
}

func (m *AppModel) View() string {
	s := &m.state
	width, height := s.UI.Width, s.UI.Height
	if width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(components.RenderTabs(s.UI.View))
	b.WriteString("\n")

	bodyHeight := height - 2
	switch {
	case s.UI.Alert != "":
		b.WriteString(components.Center(components.RenderAlert(s.UI.Alert, width), width, bodyHeight))
	case s.UI.PendingConfirmation != nil:
		b.WriteString(components.Center(components.RenderConfirm(s.UI.PendingConfirmation.Question, width), width, bodyHeight))
	case s.UI.QuickOpen:
		b.WriteString(components.Center(components.RenderQuickCommands(core.QuickCommands, width), width, bodyHeight))
	default:
		b.WriteString(m.body(bodyHeight))
	}

	b.WriteString("\n")
	b.WriteString(components.RenderStatus(s.UI.Status, s.StatusHints(), width))
	return b.String()
}

func (m *AppModel) body(height int) string {
	s := &m.state
	switch s.UI.View {
	case models.TrackerView:
		fields := make([]components.Field, len(s.Tracker.Fields))
		labels := []string{"Sugar level", "Note", "Month"}
		for i, f := range s.Tracker.Fields {
			fields[i] = components.Field{Label: labels[i], View: f.View(), Focused: i == s.UI.TrackerFocus}
		}
		body := components.RenderTrackerForm(fields) + "\n\n" + components.RenderTrackerLog(tracker.Groups(s.Tracker.Data))
		return fit(body, height)
	case models.DashboardView:
		values, labels := tracker.Series(s.Tracker.Data)
		return fit(components.RenderDashboard(values, labels, s.UI.Width, max(height-10, 3)), height)
	case models.EmergencyView:
		return fit(components.RenderEmergency(emergency.Symptoms(), s.UI.EmergencyCursor), height)
	}

	controls, input := s.ChatChrome()
	parts := []string{s.Viewport.View()}
	if controls != "" {
		parts = append(parts, controls)
	}
	parts = append(parts, input)
	return strings.Join(parts, "\n")
}

// fit pads or cuts s to exactly height lines.
func fit(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:max(height, 0)]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

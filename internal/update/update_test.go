package update

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/emergency"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/models"
)

type plainRenderer struct{}

func (plainRenderer) Render(text string, _ models.Role) string { return text }
func (plainRenderer) PlainText(markdown string) string        { return markdown }

func newTestState(t *testing.T) (*State, *eventbus.EventBus) {
	t.Helper()
	eb := eventbus.NewEventBus()
	t.Cleanup(eb.Close)
	s := NewState(core.NewController(plainRenderer{}), eb, "out.json")
	Handle(&s, tea.WindowSizeMsg{Width: 100, Height: 40})
	return &s, eb
}

// drainUI returns every event queued for the core.
func drainUI(eb *eventbus.EventBus) []eventbus.UIEvent {
	var events []eventbus.UIEvent
	for {
		select {
		case ev := <-eb.UIToCore():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterSendsAndReplyTypes(t *testing.T) {
	s, eb := newTestState(t)
	s.Input.SetValue("Hello")

	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, s.Input.Value())

	events := drainUI(eb)
	require.Len(t, events, 1)
	send, ok := events[0].(eventbus.SendMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "Hello", send.Message)
	assert.Contains(t, s.Viewport.View(), "thinking")

	cmd := Handle(s, CoreEventMsg{Event: eventbus.ChatResultEvent{RequestID: send.RequestID, Reply: "Hi! How are you? I am fine."}})
	require.NotNil(t, cmd)
	assert.True(t, s.Chat.Typing())
	assert.Equal(t, core.ControlsTyping, s.Chat.Controls().Mode)
}

func TestBlankEnterKeepsInput(t *testing.T) {
	s, eb := newTestState(t)
	s.Input.SetValue("   ")
	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "   ", s.Input.Value())
	assert.Empty(t, drainUI(eb))
}

func TestEscCancelsRequest(t *testing.T) {
	s, eb := newTestState(t)
	s.Input.SetValue("Hello")
	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	send := drainUI(eb)[0].(eventbus.SendMessageEvent)

	Handle(s, tea.KeyMsg{Type: tea.KeyEsc})
	events := drainUI(eb)
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.CancelRequestEvent{RequestID: send.RequestID}, events[0])

	msgs := s.Chat.Messages()
	assert.Equal(t, core.CancelledMessage, msgs[len(msgs)-1].Text)
}

func TestEmergencyWaitsForSession(t *testing.T) {
	s, eb := newTestState(t)
	s.SwitchView(models.EmergencyView)

	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, models.ChatView, s.UI.View)
	assert.Equal(t, "Symptoms of high sugar level", s.PendingEmergency)
	assert.Empty(t, drainUI(eb))

	Handle(s, CoreEventMsg{Event: eventbus.SessionLoadedEvent{}})
	events := drainUI(eb)
	require.Len(t, events, 1)
	assert.Equal(t, "Symptoms of high sugar level", events[0].(eventbus.SendMessageEvent).Message)

	// Opening the same shortcut again does not resend.
	Handle(s, CoreEventMsg{Event: eventbus.ChatResultEvent{RequestID: events[0].(eventbus.SendMessageEvent).RequestID, Reply: "Drink water."}})
	s.OpenEmergency(emergency.URL(emergency.High))
	assert.Empty(t, drainUI(eb))
}

func TestClearAsksFirst(t *testing.T) {
	s, eb := newTestState(t)

	Handle(s, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, s.UI.PendingConfirmation)
	assert.Empty(t, drainUI(eb))

	Handle(s, keyRunes("n"))
	assert.Nil(t, s.UI.PendingConfirmation)
	assert.Empty(t, drainUI(eb))

	Handle(s, tea.KeyMsg{Type: tea.KeyCtrlL})
	Handle(s, keyRunes("y"))
	assert.Equal(t, []eventbus.UIEvent{eventbus.ClearSessionEvent{}}, drainUI(eb))

	Handle(s, CoreEventMsg{Event: eventbus.SessionClearedEvent{}})
	msgs := s.Chat.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, core.ClearedMessage, msgs[0].Text)
}

func TestHistoryFailureRaisesAlert(t *testing.T) {
	s, _ := newTestState(t)
	Handle(s, CoreEventMsg{Event: eventbus.HistoryLoadedEvent{Err: &api.ClientError{Type: api.ErrTypeStatus, Status: 500}}})
	assert.Equal(t, core.HistoryFailedAlert, s.UI.Alert)

	// The alert swallows other keys until dismissed.
	Handle(s, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.ChatView, s.UI.View)
	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, s.UI.Alert)
}

func TestQuickCommandSends(t *testing.T) {
	s, eb := newTestState(t)
	Handle(s, tea.KeyMsg{Type: tea.KeyCtrlK})
	require.True(t, s.UI.QuickOpen)

	Handle(s, keyRunes("2"))
	assert.False(t, s.UI.QuickOpen)
	events := drainUI(eb)
	require.Len(t, events, 1)
	assert.Equal(t, core.QuickCommands[1], events[0].(eventbus.SendMessageEvent).Message)
}

func TestTrackerForm(t *testing.T) {
	s, eb := newTestState(t)
	Handle(s, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, models.TrackerView, s.UI.View)
	assert.Equal(t, []eventbus.UIEvent{eventbus.LoadTrackerEvent{}}, drainUI(eb))

	s.Tracker.Fields[SugarField].SetValue("abc")
	s.Tracker.Fields[NoteField].SetValue("fasting")
	s.Tracker.Fields[MonthField].SetValue("2025-03")
	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, s.UI.Status, "Cannot log entry")
	assert.Empty(t, drainUI(eb))

	s.Tracker.Fields[SugarField].SetValue("120")
	Handle(s, tea.KeyMsg{Type: tea.KeyEnter})
	events := drainUI(eb)
	require.Len(t, events, 1)
	assert.Equal(t, eventbus.LogEntryEvent{Entry: api.NewEntry{SugarLevel: 120, Note: "fasting", Month: "03", Year: "2025"}}, events[0])

	data := api.TrackerData{"03-2025": {{SugarLevel: 120, Note: "fasting"}}}
	Handle(s, CoreEventMsg{Event: eventbus.EntryLoggedEvent{Data: data}})
	assert.Equal(t, data, s.Tracker.Data)
	assert.Empty(t, s.Tracker.Fields[SugarField].Value())
	assert.Equal(t, "2025-03", s.Tracker.Fields[MonthField].Value())
}

func TestTrackerFocusWraps(t *testing.T) {
	s, _ := newTestState(t)
	s.SwitchView(models.TrackerView)
	Handle(s, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, MonthField, s.UI.TrackerFocus)
	assert.True(t, s.Tracker.Fields[MonthField].Focused())
	Handle(s, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, SugarField, s.UI.TrackerFocus)
}

func TestScrollingUpStopsFollowing(t *testing.T) {
	s, _ := newTestState(t)
	entries := make([]models.HistoryEntry, 0, 60)
	for i := 0; i < 60; i++ {
		entries = append(entries, models.HistoryEntry{Role: "user", Message: "line"})
	}
	Handle(s, CoreEventMsg{Event: eventbus.SessionLoadedEvent{Entries: entries}})
	assert.True(t, s.Viewport.AtBottom())

	Handle(s, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.False(t, s.Chat.AutoScroll())
	assert.False(t, s.Viewport.AtBottom())

	Handle(s, tea.KeyMsg{Type: tea.KeyCtrlEnd})
	assert.True(t, s.Chat.AutoScroll())
	assert.True(t, s.Viewport.AtBottom())
}

func TestNextViewWraps(t *testing.T) {
	assert.Equal(t, models.EmergencyView, nextView(models.ChatView, -1))
	assert.Equal(t, models.ChatView, nextView(models.EmergencyView, 1))
}

package update

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/emergency"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/pkg/logger"
)

// Confirmation IDs.
const (
	confirmClearChat    = "clear-chat"
	confirmClearTracker = "clear-tracker"
)

// HandleKeyMsg routes a key press. Overlays take it before the active view.
func HandleKeyMsg(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	k := s.Keys
	if key.Matches(keyMsg, k.Quit) {
		return tea.Quit
	}

	if s.UI.Alert != "" {
		if key.Matches(keyMsg, k.Dismiss) {
			s.UI.Alert = ""
		}
		return nil
	}

	if s.UI.PendingConfirmation != nil {
		switch {
		case key.Matches(keyMsg, k.Confirm):
			id := s.UI.PendingConfirmation.ID
			s.UI.PendingConfirmation = nil
			return s.confirmed(id)
		case key.Matches(keyMsg, k.Deny):
			s.UI.PendingConfirmation = nil
		}
		return nil
	}

	if s.UI.QuickOpen {
		return handleQuickKey(s, keyMsg)
	}

	switch {
	case key.Matches(keyMsg, k.NextView):
		return s.SwitchView(nextView(s.UI.View, 1))
	case key.Matches(keyMsg, k.PrevView):
		return s.SwitchView(nextView(s.UI.View, -1))
	}

	switch s.UI.View {
	case models.TrackerView:
		return handleTrackerKey(s, keyMsg)
	case models.DashboardView:
		return handleDashboardKey(s, keyMsg)
	case models.EmergencyView:
		return handleEmergencyKey(s, keyMsg)
	}
	return handleChatKey(s, keyMsg)
}

func handleChatKey(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	k := s.Keys
	switch {
	case key.Matches(keyMsg, k.Send):
		effects := s.Chat.Send(s.Input.Value())
		if len(effects) == 0 {
			return nil
		}
		s.Input.Reset()
		s.UI.Status = "Waiting for reply"
		return s.perform(effects)
	case key.Matches(keyMsg, k.PauseResume):
		return s.perform(s.Chat.PauseResume())
	case key.Matches(keyMsg, k.Stop):
		return s.perform(s.Chat.Cancel())
	case key.Matches(keyMsg, k.History):
		s.UI.Status = "Loading chat history"
		s.sendToCore(eventbus.LoadHistoryEvent{})
		return nil
	case key.Matches(keyMsg, k.Clear):
		s.UI.PendingConfirmation = &models.ConfirmationRequest{ID: confirmClearChat, Question: core.ClearConfirmQuestion}
		return nil
	case key.Matches(keyMsg, k.Quick):
		s.UI.QuickOpen = true
		return nil
	case key.Matches(keyMsg, k.PageUp):
		s.Viewport.ViewUp()
		s.Chat.SetAutoScroll(s.Viewport.AtBottom())
		return nil
	case key.Matches(keyMsg, k.PageDown):
		s.Viewport.ViewDown()
		s.Chat.SetAutoScroll(s.Viewport.AtBottom())
		return nil
	case key.Matches(keyMsg, k.Top):
		s.Viewport.GotoTop()
		s.Chat.SetAutoScroll(s.Viewport.AtBottom())
		return nil
	case key.Matches(keyMsg, k.Bottom):
		s.Viewport.GotoBottom()
		s.Chat.SetAutoScroll(true)
		return nil
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(keyMsg)
	return cmd
}

func handleQuickKey(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	if keyMsg.Type == tea.KeyEsc {
		s.UI.QuickOpen = false
		return nil
	}
	n, err := strconv.Atoi(keyMsg.String())
	if err != nil {
		return nil
	}
	question, ok := core.QuickCommand(n - 1)
	if !ok {
		return nil
	}
	s.UI.QuickOpen = false
	s.UI.Status = "Waiting for reply"
	return s.perform(s.Chat.Send(question))
}

func handleTrackerKey(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	k := s.Keys
	switch {
	case key.Matches(keyMsg, k.FieldUp):
		return s.focusField(s.UI.TrackerFocus - 1)
	case key.Matches(keyMsg, k.FieldDown):
		return s.focusField(s.UI.TrackerFocus + 1)
	case key.Matches(keyMsg, k.LogEntry):
		return s.submitEntry()
	case key.Matches(keyMsg, k.Reload):
		s.loadTracker()
		return nil
	case key.Matches(keyMsg, k.ClearTracker):
		s.UI.PendingConfirmation = &models.ConfirmationRequest{
			ID:       confirmClearTracker,
			Question: "Delete every logged reading?",
		}
		return nil
	}
	return s.updateFocusedInput(keyMsg)
}

func handleDashboardKey(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(keyMsg, s.Keys.Download):
		s.UI.Status = "Downloading tracker data"
		s.sendToCore(eventbus.DownloadEvent{Path: s.DownloadPath})
	case key.Matches(keyMsg, s.Keys.Refresh):
		s.loadTracker()
	}
	return nil
}

func handleEmergencyKey(s *State, keyMsg tea.KeyMsg) tea.Cmd {
	symptoms := emergency.Symptoms()
	switch {
	case key.Matches(keyMsg, s.Keys.Left):
		s.UI.EmergencyCursor = (s.UI.EmergencyCursor + len(symptoms) - 1) % len(symptoms)
	case key.Matches(keyMsg, s.Keys.Right):
		s.UI.EmergencyCursor = (s.UI.EmergencyCursor + 1) % len(symptoms)
	case key.Matches(keyMsg, s.Keys.Ask):
		return s.OpenEmergency(emergency.URL(symptoms[s.UI.EmergencyCursor]))
	}
	return nil
}

// OpenEmergency navigates to a chat URL carrying a symptom question and
// submits it, unless the conversation already has it.
func (s *State) OpenEmergency(chatURL string) tea.Cmd {
	message, err := emergency.MessageFromURL(chatURL)
	if err != nil {
		s.UI.Status = err.Error()
		return nil
	}
	cmd := s.SwitchView(models.ChatView)
	if message == "" {
		return cmd
	}
	if !s.SessionLoaded {
		s.PendingEmergency = message
		return cmd
	}
	return tea.Batch(cmd, s.perform(s.Chat.SubmitEmergency(message)))
}

// SwitchView changes the active view and moves input focus with it.
func (s *State) SwitchView(view models.View) tea.Cmd {
	s.UI.View = view
	s.UI.QuickOpen = false

	s.Input.Blur()
	for i := range s.Tracker.Fields {
		s.Tracker.Fields[i].Blur()
	}

	switch view {
	case models.ChatView:
		return s.Input.Focus()
	case models.TrackerView:
		s.loadTracker()
		return s.Tracker.Fields[s.UI.TrackerFocus].Focus()
	case models.DashboardView:
		s.loadTracker()
	}
	return nil
}

func nextView(v models.View, step int) models.View {
	views := models.Views()
	n := len(views)
	return views[((int(v)+step)%n+n)%n]
}

func (s *State) focusField(i int) tea.Cmd {
	n := len(s.Tracker.Fields)
	i = (i%n + n) % n
	s.Tracker.Fields[s.UI.TrackerFocus].Blur()
	s.UI.TrackerFocus = i
	return s.Tracker.Fields[i].Focus()
}

func (s *State) submitEntry() tea.Cmd {
	form := tracker.Form{
		Sugar: s.Tracker.Fields[SugarField].Value(),
		Note:  s.Tracker.Fields[NoteField].Value(),
		Month: s.Tracker.Fields[MonthField].Value(),
	}
	entry, err := form.Entry()
	if err != nil {
		s.UI.Status = "Cannot log entry: " + err.Error()
		return nil
	}
	s.UI.Status = "Saving entry"
	s.sendToCore(eventbus.LogEntryEvent{Entry: entry})
	return nil
}

func (s *State) loadTracker() {
	s.sendToCore(eventbus.LoadTrackerEvent{})
}

func (s *State) confirmed(id string) tea.Cmd {
	switch id {
	case confirmClearChat:
		s.UI.Status = "Clearing chat"
		return s.perform(s.Chat.Clear())
	case confirmClearTracker:
		s.UI.Status = "Clearing tracker"
		s.sendToCore(eventbus.ClearTrackerEvent{})
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(s *State, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.ChatResultEvent:
		s.UI.Status = "Ready"
		return s.perform(s.Chat.Resolve(core.ChatResult{
			RequestID:    event.RequestID,
			Reply:        event.Reply,
			ErrorPayload: event.ErrorPayload,
			Err:          event.Err,
		}))

	case eventbus.SessionLoadedEvent:
		s.Chat.LoadSession(event.Entries, event.Err)
		s.SessionLoaded = true
		if msg := s.PendingEmergency; msg != "" {
			s.PendingEmergency = ""
			return s.perform(s.Chat.SubmitEmergency(msg))
		}

	case eventbus.HistoryLoadedEvent:
		s.UI.Status = "Ready"
		if alert := s.Chat.LoadArchive(event.Entries, event.Err); alert != "" {
			s.UI.Alert = alert
		}

	case eventbus.SessionClearedEvent:
		s.UI.Status = "Ready"
		if alert := s.Chat.Cleared(event.Err); alert != "" {
			s.UI.Alert = alert
		}

	case eventbus.TrackerLoadedEvent:
		if event.Err != nil {
			s.UI.Status = "Failed to load tracker: " + event.Err.Error()
			return nil
		}
		s.Tracker.Data = event.Data
		s.Tracker.Loaded = true

	case eventbus.EntryLoggedEvent:
		if event.Err != nil {
			s.UI.Status = "Failed to log entry: " + event.Err.Error()
			return nil
		}
		s.UI.Status = "Entry logged"
		s.Tracker.Fields[SugarField].Reset()
		s.Tracker.Fields[NoteField].Reset()
		if event.Data != nil {
			s.Tracker.Data = event.Data
			s.Tracker.Loaded = true
		} else {
			s.loadTracker()
		}

	case eventbus.TrackerClearedEvent:
		if event.Err != nil {
			s.UI.Status = "Failed to clear tracker: " + event.Err.Error()
			return nil
		}
		s.UI.Status = "Tracker cleared"
		s.Tracker.Data = api.TrackerData{}
		s.loadTracker()

	case eventbus.DownloadedEvent:
		if event.Err != nil {
			s.UI.Status = "Download failed: " + event.Err.Error()
			return nil
		}
		s.UI.Status = fmt.Sprintf("Saved tracker data to %s", event.Path)
	}

	return nil
}

// perform carries out controller effects.
func (s *State) perform(effects []core.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case core.IssueChat:
			err := s.sendToCore(eventbus.SendMessageEvent{RequestID: e.RequestID, Message: e.Message})
			if err != nil {
				// The request never left; settle it as a connection failure.
				failed := &api.ClientError{Type: api.ErrTypeConnection, Message: "request not sent", Cause: err}
				cmds = append(cmds, s.perform(s.Chat.Resolve(core.ChatResult{RequestID: e.RequestID, Err: failed})))
			}
		case core.CancelChat:
			s.sendToCore(eventbus.CancelRequestEvent{RequestID: e.RequestID})
		case core.ClearSession:
			s.sendToCore(eventbus.ClearSessionEvent{})
		case core.ScheduleTick:
			cmds = append(cmds, TypingTickCmd(e.Generation, e.Delay))
		}
	}
	return tea.Batch(cmds...)
}

func (s *State) sendToCore(event eventbus.UIEvent) error {
	if s.Bus == nil {
		return eventbus.ErrClosed
	}
	if err := s.Bus.SendToCore(event); err != nil {
		logger.Errorf("failed to send %T to core: %v", event, err)
		s.UI.Status = "Error sending request: " + err.Error()
		return err
	}
	return nil
}

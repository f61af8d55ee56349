package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/diabeguide/internal/api"
	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/eventbus"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/internal/tracker"
	"github.com/Rorical/diabeguide/ui/components"
)

// Tracker form fields, in focus order.
const (
	SugarField = iota
	NoteField
	MonthField
)

// TrackerState is the tracker and dashboard data plus the entry form.
type TrackerState struct {
	Data   api.TrackerData
	Loaded bool
	Fields []textinput.Model
}

// State is everything Update mutates.
type State struct {
	UI       models.AppModel
	Chat     *core.Controller
	Tracker  TrackerState
	Viewport viewport.Model
	Input    textinput.Model
	Spinner  spinner.Model
	Help     help.Model
	Keys     KeyMap
	Bus      *eventbus.EventBus

	DownloadPath string
	// PendingEmergency is submitted once the session has loaded.
	PendingEmergency string
	SessionLoaded    bool
}

// NewState builds the initial UI state around a chat controller.
func NewState(chat *core.Controller, eb *eventbus.EventBus, downloadPath string) State {
	input := textinput.New()
	input.Placeholder = "Ask about your diabetes management..."
	input.Prompt = "> "
	input.CharLimit = 2000
	input.Focus()

	sugar := textinput.New()
	sugar.Placeholder = "mg/dL"
	sugar.CharLimit = 8
	note := textinput.New()
	note.Placeholder = "e.g. before breakfast"
	note.CharLimit = 200
	month := textinput.New()
	month.Placeholder = "YYYY-MM"
	month.CharLimit = 7
	month.SetValue(tracker.CurrentMonth(time.Now()))

	return State{
		UI:           models.AppModel{View: models.ChatView, Status: "Ready"},
		Chat:         chat,
		Tracker:      TrackerState{Fields: []textinput.Model{sugar, note, month}},
		Viewport:     viewport.New(80, 20),
		Input:        input,
		Spinner:      spinner.New(spinner.WithSpinner(spinner.Ellipsis)),
		Help:         help.New(),
		Keys:         DefaultKeyMap(),
		Bus:          eb,
		DownloadPath: downloadPath,
	}
}

// Handle applies msg to s. Every path ends by re-syncing the chat viewport.
func Handle(s *State, msg tea.Msg) tea.Cmd {
	cmd := handle(s, msg)
	s.SyncViewport()
	return cmd
}

func handle(s *State, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(s, msg)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(s, msg)
		return nil
	case tea.MouseMsg:
		return HandleMouseMsg(s, msg)
	case TypingTickMsg:
		return s.perform(s.Chat.Tick(msg.Generation))
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.Spinner, cmd = s.Spinner.Update(msg)
		return cmd
	case CoreEventMsg:
		return HandleCoreEvent(s, msg)
	}
	return s.updateFocusedInput(msg)
}

// TypingTickMsg advances the typing animation of one generation.
type TypingTickMsg struct {
	Generation uint64
}

func TypingTickCmd(generation uint64, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return TypingTickMsg{Generation: generation} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TypingTickMsg{Generation: generation}
	})
}

func HandleWindowSizeMsg(s *State, sizeMsg tea.WindowSizeMsg) {
	s.UI.Width = sizeMsg.Width
	s.UI.Height = sizeMsg.Height
	s.Viewport.Width = sizeMsg.Width
	s.Input.Width = max(sizeMsg.Width-8, 10)
	s.Help.Width = sizeMsg.Width
}

// HandleMouseMsg scrolls the conversation with the wheel. Scrolling away
// from the bottom stops the view from following new output.
func HandleMouseMsg(s *State, msg tea.MouseMsg) tea.Cmd {
	if s.UI.View != models.ChatView {
		return nil
	}
	var cmd tea.Cmd
	s.Viewport, cmd = s.Viewport.Update(msg)
	s.Chat.SetAutoScroll(s.Viewport.AtBottom())
	return cmd
}

// ChatChrome is the chat view without the conversation: controls, input and
// status bar. SyncViewport gives the conversation whatever height is left.
func (s *State) ChatChrome() (controls, input string) {
	controls = components.RenderControls(s.Chat.Controls(), s.Keys.PauseResume.Help().Key, s.Keys.Stop.Help().Key)
	input = components.RenderInput(s.Input.View(), s.UI.Width)
	return controls, input
}

// SyncViewport redraws the conversation and follows the bottom when
// auto-scroll is on.
func (s *State) SyncViewport() {
	width := s.UI.Width
	if width == 0 {
		width = 80
	}
	controls, input := s.ChatChrome()

	// tabs and status take one line each
	chrome := 2 + lipgloss.Height(input)
	if controls != "" {
		chrome += lipgloss.Height(controls)
	}
	if s.UI.Height > 0 {
		s.Viewport.Height = max(s.UI.Height-chrome, 3)
	}

	s.Viewport.SetContent(components.RenderMessages(s.Chat.Blocks(), s.Spinner.View(), width))
	if s.Chat.AutoScroll() {
		s.Viewport.GotoBottom()
	}
}

// StatusHints is the key help shown in the status bar.
func (s *State) StatusHints() string {
	return s.Help.ShortHelpView(s.Keys.ShortHelp(s.UI.View))
}

func (s *State) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.UI.View {
	case models.ChatView:
		s.Input, cmd = s.Input.Update(msg)
	case models.TrackerView:
		i := s.UI.TrackerFocus
		s.Tracker.Fields[i], cmd = s.Tracker.Fields[i].Update(msg)
	}
	return cmd
}

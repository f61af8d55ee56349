package update

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/Rorical/diabeguide/internal/models"
)

type KeyMap struct {
	Quit        key.Binding
	NextView    key.Binding
	PrevView    key.Binding
	Send        key.Binding
	PauseResume key.Binding
	Stop        key.Binding
	History     key.Binding
	Clear       key.Binding
	Quick       key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding

	FieldUp      key.Binding
	FieldDown    key.Binding
	LogEntry     key.Binding
	Reload       key.Binding
	ClearTracker key.Binding

	Download key.Binding
	Refresh  key.Binding

	Left  key.Binding
	Right key.Binding
	Ask   key.Binding

	Confirm key.Binding
	Deny    key.Binding
	Dismiss key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextView:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Send:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		PauseResume: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "pause/resume")),
		Stop:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		History:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "history")),
		Clear:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		Quick:       key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "quick")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Top:         key.NewBinding(key.WithKeys("ctrl+home"), key.WithHelp("ctrl+home", "top")),
		Bottom:      key.NewBinding(key.WithKeys("ctrl+end"), key.WithHelp("ctrl+end", "bottom")),

		FieldUp:      key.NewBinding(key.WithKeys("up", "shift+up"), key.WithHelp("↑", "prev field")),
		FieldDown:    key.NewBinding(key.WithKeys("down", "shift+down"), key.WithHelp("↓", "next field")),
		LogEntry:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log")),
		Reload:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		ClearTracker: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear all")),

		Download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Left:  key.NewBinding(key.WithKeys("left", "up", "h", "k"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right", "down", "l", "j"), key.WithHelp("→", "right")),
		Ask:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Deny:    key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
		Dismiss: key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
	}
}

// ShortHelp lists the bindings worth showing for view.
func (k KeyMap) ShortHelp(view models.View) []key.Binding {
	switch view {
	case models.TrackerView:
		return []key.Binding{k.NextView, k.LogEntry, k.Reload, k.ClearTracker, k.Quit}
	case models.DashboardView:
		return []key.Binding{k.NextView, k.Download, k.Refresh, k.Quit}
	case models.EmergencyView:
		return []key.Binding{k.NextView, k.Ask, k.Quit}
	}
	return []key.Binding{k.NextView, k.Send, k.Quick, k.History, k.Clear, k.Quit}
}

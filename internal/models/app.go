package models

// View is one of the top level screens.
type View int

const (
	ChatView View = iota
	TrackerView
	DashboardView
	EmergencyView
)

var viewNames = []string{"Chat", "Tracker", "Dashboard", "Emergency"}

func (v View) String() string {
	if int(v) < len(viewNames) {
		return viewNames[v]
	}
	return "Unknown"
}

// Views lists the screens in tab order.
func Views() []View {
	return []View{ChatView, TrackerView, DashboardView, EmergencyView}
}

// ConfirmationRequest is a yes/no question shown over the current view.
type ConfirmationRequest struct {
	ID       string // What to do when approved
	Question string
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	View                View
	Status              string               // Status bar text
	Width               int                  // Terminal width
	Height              int                  // Terminal height
	Alert               string               // Blocking notice, dismissed with enter
	PendingConfirmation *ConfirmationRequest // Current confirmation request
	QuickOpen           bool                 // Quick command palette visible
	EmergencyCursor     int
	TrackerFocus        int
}

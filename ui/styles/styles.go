package styles

import "github.com/charmbracelet/lipgloss"

var (
	accent    = lipgloss.Color("62")
	userColor = lipgloss.Color("39")
	botColor  = lipgloss.Color("214")
	muted     = lipgloss.Color("241")
	danger    = lipgloss.Color("196")
)

func InputStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(max(width-4, 10))
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func UserStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(userColor).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(userColor).
		Padding(0, 1).
		MarginLeft(2).
		Width(max(width-6, 10))
}

func BotStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(botColor).
		MarginLeft(2)
}

// TypingStyle wraps partial replies, which are plain text.
func TypingStyle(width int) lipgloss.Style {
	return BotStyle().
		Foreground(botColor).
		Padding(0, 1).
		Width(max(width-6, 10))
}

func LoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(muted).
		Padding(0, 1).
		MarginLeft(3)
}

func TabStyle(active bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 2)
	if active {
		return s.Bold(true).Foreground(lipgloss.Color("231")).Background(accent)
	}
	return s.Foreground(muted)
}

func ControlStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(botColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(botColor).
		Padding(0, 1)
}

func HintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		MarginBottom(1)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(danger).Bold(true)
}

func DialogStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(botColor).
		Padding(1, 2).
		Width(min(max(width-8, 20), 70))
}

func EmergencyButtonStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 4).
		MarginRight(2)
	if selected {
		return s.BorderForeground(danger).Foreground(danger).Bold(true)
	}
	return s.BorderForeground(muted)
}

func FieldStyle(focused bool) lipgloss.Style {
	if focused {
		return lipgloss.NewStyle().Foreground(accent).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(muted)
}

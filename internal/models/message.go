package models

import "strings"

type Role string

const (
	User Role = "user"
	Bot  Role = "bot"
)

// ParseRole maps a wire role onto a known Role.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return User, true
	case "bot", "assistant":
		return Bot, true
	}
	return "", false
}

type Message struct {
	Role Role
	Text string
	// Rendered is false only for the bot message currently being typed.
	Rendered bool
}

// HistoryEntry is one turn as stored by the server.
type HistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// Valid reports whether the entry carries both a role and a message.
func (e HistoryEntry) Valid() bool {
	_, ok := ParseRole(e.Role)
	return ok && e.Message != ""
}

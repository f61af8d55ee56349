// Package emergency builds the one-tap symptom questions.
package emergency

import (
	"fmt"
	"net/url"
	"strings"
)

// Path is the chat view route the shortcuts navigate to.
const Path = "/chatbot"

type Symptom string

const (
	High Symptom = "high"
	Low  Symptom = "low"
)

// Symptoms lists the shortcuts in display order.
func Symptoms() []Symptom {
	return []Symptom{High, Low}
}

// ParseSymptom accepts "high" or "low" in any case.
func ParseSymptom(s string) (Symptom, error) {
	switch Symptom(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, nil
	case Low:
		return Low, nil
	}
	return "", fmt.Errorf("unknown symptom %q, want high or low", s)
}

// Message is the question asked for the symptom.
func (s Symptom) Message() string {
	return fmt.Sprintf("Symptoms of %s sugar level", s)
}

// Title is the button caption.
func (s Symptom) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:]) + " sugar"
}

// URL is the chat route carrying the symptom question.
func URL(s Symptom) string {
	q := url.Values{}
	q.Set("message", s.Message())
	return Path + "?" + q.Encode()
}

// MessageFromURL reads the message query parameter from a chat URL. A URL
// without one yields "".
func MessageFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid chat url: %w", err)
	}
	return u.Query().Get("message"), nil
}

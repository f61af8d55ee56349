package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Rorical/diabeguide/internal/models"
)

// ChatResponse is either a reply or an error payload.
type ChatResponse struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat posts one user message. The server answers failures with an error
// payload and a 4xx/5xx status; that payload is returned, not an error.
func (c *Client) Chat(ctx context.Context, message string) (*ChatResponse, error) {
	status, data, err := c.do(ctx, http.MethodPost, "/api/chat", chatRequest{Message: message})
	if err != nil {
		return nil, err
	}

	var resp ChatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Status: status, Message: "malformed chat response", Cause: err}
	}
	if resp.Reply == "" && resp.Error == "" {
		if !isOK(status) {
			return nil, &ClientError{Type: ErrTypeStatus, Status: status, Message: "chat request failed"}
		}
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Status: status, Message: "empty chat response"}
	}
	return &resp, nil
}

// CurrentSession returns the turns of the active server-side session.
func (c *Client) CurrentSession(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := c.getJSON(ctx, "/api/chat/current_session", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ClearSession drops the server-side session turns.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.expectSuccess(ctx, http.MethodDelete, "/api/chat/current_session", nil)
}

// History returns the full archived conversation.
func (c *Client) History(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := c.getJSON(ctx, "/api/chat/history", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

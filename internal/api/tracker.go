package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SugarLevel is a blood glucose reading in mg/dL. The server stores whatever
// the form sent, so both JSON numbers and numeric strings are accepted.
type SugarLevel float64

func (s *SugarLevel) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		raw = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid sugar level %q", raw)
	}
	*s = SugarLevel(v)
	return nil
}

type Entry struct {
	SugarLevel SugarLevel `json:"sugar_level"`
	Note       string     `json:"note"`
}

// TrackerData maps a "MM-YYYY" key to the entries logged for that month.
type TrackerData map[string][]Entry

type NewEntry struct {
	SugarLevel float64 `json:"sugar_level"`
	Note       string  `json:"note"`
	Month      string  `json:"month"`
	Year       string  `json:"year"`
}

type logEntryResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    TrackerData `json:"data,omitempty"`
}

func (c *Client) Tracker(ctx context.Context) (TrackerData, error) {
	data := TrackerData{}
	if err := c.getJSON(ctx, "/api/tracker", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// LogEntry stores a reading and returns the updated data when the server
// includes it (nil otherwise).
func (c *Client) LogEntry(ctx context.Context, entry NewEntry) (TrackerData, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/api/tracker", entry)
	if err != nil {
		return nil, err
	}

	var resp logEntryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Status: status, Message: "malformed tracker response", Cause: err}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "failed to log entry"
		}
		return nil, &ClientError{Type: ErrTypeStatus, Status: status, Message: msg}
	}
	return resp.Data, nil
}

func (c *Client) ClearTracker(ctx context.Context) error {
	return c.expectSuccess(ctx, http.MethodPost, "/api/tracker/clear", nil)
}

// Download fetches the export blob; its shape is owned by the server.
func (c *Client) Download(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/api/download", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SaveDownload writes raw as two-space indented JSON.
func SaveDownload(path string, raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format download: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write download: %w", err)
	}
	return nil
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(ClientConfig{BaseURL: srv.URL + "/", SessionCookie: "cookie-value"})
	require.NoError(t, err)
	return client
}

func TestChatReply(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", r.Header.Get("X-Request-ID"))

		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "cookie-value", cookie.Value)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello", body["message"])

		w.Write([]byte(`{"reply": "Hi! How are you? I am fine."}`))
	}))

	resp, err := client.Chat(WithRequestID(context.Background(), "req-1"), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi! How are you? I am fine.", resp.Reply)
	assert.Empty(t, resp.Error)
}

func TestChatErrorPayloadWithServerError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Invalid API key."}`))
	}))

	resp, err := client.Chat(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Invalid API key.", resp.Error)
}

func TestChatMalformedBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login</html>`))
	}))

	_, err := client.Chat(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, ErrTypeInvalidResponse, ErrorTypeOf(err))
	assert.False(t, IsCancelled(err))
}

func TestChatEmptyBodyOnStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))

	_, err := client.Chat(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, ErrTypeStatus, ErrorTypeOf(err))
}

func TestChatCancelled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Chat(ctx, "Hello")
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
}

func TestChatConnectionFailure(t *testing.T) {
	client, err := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, ErrTypeConnection, ErrorTypeOf(err))
}

func TestCurrentSessionAndHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/current_session", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"role":"user","message":"Hi"},{"role":"bot","message":"Hello!"}]`))
		case http.MethodDelete:
			w.Write([]byte(`{"success": true}`))
		}
	})
	mux.HandleFunc("/api/chat/history", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestClient(t, mux)

	entries, err := client.CurrentSession(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bot", entries[1].Role)
	assert.Equal(t, "Hello!", entries[1].Message)

	require.NoError(t, client.ClearSession(context.Background()))

	_, err = client.History(context.Background())
	require.Error(t, err)
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
}

func TestTrackerRoundTrip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tracker", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var entry NewEntry
			require.NoError(t, json.NewDecoder(r.Body).Decode(&entry))
			assert.Equal(t, 140.0, entry.SugarLevel)
			assert.Equal(t, "03", entry.Month)
			assert.Equal(t, "2025", entry.Year)
			w.Write([]byte(`{"success": true, "data": {"03-2025": [{"sugar_level": 140, "note": "after lunch"}]}}`))
			return
		}
		w.Write([]byte(`{"03-2025": [{"sugar_level": "120", "note": "fasting"}, {"sugar_level": 95.5, "note": "walk"}]}`))
	})
	mux.HandleFunc("/api/tracker/clear", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"success": true}`))
	})
	client := newTestClient(t, mux)

	data, err := client.Tracker(context.Background())
	require.NoError(t, err)
	require.Len(t, data["03-2025"], 2)
	assert.Equal(t, SugarLevel(120), data["03-2025"][0].SugarLevel)
	assert.Equal(t, SugarLevel(95.5), data["03-2025"][1].SugarLevel)

	updated, err := client.LogEntry(context.Background(), NewEntry{SugarLevel: 140, Note: "after lunch", Month: "03", Year: "2025"})
	require.NoError(t, err)
	assert.Equal(t, "after lunch", updated["03-2025"][0].Note)

	require.NoError(t, client.ClearTracker(context.Background()))
}

func TestLogEntryMissingData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Missing data"}`))
	}))

	_, err := client.LogEntry(context.Background(), NewEntry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing data")
}

func TestSugarLevelRejectsGarbage(t *testing.T) {
	var s SugarLevel
	assert.Error(t, json.Unmarshal([]byte(`"high"`), &s))
}

func TestDownloadAndSave(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download", r.URL.Path)
		w.Write([]byte(`{"01-2025":[{"sugar_level":110,"note":"ok"}]}`))
	}))

	raw, err := client.Download(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "diabeguide_data.json")
	require.NoError(t, SaveDownload(path, raw))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"01-2025\": [")
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.Error(t, err)
}

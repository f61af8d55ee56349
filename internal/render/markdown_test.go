package render

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/diabeguide/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New("dark", 80)
	require.NoError(t, err)
	return r
}

func TestRenderUserIsVerbatim(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t, "**not bold** <b>", r.Render("**not bold** <b>", models.User))
	assert.Equal(t, "red", r.Render("\x1b[31mred\x1b[0m", models.User))
	assert.Equal(t, "a\nb", r.Render("a\x07\nb", models.User))
}

func TestRenderBotIsMarkdown(t *testing.T) {
	r := newTestRenderer(t)

	out := ansi.Strip(r.Render("Take **insulin** with food.", models.Bot))
	assert.Contains(t, out, "insulin")
	assert.NotContains(t, out, "**")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	text := "Hi! How are you? I am fine."
	assert.Equal(t, r.Render(text, models.Bot), r.Render(text, models.Bot))
}

func TestNilRendererFallsBack(t *testing.T) {
	var r *Renderer
	assert.Equal(t, "plain", r.Markdown("plain"))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"sentence", "Hi! How are you? I am fine.", "Hi! How are you? I am fine."},
		{"blocks", "# Title\n\nSome *text* here.\n\n- one\n- two", "Title\nSome text here.\none\ntwo"},
		{"soft break", "line one\nline two", "line one\nline two"},
		{"code", "Run:\n\n```\ncheck --now\n```", "Run:\ncheck --now"},
		{"inline code", "Use `A1C` tests.", "Use A1C tests."},
		{"link", "See [the guide](http://example.com).", "See the guide."},
		{"html dropped", "Hello <b>there</b>", "Hello there"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

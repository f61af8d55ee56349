package typing

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "greeting folds into next sentence",
			input: "Hi! How are you? I am fine.",
			want:  []string{"Hi! How are you? ", "I am fine."},
		},
		{
			name:  "short text without punctuation",
			input: "Hello there",
			want:  []string{"Hello there"},
		},
		{
			name:  "repeated punctuation stays with its sentence",
			input: "Check your levels now!!! Then eat something small.",
			want:  []string{"Check your levels now!!! ", "Then eat something small."},
		},
		{
			name:  "abbreviation splits like a sentence",
			input: "Ask Dr. Smith about it today.",
			want:  []string{"Ask Dr. ", "Smith about it today."},
		},
		{
			name:  "single trailing word stays alone",
			input: "Drink some water. Thanks!",
			want:  []string{"Drink some water. ", "Thanks!"},
		},
		{
			name:  "single word after a sentence is not folded back",
			input: "I am fine. Ok.",
			want:  []string{"I am fine. ", "Ok."},
		},
		{
			name:  "empty text",
			input: "",
			want:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.input))
		})
	}
}

func TestSegmentLongTextWithoutSentences(t *testing.T) {
	words := make([]string, 0, 50)
	for i := 0; len(strings.Join(words, " ")) < 250; i++ {
		words = append(words, []string{"glucose", "insulin", "meal", "walk", "sleep"}[i%5])
	}
	input := strings.Join(words, " ")
	require.Greater(t, len(input), FallbackThreshold)

	chunks := Segment(input)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, input, strings.Join(chunks, ""))

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(strings.TrimRight(c, " ")), WindowWidth)
	}
	for _, c := range chunks[:len(chunks)-1] {
		assert.True(t, strings.HasSuffix(c, " "), "window %q should end on whitespace", c)
	}
}

func TestSegmentOversizedWord(t *testing.T) {
	long := strings.Repeat("a", 120)
	chunks := Segment("see " + long + " done")
	assert.Equal(t, []string{"see ", long + " ", "done"}, chunks)
}

func TestSegmentNeverEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "...", "ok", "Yes. No. Maybe."} {
		assert.NotEmpty(t, Segment(input), "input %q", input)
	}
}

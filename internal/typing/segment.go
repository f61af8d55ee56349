// Package typing reveals an already complete bot reply chunk by chunk.
package typing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// FallbackThreshold is the length above which a text that does not split
	// into sentences is cut into fixed windows instead.
	FallbackThreshold = 100
	// WindowWidth is the maximum width of a fallback window, excluding the
	// whitespace that ends it.
	WindowWidth = 80
)

var (
	sentenceEnd     = regexp.MustCompile(`[.!?]+\s+`)
	punctuationOnly = regexp.MustCompile(`^[.!?]+\s*$`)
	wordToken       = regexp.MustCompile(`\s*\S+\s*`)
)

// Segment splits the plain text of a reply into the chunks revealed one per tick.
// The result always holds at least one chunk.
func Segment(plain string) []string {
	chunks := splitSentences(plain)
	chunks = mergeSingleWords(chunks)

	if len(chunks) < 2 && utf8.RuneCountInString(plain) > FallbackThreshold {
		chunks = splitWindows(plain, WindowWidth)
	}

	if len(chunks) == 0 {
		chunks = []string{plain}
	}
	return chunks
}

// splitSentences cuts after every run of sentence punctuation followed by
// whitespace. Abbreviations such as "Dr. " are split like any sentence end.
func splitSentences(plain string) []string {
	var pieces []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(plain, -1) {
		pieces = append(pieces, plain[last:loc[0]], plain[loc[0]:loc[1]])
		last = loc[1]
	}
	pieces = append(pieces, plain[last:])

	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if punctuationOnly.MatchString(p) && len(chunks) > 0 {
			chunks[len(chunks)-1] += p
			continue
		}
		chunks = append(chunks, p)
	}
	return chunks
}

// mergeSingleWords folds a one-word sentence ("Hi! ") into the next chunk.
func mergeSingleWords(chunks []string) []string {
	merged := make([]string, 0, len(chunks))
	carry := ""
	for i, c := range chunks {
		c = carry + c
		carry = ""
		if i < len(chunks)-1 && len(strings.Fields(c)) == 1 {
			carry = c
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

// splitWindows packs whole words into windows of at most width runes, each
// window keeping the whitespace that follows its last word. A word longer
// than width gets a window of its own. Concatenating the windows gives back
// the input.
func splitWindows(plain string, width int) []string {
	var (
		windows []string
		current strings.Builder
		size    int
	)

	for _, token := range wordToken.FindAllString(plain, -1) {
		word := strings.TrimRightFunc(token, isSpace)
		wordLen := utf8.RuneCountInString(word)

		if size > 0 && size+wordLen > width {
			windows = append(windows, current.String())
			current.Reset()
			size = 0
		}
		current.WriteString(token)
		size += utf8.RuneCountInString(token)
	}
	if current.Len() > 0 {
		windows = append(windows, current.String())
	}
	return windows
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// Package render turns chat messages into terminal output.
package render

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Rorical/diabeguide/internal/models"
)

// Renderer is the message renderer: plain text for the user, markdown for the bot.
type Renderer struct {
	mu   sync.Mutex
	term *glamour.TermRenderer
}

// New builds a renderer. style is auto, dark, light, notty or any glamour
// standard style name.
func New(style string, wordWrap int) (*Renderer, error) {
	opts := []glamour.TermRendererOption{}
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if wordWrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wordWrap))
	}

	term, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return &Renderer{term: term}, nil
}

// Render returns the display form of text for the given role.
func (r *Renderer) Render(text string, role models.Role) string {
	if role != models.Bot {
		return EscapeText(text)
	}
	return r.Markdown(text)
}

// Markdown renders text with glamour. Malformed input or a renderer failure
// degrades to the literal text.
func (r *Renderer) Markdown(text string) string {
	if r == nil || r.term == nil {
		return EscapeText(text)
	}

	r.mu.Lock()
	out, err := r.term.Render(text)
	r.mu.Unlock()
	if err != nil {
		return EscapeText(text)
	}
	return strings.Trim(out, "\n")
}

// PlainText is the method form of the package level PlainText.
func (r *Renderer) PlainText(markdown string) string {
	return PlainText(markdown)
}

// EscapeText removes terminal control sequences so that user input is shown
// verbatim and cannot restyle the screen.
func EscapeText(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// PlainText returns the text content of rendered markdown: text, code and
// link labels, with raw HTML dropped and blocks separated by newlines.
func PlainText(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch node := n.(type) {
			case *ast.Text:
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			case *ast.String:
				b.Write(node.Value)
			case *ast.AutoLink:
				b.Write(node.Label(src))
				return ast.WalkSkipChildren, nil
			case *ast.CodeBlock, *ast.FencedCodeBlock:
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				return ast.WalkSkipChildren, nil
			case *ast.RawHTML, *ast.HTMLBlock:
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}

		if n.Type() == ast.TypeBlock && n.NextSibling() != nil {
			newline()
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(b.String(), "\n")
}

package components

import (
	"strings"

	"github.com/Rorical/diabeguide/internal/core"
	"github.com/Rorical/diabeguide/internal/models"
	"github.com/Rorical/diabeguide/internal/typing"
	"github.com/Rorical/diabeguide/ui/styles"
)

// RenderMessages lays out the conversation for the chat viewport.
func RenderMessages(blocks []core.Block, spinner string, width int) string {
	var b strings.Builder

	userStyle := styles.UserStyle(width)
	botStyle := styles.BotStyle()
	typingStyle := styles.TypingStyle(width)
	loadingStyle := styles.LoadingStyle()

	for _, block := range blocks {
		switch block.Kind {
		case core.LoadingBlock:
			b.WriteString(loadingStyle.Render(spinner+" thinking") + "\n\n")
		case core.TypingBlock:
			b.WriteString(typingStyle.Render(block.Content+typing.Cursor) + "\n\n")
		default:
			if block.Role == models.User {
				b.WriteString(userStyle.Render(block.Content) + "\n\n")
			} else {
				b.WriteString(botStyle.Render(block.Content) + "\n\n")
			}
		}
	}

	return b.String()
}

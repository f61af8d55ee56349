package components

import (
	"github.com/Rorical/diabeguide/ui/styles"
)

// RenderInput frames the text input view.
func RenderInput(input string, width int) string {
	inputStyle := styles.InputStyle(width)
	return inputStyle.Render(input)
}

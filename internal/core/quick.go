package core

// QuickCommands are canned questions offered by the command palette.
var QuickCommands = []string{
	"What should my blood sugar be before meals?",
	"What are the symptoms of low blood sugar?",
	"Suggest a diabetes-friendly breakfast.",
	"How does exercise affect my blood sugar?",
	"How often should I check my blood sugar?",
	"What should I do if I miss an insulin dose?",
}

// QuickCommand returns the i-th canned question.
func QuickCommand(i int) (string, bool) {
	if i < 0 || i >= len(QuickCommands) {
		return "", false
	}
	return QuickCommands[i], true
}

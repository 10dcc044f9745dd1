package dbt

import "regexp"

// Jinja removal patterns. Both are non-greedy and span newlines.
var (
	jinjaBlockPattern = regexp.MustCompile(`(?s)\{%.*?%\}`)
	jinjaExprPattern  = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
)

// StripJinja removes Jinja syntax from YAML-like text so a plain YAML
// parser can load it. Blocks ({% ... %}) are deleted outright; expressions
// ({{ ... }}) become empty quoted strings so values stay syntactically
// valid. This erases markup without evaluating it, so a conditional that
// produced alternative branches of plain text leaves all branches behind.
func StripJinja(text string) string {
	text = jinjaBlockPattern.ReplaceAllString(text, "")
	return jinjaExprPattern.ReplaceAllString(text, `""`)
}

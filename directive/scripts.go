package directive

import (
	"regexp"
	"strings"
)

// scriptPattern matches complete script blocks, attributes are ignored.
// Unterminated tags do not match and stay in the CSS.
var scriptPattern = regexp.MustCompile(`(?is)<script\b[^>]*>(.*?)</script\s*>`)

// Split holds custom CSS with script blocks separated out.
type Split struct {
	CSS    string
	Script string
}

// SplitScripts removes all script blocks from text. Bodies are joined by new
// line in source order.
func SplitScripts(text string) Split {
	var bodies []string
	for _, m := range scriptPattern.FindAllStringSubmatch(text, -1) {
		bodies = append(bodies, m[1])
	}
	return Split{
		CSS:    strings.TrimSpace(scriptPattern.ReplaceAllString(text, "")),
		Script: strings.TrimSpace(strings.Join(bodies, "\n")),
	}
}

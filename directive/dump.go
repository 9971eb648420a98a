package directive

import (
	"themekit/utils/debug"
)

// Dump renders commands in human readable form for debug reports and dry
// runs.
func Dump(cmds []Command, prefix string) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "commands: %d", len(cmds))
	for i := range cmds {
		c := &cmds[i]
		tw.Line(1, "#%d %s %q", i, c.Kind, c.Selector)
		tw.TextBlock(2, "class", c.Class(prefix))
		tw.TextBlock(2, "content", c.Content)
		if c.Size != nil {
			tw.Line(2, "size: %s", c.Size)
		}
		tw.Properties(2, "position", c.Position)
	}
	return tw.String()
}

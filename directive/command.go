// Package directive extracts embedded scripts and "@add:" decoration
// directives from user supplied custom CSS.
//
// Processing is pure text transformation: nothing here touches a document.
// Parsed commands are realized later by package dom.
package directive

import (
	"maps"
	"slices"
)

// DefaultClassPrefix is prepended to a directive class name to form the
// class of the generated decoration node.
const DefaultClassPrefix = "enhanced-add-"

// Kind of decoration requested by a directive.
type Kind int

const (
	KindText  Kind = iota // inline node with literal text
	KindImage             // block node with background image
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Size is the optional "WxH" parameter of image directives. Operands are not
// validated and are kept as written.
type Size struct {
	Width  string
	Height string
}

func (s Size) String() string {
	return s.Width + "x" + s.Height
}

// Position maps CSS properties (top, bottom, left, right, transform) to
// values produced by ParsePosition.
type Position map[string]string

// Merge copies all entries of other into p, overwriting existing keys.
func (p Position) Merge(other Position) {
	maps.Copy(p, other)
}

// Keys returns property names in sorted order.
func (p Position) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Command is a parsed "@add:" directive ready to be executed against a
// document.
type Command struct {
	Kind      Kind
	Selector  string
	ClassName string
	// Content is image URL for KindImage and literal text for KindText.
	Content  string
	Size     *Size
	Position Position
}

// Class returns class name of the decoration node.
func (c *Command) Class(prefix string) string {
	return prefix + c.ClassName
}

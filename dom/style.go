package dom

import (
	"strings"

	"golang.org/x/net/html"

	"themekit/css"
)

// inlineStyle is editable view of element "style" attribute. Declarations
// are kept as written so whatever is not set explicitly survives untouched,
// setting a property replaces all its occurrences.
type inlineStyle struct {
	parser *css.Parser
	raw    []css.RawDeclaration
}

func (d *Document) inlineStyle(n *html.Node) *inlineStyle {
	s := &inlineStyle{parser: d.parser}
	if raw, ok := getAttr(n, "style"); ok {
		s.raw = css.SplitDeclarations([]byte(raw))
	}
	return s
}

// get returns the last valid declaration of property.
func (s *inlineStyle) get(property string) (css.Declaration, bool) {
	if s.parser == nil {
		return css.Declaration{}, false
	}
	var decls []css.Declaration
	for _, r := range s.raw {
		if r.Property == property {
			decls = append(decls, s.parser.ParseInline([]byte(r.Text))...)
		}
	}
	rule := css.Rule{Declarations: decls}
	return rule.Declaration(property)
}

func (s *inlineStyle) set(property, value string) {
	decl := css.RawDeclaration{Property: property, Text: property + ": " + value}
	out := s.raw[:0]
	replaced := false
	for _, r := range s.raw {
		if r.Property != property {
			out = append(out, r)
			continue
		}
		if !replaced {
			out = append(out, decl)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, decl)
	}
	s.raw = out
}

func (s *inlineStyle) String() string {
	parts := make([]string, 0, len(s.raw))
	for _, r := range s.raw {
		parts = append(parts, r.Text)
	}
	return strings.Join(parts, "; ")
}

func (s *inlineStyle) apply(n *html.Node) {
	setAttr(n, "style", s.String())
}

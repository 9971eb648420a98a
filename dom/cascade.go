package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"themekit/css"
)

// medium used to decide which @media blocks apply.
const medium = "screen"

type cascadeEntry struct {
	sel   cascadia.Sel
	order int
	decl  css.Declaration
}

// cascade holds every stylesheet declaration of a single property found in
// document <style> elements at the moment of construction.
type cascade struct {
	doc      *Document
	property string
	entries  []cascadeEntry
}

func newCascade(d *Document, property string) *cascade {
	c := &cascade{doc: d, property: property}

	order := 0
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Style {
			return true
		}
		sheet := d.parser.Parse([]byte(textContent(n)))
		for _, rule := range sheet.Rules(medium) {
			decl, ok := rule.Declaration(property)
			if !ok {
				continue
			}
			for _, s := range rule.Selectors {
				sel, err := cascadia.Parse(s)
				if err != nil {
					d.log.Debug("Skipping selector in cascade", zap.String("selector", s), zap.Error(err))
					continue
				}
				if sel.PseudoElement() != "" {
					continue
				}
				c.entries = append(c.entries, cascadeEntry{sel: sel, order: order, decl: decl})
				order++
			}
		}
		// style element has no element children
		return false
	})
	return c
}

// best returns winning stylesheet declaration for element.
func (c *cascade) best(n *html.Node) (css.Declaration, bool) {
	var win *cascadeEntry
	for i := range c.entries {
		e := &c.entries[i]
		if !e.sel.Match(n) {
			continue
		}
		if win == nil || beats(e, win) {
			win = e
		}
	}
	if win == nil {
		return css.Declaration{}, false
	}
	return win.decl, true
}

// beats reports whether a wins over b: importance, then specificity, then
// source order.
func beats(a, b *cascadeEntry) bool {
	if a.decl.Important != b.decl.Important {
		return a.decl.Important
	}
	sa, sb := a.sel.Specificity(), b.sel.Specificity()
	if sa != sb {
		return sb.Less(sa)
	}
	return a.order > b.order
}

// computed returns effective keyword value of property for element.
func (c *cascade) computed(n *html.Node, initial string) string {
	inline, hasInline := c.doc.inlineStyle(n).get(c.property)
	sheet, hasSheet := c.best(n)

	var decl css.Declaration
	switch {
	case hasSheet && sheet.Important && !(hasInline && inline.Important):
		decl = sheet
	case hasInline:
		decl = inline
	case hasSheet:
		decl = sheet
	default:
		return initial
	}
	return strings.ToLower(strings.TrimSpace(decl.Value.Raw))
}

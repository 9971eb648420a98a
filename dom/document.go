// Package dom realizes spawn commands and stylesheets on an HTML document
// tree. It plays the role of the live page: selector queries, inline styles,
// computed positioning and bookkeeping of every node it creates.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"themekit/css"
)

// ErrInvalidSelector is returned when selector query cannot be compiled.
var ErrInvalidSelector = errors.New("invalid selector")

// Document wraps parsed HTML tree.
type Document struct {
	root   *html.Node
	parser *css.Parser
	log    *zap.Logger
}

// Parse reads HTML document from r.
func Parse(r io.Reader, log *zap.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	return NewDocument(root, log), nil
}

// NewDocument wraps existing tree.
func NewDocument(root *html.Node, log *zap.Logger) *Document {
	if log == nil {
		log = zap.NewNop()
	}
	return &Document{
		root:   root,
		parser: css.NewParser(log),
		log:    log.Named("dom"),
	}
}

func (d *Document) Root() *html.Node {
	return d.root
}

// Render writes document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		return ""
	}
	return sb.String()
}

// QueryAll returns all elements matching selector in document order.
func (d *Document) QueryAll(selector string) ([]*html.Node, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSelector, selector, err)
	}
	return cascadia.QueryAll(d.root, sel), nil
}

// Head returns <head> element creating it when necessary.
func (d *Document) Head() *html.Node {
	return d.section(atom.Head)
}

// Body returns <body> element creating it when necessary.
func (d *Document) Body() *html.Node {
	return d.section(atom.Body)
}

func (d *Document) section(a atom.Atom) *html.Node {
	if n := findElement(d.root, a); n != nil {
		return n
	}
	parent := findElement(d.root, atom.Html)
	if parent == nil {
		parent = d.root
	}
	n := newElement(a)
	if a == atom.Head && parent.FirstChild != nil {
		parent.InsertBefore(n, parent.FirstChild)
	} else {
		parent.AppendChild(n)
	}
	return n
}

// ApplyStylesheet puts css into <style id="id"> element. Existing element
// with the same id is reused, otherwise new one is appended to <head>.
func (d *Document) ApplyStylesheet(text, id string) *html.Node {
	style := find(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Style {
			return false
		}
		v, ok := getAttr(n, "id")
		return ok && v == id
	})

	if style == nil {
		style = newElement(atom.Style)
		if len(id) > 0 {
			setAttr(style, "id", id)
		}
		d.Head().AppendChild(style)
		d.log.Debug("Stylesheet created", zap.String("id", id), zap.Int("bytes", len(text)))
	} else {
		for c := style.FirstChild; c != nil; c = style.FirstChild {
			style.RemoveChild(c)
		}
		d.log.Debug("Stylesheet replaced", zap.String("id", id), zap.Int("bytes", len(text)))
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return style
}

// ComputedPosition returns value of "position" property for element as seen
// by renderer: inline style and all document stylesheets are considered.
func (d *Document) ComputedPosition(n *html.Node) string {
	return newCascade(d, "position").computed(n, "static")
}

func newElement(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// walk visits nodes depth first in document order. Children are skipped when
// fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// find returns first node in document order satisfying pred.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func findElement(root *html.Node, a atom.Atom) *html.Node {
	return find(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	})
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// textContent concatenates all text node descendants.
func textContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

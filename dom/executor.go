package dom

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"themekit/css"
	"themekit/directive"
)

// Executor realizes spawn commands on a document.
type Executor struct {
	doc     *Document
	tracker *Tracker
	prefix  string
	log     *zap.Logger
}

// NewExecutor returns executor creating decoration nodes with classes
// prefixed by prefix. Empty prefix means directive.DefaultClassPrefix.
func NewExecutor(doc *Document, tracker *Tracker, prefix string, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	if len(prefix) == 0 {
		prefix = directive.DefaultClassPrefix
	}
	return &Executor{
		doc:     doc,
		tracker: tracker,
		prefix:  prefix,
		log:     log.Named("executor"),
	}
}

// Execute runs commands in order. The first selector which could not be
// compiled aborts execution, nodes created by earlier commands stay in place
// and remain tracked.
func (e *Executor) Execute(cmds []directive.Command) error {
	// stylesheets do not change while commands run, anchors inline styles are
	// read live
	positions := newCascade(e.doc, "position")

	for i := range cmds {
		cmd := &cmds[i]

		anchors, err := e.doc.QueryAll(cmd.Selector)
		if err != nil {
			return err
		}
		if len(anchors) == 0 {
			e.log.Debug("Selector matched nothing", zap.String("selector", cmd.Selector))
			continue
		}

		for _, anchor := range anchors {
			node := e.decoration(cmd)
			if positions.computed(anchor, "static") == "static" {
				e.tracker.RegisterStyleChange(anchor)
				style := e.doc.inlineStyle(anchor)
				style.set("position", "relative")
				style.apply(anchor)
			}
			e.tracker.Mark(node)
			e.tracker.RegisterCreatedNode(node)
			anchor.AppendChild(node)
		}
		e.log.Debug("Command executed",
			zap.Stringer("kind", cmd.Kind),
			zap.String("selector", cmd.Selector),
			zap.String("class", cmd.Class(e.prefix)),
			zap.Int("anchors", len(anchors)))
	}
	return nil
}

func (e *Executor) decoration(cmd *directive.Command) *html.Node {
	var (
		node  *html.Node
		style inlineStyle
	)

	switch cmd.Kind {
	case directive.KindImage:
		node = newElement(atom.Div)
		style.set("background-image", "url("+css.Quote(cmd.Content)+")")
		style.set("background-size", "contain")
		style.set("background-repeat", "no-repeat")
		style.set("background-position", "center")
		if cmd.Size != nil {
			style.set("width", cmd.Size.Width+"px")
			style.set("height", cmd.Size.Height+"px")
		}
	default:
		node = newElement(atom.Span)
		node.AppendChild(&html.Node{Type: html.TextNode, Data: cmd.Content})
	}

	setAttr(node, "class", cmd.Class(e.prefix))
	style.set("position", "absolute")
	for _, k := range cmd.Position.Keys() {
		style.set(k, cmd.Position[k])
	}
	style.apply(node)
	return node
}

package dom

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// DefaultMarkerAttribute is put on every node created by spawn commands.
const DefaultMarkerAttribute = "data-enhanced-added"

type styleChange struct {
	node *html.Node
	had  bool
	old  string
}

// Tracker remembers everything done to the document during one processing
// session so it could be undone later. Nodes are marked with session id,
// which lets Sweep find leftovers of earlier sessions in saved documents.
type Tracker struct {
	session string
	attr    string
	nodes   []*html.Node
	styles  []styleChange
	log     *zap.Logger
}

// NewTracker creates tracker with fresh session id.
func NewTracker(attr string, log *zap.Logger) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(attr) == 0 {
		attr = DefaultMarkerAttribute
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate session id: %w", err)
	}
	return &Tracker{
		session: id.String(),
		attr:    attr,
		log:     log.Named("tracker").With(zap.String("session", id.String())),
	}, nil
}

func (t *Tracker) Session() string {
	return t.session
}

func (t *Tracker) Attribute() string {
	return t.attr
}

// styleAttribute keeps original inline style of restyled anchors.
func (t *Tracker) styleAttribute() string {
	return t.attr + "-style"
}

// unstyledAttribute marks anchors which had no style attribute at all.
func (t *Tracker) unstyledAttribute() string {
	return t.attr + "-unstyled"
}

// Mark tags node as produced by this session.
func (t *Tracker) Mark(n *html.Node) {
	setAttr(n, t.attr, t.session)
}

// RegisterCreatedNode records node inserted into document.
func (t *Tracker) RegisterCreatedNode(n *html.Node) {
	t.nodes = append(t.nodes, n)
}

// RegisterStyleChange records inline style of element before it is modified.
// Only the first change of a given element is remembered.
func (t *Tracker) RegisterStyleChange(n *html.Node) {
	if slices.ContainsFunc(t.styles, func(s styleChange) bool { return s.node == n }) {
		return
	}
	old, had := getAttr(n, "style")
	t.styles = append(t.styles, styleChange{node: n, had: had, old: old})
	if had {
		setAttr(n, t.styleAttribute(), old)
	} else {
		setAttr(n, t.unstyledAttribute(), "")
	}
}

// Len returns number of tracked changes.
func (t *Tracker) Len() int {
	return len(t.nodes) + len(t.styles)
}

// Clear removes every registered node from the document and restores
// original inline styles. Tracker is ready for the next pass afterwards.
func (t *Tracker) Clear() int {
	count := t.Len()
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if n := t.nodes[i]; n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	for i := len(t.styles) - 1; i >= 0; i-- {
		s := t.styles[i]
		restoreStyle(s.node, s.had, s.old)
		t.unmark(s.node)
	}
	t.nodes, t.styles = nil, nil
	if count > 0 {
		t.log.Debug("Tracked changes cleared", zap.Int("count", count))
	}
	return count
}

// Sweep removes marked nodes left by other sessions under root and restores
// styles of anchors they changed.
func (t *Tracker) Sweep(root *html.Node) int {
	var (
		stale    []*html.Node
		restyled []*html.Node
	)
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if v, ok := getAttr(n, t.attr); ok && v != t.session {
			stale = append(stale, n)
			return false
		}
		_, styled := getAttr(n, t.styleAttribute())
		_, unstyled := getAttr(n, t.unstyledAttribute())
		if (styled || unstyled) && !t.owns(n) {
			restyled = append(restyled, n)
		}
		return true
	})

	for _, n := range stale {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	for _, n := range restyled {
		old, had := getAttr(n, t.styleAttribute())
		restoreStyle(n, had, old)
		t.unmark(n)
	}

	count := len(stale) + len(restyled)
	if count > 0 {
		t.log.Debug("Stale changes swept", zap.Int("nodes", len(stale)), zap.Int("styles", len(restyled)))
	}
	return count
}

func (t *Tracker) owns(n *html.Node) bool {
	return slices.ContainsFunc(t.styles, func(s styleChange) bool { return s.node == n })
}

func (t *Tracker) unmark(n *html.Node) {
	removeAttr(n, t.styleAttribute())
	removeAttr(n, t.unstyledAttribute())
}

func restoreStyle(n *html.Node, had bool, old string) {
	if had {
		setAttr(n, "style", old)
	} else {
		removeAttr(n, "style")
	}
}

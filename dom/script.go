package dom

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrScriptsDenied is returned by DeniedScripts.
var ErrScriptsDenied = errors.New("script execution is disabled")

// ScriptSink receives script extracted from custom CSS. Whatever happens to
// the code is up to the host.
type ScriptSink interface {
	RunScript(code string) error
}

// ScriptInjector adds scripts to the end of document <body> as tracked nodes.
type ScriptInjector struct {
	doc     *Document
	tracker *Tracker
	log     *zap.Logger
}

func NewScriptInjector(doc *Document, tracker *Tracker, log *zap.Logger) *ScriptInjector {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptInjector{doc: doc, tracker: tracker, log: log.Named("scripts")}
}

func (s *ScriptInjector) RunScript(code string) error {
	if len(strings.TrimSpace(code)) == 0 {
		return nil
	}
	node := newElement(atom.Script)
	node.AppendChild(&html.Node{Type: html.TextNode, Data: code})
	s.tracker.Mark(node)
	s.tracker.RegisterCreatedNode(node)
	s.doc.Body().AppendChild(node)
	s.log.Debug("Script injected", zap.Int("bytes", len(code)))
	return nil
}

// DeniedScripts refuses every non empty script.
type DeniedScripts struct {
	log *zap.Logger
}

func NewDeniedScripts(log *zap.Logger) *DeniedScripts {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeniedScripts{log: log.Named("scripts")}
}

func (s *DeniedScripts) RunScript(code string) error {
	if len(strings.TrimSpace(code)) == 0 {
		return nil
	}
	s.log.Warn("Script ignored, execution is disabled by configuration", zap.Int("bytes", len(code)))
	return ErrScriptsDenied
}

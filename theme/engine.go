// Package theme applies custom CSS, fonts and decorations to a document and
// takes them back.
package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"themekit/common"
	"themekit/config"
	"themekit/directive"
	"themekit/dom"
	"themekit/fonts"
)

// Report describes what single Apply did.
type Report struct {
	// Cleared is number of nodes removed before applying, both tracked by this
	// engine and left by earlier sessions.
	Cleared  int
	Result   directive.Result
	Created  int
	Script   bool
	Rejected bool
}

// Engine owns tracker for a document. Not safe for concurrent use, every
// Apply starts with complete clear of what previous one did.
type Engine struct {
	doc       *dom.Document
	cfg       *config.ThemeConfig
	tracker   *dom.Tracker
	processor *directive.Processor
	executor  *dom.Executor
	scripts   dom.ScriptSink
	log       *zap.Logger
}

func NewEngine(doc *dom.Document, cfg *config.ThemeConfig, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("theme")

	tracker, err := dom.NewTracker(cfg.MarkerAttribute, log)
	if err != nil {
		return nil, err
	}

	var scripts dom.ScriptSink
	switch cfg.Scripts {
	case common.ScriptPolicyInject:
		scripts = dom.NewScriptInjector(doc, tracker, log)
	case common.ScriptPolicyDeny:
		scripts = dom.NewDeniedScripts(log)
	default:
		return nil, fmt.Errorf("unexpected script policy %q", cfg.Scripts)
	}

	return &Engine{
		doc:       doc,
		cfg:       cfg,
		tracker:   tracker,
		processor: directive.NewProcessor(log),
		executor:  dom.NewExecutor(doc, tracker, cfg.ClassPrefix, log),
		scripts:   scripts,
		log:       log,
	}, nil
}

// Session returns id used to mark created nodes.
func (e *Engine) Session() string {
	return e.tracker.Session()
}

// Apply replaces whatever was applied before with css and fonts from
// catalog. Nil catalog means no fonts.
func (e *Engine) Apply(ctx context.Context, text string, catalog *fonts.Catalog) (Report, error) {
	var rpt Report

	rpt.Cleared = e.Dispose()
	if err := ctx.Err(); err != nil {
		return rpt, err
	}

	rpt.Result = e.processor.Process(text)
	if err := ctx.Err(); err != nil {
		return rpt, err
	}

	if catalog != nil {
		sheet, err := catalog.Stylesheet(e.cfg.FontRuleTemplate)
		if err != nil {
			return rpt, fmt.Errorf("unable to prepare fonts: %w", err)
		}
		e.stylesheet(sheet, e.cfg.FontsStyleID)
	}
	e.stylesheet(rpt.Result.CSS, e.cfg.StyleID)
	if err := ctx.Err(); err != nil {
		return rpt, err
	}

	before := e.tracker.Len()
	err := e.executor.Execute(rpt.Result.Commands)
	rpt.Created = e.tracker.Len() - before
	if err != nil {
		return rpt, err
	}
	if err := ctx.Err(); err != nil {
		return rpt, err
	}

	if len(strings.TrimSpace(rpt.Result.Script)) > 0 {
		err := e.scripts.RunScript(rpt.Result.Script)
		switch {
		case errors.Is(err, dom.ErrScriptsDenied):
			rpt.Rejected = true
		case err != nil:
			return rpt, fmt.Errorf("unable to run script: %w", err)
		default:
			rpt.Script = true
		}
	}

	e.log.Debug("Theme applied",
		zap.String("session", e.tracker.Session()),
		zap.Int("cleared", rpt.Cleared),
		zap.Int("commands", len(rpt.Result.Commands)),
		zap.Int("created", rpt.Created))
	return rpt, nil
}

func (e *Engine) stylesheet(text, id string) {
	if len(strings.TrimSpace(text)) == 0 {
		return
	}
	node := e.doc.ApplyStylesheet(text, id)
	e.tracker.Mark(node)
	e.tracker.RegisterCreatedNode(node)
}

// Dispose removes everything engine created and restores anchors it
// restyled. Leftovers of other sessions go too. Returns number of removed
// nodes.
func (e *Engine) Dispose() int {
	n := e.tracker.Clear()
	n += e.tracker.Sweep(e.doc.Root())
	return n
}

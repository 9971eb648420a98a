package directive

import (
	"go.uber.org/zap"
)

// Result of a single processing pass.
type Result struct {
	CSS      string
	Script   string
	Commands []Command
}

// Processor turns raw custom CSS into cleaned stylesheet, script text and
// spawn commands. It keeps no state between passes.
type Processor struct {
	log *zap.Logger
}

// NewProcessor creates processor, nil logger is allowed.
func NewProcessor(log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{log: log.Named("directive")}
}

// Process separates scripts first so directive parser never sees script
// bodies, then extracts directives from the remaining CSS.
func (p *Processor) Process(text string) Result {
	split := SplitScripts(text)
	parsed := parse(split.CSS, p.log)

	p.log.Debug("Custom CSS processed",
		zap.Int("input", len(text)),
		zap.Int("css", len(parsed.CSS)),
		zap.Int("script", len(split.Script)),
		zap.Int("commands", len(parsed.Commands)))

	return Result{
		CSS:      parsed.CSS,
		Script:   split.Script,
		Commands: parsed.Commands,
	}
}

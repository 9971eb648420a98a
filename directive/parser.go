package directive

import (
	"strings"

	"go.uber.org/zap"
)

const (
	directiveMarker = "@add:"
	urlPrefix       = "url("
	maxParams       = 4
)

// Parsed is the result of directive parsing: CSS with directives removed and
// commands in source order.
type Parsed struct {
	CSS      string
	Commands []Command
}

// span is a half open byte range of the source text.
type span struct {
	start, end int
}

// Parse scans flat CSS rule blocks for "@add:" directives. Malformed
// directives are left in the CSS untouched and produce no command.
func Parse(css string) Parsed {
	return parse(css, zap.NewNop())
}

func parse(css string, log *zap.Logger) Parsed {
	var (
		res   Parsed
		cut   []span
		start int
	)

	for start < len(css) {
		open := strings.IndexByte(css[start:], '{')
		if open < 0 {
			break
		}
		open += start
		end := strings.IndexByte(css[open+1:], '}')
		if end < 0 {
			// unterminated block
			break
		}
		end += open + 1

		selector := strings.TrimSpace(css[start:open])
		bodyStart := open + 1
		body := css[bodyStart:end]

		for pos := 0; pos < len(body); {
			idx := strings.Index(body[pos:], directiveMarker)
			if idx < 0 {
				break
			}
			idx += pos
			cmd, n, ok := scanDirective(body[idx:], log)
			if !ok {
				log.Debug("Ignoring malformed directive", zap.String("selector", selector), zap.String("text", abbreviate(body[idx:])))
				pos = idx + len(directiveMarker)
				continue
			}
			cmd.Selector = selector
			res.Commands = append(res.Commands, cmd)
			cut = append(cut, span{bodyStart + idx, bodyStart + idx + n})
			pos = idx + n
		}
		start = end + 1
	}

	res.CSS = removeSpans(css, cut)
	return res
}

func removeSpans(s string, cut []span) string {
	if len(cut) == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, c := range cut {
		b.WriteString(s[last:c.start])
		last = c.end
	}
	b.WriteString(s[last:])
	return b.String()
}

// scanner walks a single directive. It never reads past the rule body it was
// given.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	return s.src[s.pos]
}

// skipSpace returns number of skipped whitespace bytes.
func (s *scanner) skipSpace() int {
	from := s.pos
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
	return s.pos - from
}

func (s *scanner) run(accept func(byte) bool) string {
	from := s.pos
	for !s.eof() && accept(s.peek()) {
		s.pos++
	}
	return s.src[from:s.pos]
}

// scanDirective parses directive at the beginning of src:
//
//	@add: <class> "<content>" [p1] [p2] [p3] [p4] [;]
//
// It returns command (without selector), number of consumed bytes and
// success flag.
func scanDirective(src string, log *zap.Logger) (Command, int, bool) {
	s := &scanner{src: src, pos: len(directiveMarker)}

	s.skipSpace()
	class := s.run(isClassByte)
	if len(class) == 0 {
		return Command{}, 0, false
	}
	if s.skipSpace() == 0 || s.eof() || s.peek() != '"' {
		return Command{}, 0, false
	}
	s.pos++
	closing := strings.IndexByte(src[s.pos:], '"')
	if closing <= 0 {
		// unterminated or empty literal
		return Command{}, 0, false
	}
	content := src[s.pos : s.pos+closing]
	s.pos += closing + 1

	var params []string
	for len(params) < maxParams {
		save := s.pos
		if s.skipSpace() == 0 {
			break
		}
		p := s.run(isParamByte)
		if len(p) == 0 {
			s.pos = save
			break
		}
		params = append(params, p)
	}
	s.skipSpace()
	if !s.eof() && s.peek() == ';' {
		s.pos++
	}

	cmd := Command{ClassName: class, Position: Position{}}
	if strings.HasPrefix(content, urlPrefix) {
		cmd.Kind = KindImage
		cmd.Content = unwrapURL(content)
	} else {
		cmd.Kind = KindText
		cmd.Content = content
	}

	for _, p := range params {
		if cmd.Kind == KindImage && cmd.Size == nil && isSizeToken(p) {
			w, h, _ := strings.Cut(p, "x")
			cmd.Size = &Size{Width: w, Height: h}
			continue
		}
		if isAmbiguousPosition(p) {
			log.Debug("Ambiguous position token, using first keyword", zap.String("class", class), zap.String("token", p))
		}
		pos := ParsePosition(p)
		if len(pos) == 0 {
			log.Debug("Unrecognized position token", zap.String("class", class), zap.String("token", p))
			continue
		}
		cmd.Position.Merge(pos)
	}
	return cmd, s.pos, true
}

// unwrapURL extracts URL from url(...) literal. Quotes inside the parentheses
// are removed, unquoted URL ends at the first closing parenthesis.
func unwrapURL(content string) string {
	inner := strings.TrimLeft(content[len(urlPrefix):], " \t\r\n\f")
	if len(inner) > 0 && (inner[0] == '\'' || inner[0] == '"') {
		if end := strings.IndexByte(inner[1:], inner[0]); end >= 0 {
			return inner[1 : end+1]
		}
		inner = inner[1:]
	}
	if end := strings.IndexByte(inner, ')'); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner)
}

// isSizeToken reports "WxH" candidates. This differs from the plain directive
// grammar, where the first image parameter containing 'x' is the size: tokens
// starting with a position keyword are positions even when they contain 'x'
// (e.g. "top-10px"), and size is taken from the first remaining candidate.
func isSizeToken(p string) bool {
	if !strings.Contains(p, "x") {
		return false
	}
	_, isPos := positionKeyword(p)
	return !isPos
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isClassByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-'
}

func isParamByte(c byte) bool {
	return !isSpace(c) && c != ';'
}

func abbreviate(s string) string {
	const limit = 64
	if i := strings.IndexAny(s, ";\n"); i >= 0 && i < limit {
		return s[:i]
	}
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

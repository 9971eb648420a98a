package css

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// RawDeclaration is a single segment of declaration list kept exactly as
// written. Property is lower-cased name before the first colon, empty when
// segment is not a declaration.
type RawDeclaration struct {
	Property string
	Text     string
}

// nesting tracks blocks and functions so separators inside them are not
// treated as top level ones.
type nesting int

func (n *nesting) track(tt css.TokenType) {
	switch tt {
	case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
		*n++
	case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
		if *n > 0 {
			*n--
		}
	}
}

// SplitDeclarations splits declaration list (inline style) on top level
// semicolons. Nothing is dropped: custom properties, unknown or broken
// declarations come back as written, only surrounding whitespace is trimmed
// and empty segments are skipped.
func SplitDeclarations(data []byte) []RawDeclaration {
	var (
		out   []RawDeclaration
		seg   strings.Builder
		depth nesting
	)
	flush := func() {
		text := strings.TrimSpace(seg.String())
		seg.Reset()
		if len(text) == 0 {
			return
		}
		d := RawDeclaration{Text: text}
		if name, _, ok := strings.Cut(text, ":"); ok {
			d.Property = strings.ToLower(strings.TrimSpace(name))
		}
		out = append(out, d)
	}

	l := css.NewLexer(parse.NewInputBytes(data))
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			flush()
			return out
		}
		if tt == css.SemicolonToken && depth == 0 {
			flush()
			continue
		}
		depth.track(tt)
		seg.Write(text)
	}
}

// SplitImports separates top level @import statements from the rest of
// stylesheet. Both are returned as written.
func SplitImports(data []byte) ([]string, string) {
	var (
		imports     []string
		stmt, other strings.Builder
		depth       nesting
		inImport    bool
	)

	l := css.NewLexer(parse.NewInputBytes(data))
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if inImport {
				// unterminated statement at the end of input
				imports = append(imports, strings.TrimSpace(stmt.String())+";")
			}
			return imports, strings.TrimSpace(other.String())
		}
		if inImport {
			stmt.Write(text)
			if tt == css.SemicolonToken {
				imports = append(imports, strings.TrimSpace(stmt.String()))
				stmt.Reset()
				inImport = false
			}
			continue
		}
		if tt == css.AtKeywordToken && depth == 0 && strings.EqualFold(string(text), "@import") {
			inImport = true
			stmt.Write(text)
			continue
		}
		depth.track(tt)
		other.Write(text)
	}
}

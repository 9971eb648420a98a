// Package css parses stylesheets and inline style declarations into a small
// AST sufficient for cascade lookups and font catalog processing.
package css

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInputBytes(data), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			// End of input or error
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.Error(err))
				sheet.Warnings = append(sheet.Warnings, "parse error: "+err.Error())
			}
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			switch atRule {
			case "@media":
				mq := parseMediaQuery(parser.Values())
				rules := p.parseMediaBlockRules(parser)
				p.log.Debug("Parsed @media block", zap.String("query", mq.Raw), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: mq, Rules: rules},
				})
			case "@font-face":
				ff := parseFontFace(parser)
				sheet.Items = append(sheet.Items, StylesheetItem{FontFace: &ff})
			default:
				skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule block: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import)
			atRule := strings.ToLower(string(data))
			if atRule == "@import" {
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginRulesetGrammar:
			rule := Rule{
				Selectors:    splitSelectors(data, parser.Values()),
				Declarations: parseDeclarations(parser, css.EndRulesetGrammar),
			}
			if len(rule.Selectors) > 0 {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: &rule})
			}
		}
	}
}

// ParseInline parses content of a style attribute.
func (p *Parser) ParseInline(data []byte) []Declaration {
	parser := css.NewParser(parse.NewInputBytes(data), true)
	decls := parseDeclarations(parser, css.ErrorGrammar)
	if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
		p.log.Debug("Inline style parse error", zap.ByteString("style", data), zap.Error(err))
	}
	return decls
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for i, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			// url(something) - the token data is the full url(...) string
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		case css.FunctionToken:
			// url( "quoted" ) is tokenized as function followed by string
			if strings.EqualFold(string(t.Data), "url(") {
				for _, next := range tokens[i+1:] {
					if next.TokenType == css.StringToken {
						return unquote(string(next.Data))
					}
				}
			}
		}
	}
	return ""
}

// splitSelectors builds selector group from rule head tokens and splits it on
// top level commas.
func splitSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	group := sb.String()

	var (
		selectors []string
		depth     int
		from      int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	for i := 0; i < len(group); i++ {
		switch group[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				add(group[from:i])
				from = i + 1
			}
		}
	}
	add(group[from:])
	return selectors
}

// parseDeclarations parses property declarations until "until" grammar or
// end of input.
func parseDeclarations(parser *css.Parser, until css.GrammarType) []Declaration {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, until:
			return decls

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			values, important := stripImportant(values)
			decls = append(decls, Declaration{
				Property:  strings.ToLower(string(data)),
				Value:     parsePropertyValue(values),
				Important: important,
			})

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) do not participate in lookups
			continue
		}
	}
}

// stripImportant removes trailing "!important" from value tokens.
func stripImportant(tokens []css.Token) ([]css.Token, bool) {
	end := len(tokens)
	for end > 0 && tokens[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end < 2 || tokens[end-1].TokenType != css.IdentToken || !strings.EqualFold(string(tokens[end-1].Data), "important") {
		return tokens, false
	}
	bang := end - 2
	for bang > 0 && tokens[bang].TokenType == css.WhitespaceToken {
		bang--
	}
	if tokens[bang].TokenType != css.DelimToken || string(tokens[bang].Data) != "!" {
		return tokens, false
	}
	return tokens[:bang], true
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	// Build raw value string
	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	raw := strings.TrimSpace(strings.Join(rawParts, ""))

	val := Value{Raw: raw}

	var significant []css.Token
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			significant = append(significant, t)
		}
	}

	if len(significant) == 1 {
		t := significant[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			val.Keyword = string(t.Data)
		default:
			val.Keyword = raw
		}
		return val
	}

	// functions and multi-value properties
	val.Keyword = raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseFontFace parses an @font-face block.
func parseFontFace(parser *css.Parser) FontFace {
	ff := FontFace{}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return ff

		case css.DeclarationGrammar:
			values := parser.Values()
			if len(values) == 0 {
				continue
			}
			valStr := parsePropertyValue(values).Raw

			switch strings.ToLower(string(data)) {
			case "font-family":
				ff.Family = unquote(valStr)
			case "src":
				ff.Src = valStr
			case "font-style":
				ff.Style = valStr
			case "font-weight":
				ff.Weight = valStr
			case "font-display":
				ff.Display = valStr
			case "unicode-range":
				ff.UnicodeRange = valStr
			}
		}
	}
}

// parseMediaQuery parses a media query from CSS tokens. Handles queries
// like "screen", "not print", "screen and (max-width: 600px)".
func parseMediaQuery(tokens []css.Token) MediaQuery {
	mq := MediaQuery{}

	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	mq.Raw = strings.TrimSpace(strings.Join(rawParts, ""))

	var (
		idents []string
		cond   strings.Builder
		depth  int
	)
	for _, t := range tokens {
		switch t.TokenType {
		case css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				cond.Write(t.Data)
				mq.Conditions = append(mq.Conditions, strings.TrimSpace(cond.String()))
				cond.Reset()
				continue
			}
		case css.IdentToken:
			if depth == 0 {
				idents = append(idents, strings.ToLower(string(t.Data)))
			}
		case css.CommaToken:
			if depth == 0 {
				// media query lists are not supported, treat as condition
				mq.Conditions = append(mq.Conditions, ",")
			}
		}
		if depth > 0 {
			cond.Write(t.Data)
		}
	}

	i := 0
	if i < len(idents) && (idents[i] == "not" || idents[i] == "only") {
		mq.Negated = idents[i] == "not"
		i++
	}
	if i < len(idents) && idents[i] != "and" {
		mq.Type = idents[i]
	}
	return mq
}

// parseMediaBlockRules parses rules inside an @media block and returns them.
func (p *Parser) parseMediaBlockRules(parser *css.Parser) []Rule {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginAtRuleGrammar:
			// nested at-rules are not supported
			skipAtRuleBlock(parser)
			p.log.Debug("Skipping nested @-rule", zap.ByteString("rule", data))

		case css.BeginRulesetGrammar:
			rule := Rule{
				Selectors:    splitSelectors(data, parser.Values()),
				Declarations: parseDeclarations(parser, css.EndRulesetGrammar),
			}
			if len(rule.Selectors) > 0 {
				rules = append(rules, rule)
			}
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}

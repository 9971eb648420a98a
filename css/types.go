package css

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Quote returns s as CSS double quoted string.
func Quote(s string) string {
	return `"` + cssEscapeDoubleQuoted(s) + `"`
}

// MediaQuery represents a parsed @media query condition.
type MediaQuery struct {
	Raw     string // Original media query string
	Type    string // Media type (e.g., "screen", "print"), empty when omitted
	Negated bool   // true if "not" modifier was used on main type
	// Conditions are parenthesized media features, e.g. "(max-width: 600px)".
	// They depend on viewport and cannot be evaluated for static document.
	Conditions []string
}

// Evaluate returns true if this media query applies to the given medium
// ("screen", "print"). Queries with feature conditions never apply.
func (mq MediaQuery) Evaluate(medium string) bool {
	if len(mq.Conditions) > 0 {
		return false
	}
	var typeMatches bool
	switch t := strings.ToLower(mq.Type); t {
	case "", "all":
		typeMatches = true
	default:
		typeMatches = t == strings.ToLower(medium)
	}
	if mq.Negated {
		typeMatches = !typeMatches
	}
	return typeMatches
}

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "absolute", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "absolute", "bold", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// handles "0"
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Declaration is a single "property: value [!important]" pair.
type Declaration struct {
	Property  string
	Value     Value
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Property + ": " + d.Value.Raw + " !important"
	}
	return d.Property + ": " + d.Value.Raw
}

// Rule represents a single CSS rule (selector group + declarations).
type Rule struct {
	// Selectors of the group in source order, e.g. ".a, .b > p" gives
	// [".a", ".b > p"]. Selectors are kept as written.
	Selectors    []string
	Declarations []Declaration
}

// Selector returns the selector group as written in the rule head.
func (r Rule) Selector() string {
	return strings.Join(r.Selectors, ", ")
}

// Declaration returns the effective declaration for a property inside the
// rule: important declarations win, otherwise the last one.
func (r Rule) Declaration(property string) (Declaration, bool) {
	var (
		found Declaration
		ok    bool
	)
	for _, d := range r.Declarations {
		if d.Property != property {
			continue
		}
		if ok && found.Important && !d.Important {
			continue
		}
		found, ok = d, true
	}
	return found, ok
}

// FontFace represents an @font-face declaration.
type FontFace struct {
	Family string // font-family value
	Src    string // src value (URL or local reference)
	Style  string // font-style: normal, italic
	Weight string // font-weight: normal, bold, 400, 700
	// optional descriptors, written back as is
	Display      string
	UnicodeRange string
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, FontFace or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule       // A plain rule (selector + declarations)
	MediaBlock *MediaBlock // A @media block containing nested rules
	FontFace   *FontFace   // A @font-face declaration
	Import     *string     // An @import URL
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query MediaQuery
	Rules []Rule
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for skipped constructs
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// FontFaces returns all @font-face declarations from the stylesheet in source order.
// Only font-faces with a non-empty Family are included.
func (s *Stylesheet) FontFaces() []FontFace {
	var faces []FontFace
	for _, item := range s.Items {
		if item.FontFace != nil && item.FontFace.Family != "" {
			faces = append(faces, *item.FontFace)
		}
	}
	return faces
}

// Rules returns all rules applying to medium in source order, rules of
// matching @media blocks are flattened in place.
func (s *Stylesheet) Rules(medium string) []Rule {
	var rules []Rule
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			rules = append(rules, *item.Rule)
		case item.MediaBlock != nil && item.MediaBlock.Query.Evaluate(medium):
			rules = append(rules, item.MediaBlock.Rules...)
		}
	}
	return rules
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Declaration order within a rule is preserved.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(%s);\n", Quote(*item.Import))
		case item.FontFace != nil:
			n, err = writeFontFace(w, item.FontFace)
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// blank line between blocks, imports stay together
		if i < len(s.Items)-1 && (item.Import == nil || s.Items[i+1].Import == nil) {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w with given indentation.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selector())
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s;\n", indent, d)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeFontFace writes an @font-face block to w.
func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	var total int
	n, err := fmt.Fprint(w, "@font-face {\n")
	total += n
	if err != nil {
		return total, err
	}

	// stable order
	if ff.Family != "" {
		n, err = fmt.Fprintf(w, "  font-family: %s;\n", Quote(ff.Family))
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Src != "" {
		n, err = fmt.Fprintf(w, "  src: %s;\n", ff.Src)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Style != "" {
		n, err = fmt.Fprintf(w, "  font-style: %s;\n", ff.Style)
		total += n
		if err != nil {
			return total, err
		}
	}
	if ff.Weight != "" {
		n, err = fmt.Fprintf(w, "  font-weight: %s;\n", ff.Weight)
		total += n
		if err != nil {
			return total, err
		}
	}

	for _, d := range [][2]string{{"font-display", ff.Display}, {"unicode-range", ff.UnicodeRange}} {
		if d[1] == "" {
			continue
		}
		n, err = fmt.Fprintf(w, "  %s: %s;\n", d[0], d[1])
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query.Raw)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

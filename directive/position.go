package directive

import "strings"

const (
	posTop    = "top"
	posBottom = "bottom"
	posLeft   = "left"
	posRight  = "right"
	posCenter = "center"
)

// positionKeywords in recognition order.
var positionKeywords = []string{posTop, posBottom, posLeft, posRight, posCenter}

// positionKeyword returns keyword token starts with. Keyword must be followed
// by end of token or '-' separator.
func positionKeyword(token string) (string, bool) {
	for _, kw := range positionKeywords {
		if !strings.HasPrefix(token, kw) {
			continue
		}
		rest := token[len(kw):]
		if len(rest) == 0 || rest[0] == '-' {
			return kw, true
		}
	}
	return "", false
}

// ParsePosition translates single position token into partial style mapping.
//
//	top-10px  -> {top: 10px}
//	top--10px -> {top: -10px}
//	left-50%  -> {left: 50%}
//	bottom    -> {bottom: 0}
//	center    -> {left: 50%, top: 50%, transform: translate(-50%, -50%)}
//
// Unrecognized tokens produce empty mapping. Values are not validated.
func ParsePosition(token string) Position {
	kw, ok := positionKeyword(token)
	if !ok {
		return Position{}
	}
	if kw == posCenter {
		return Position{
			posLeft:     "50%",
			posTop:      "50%",
			"transform": "translate(-50%, -50%)",
		}
	}

	value := token[len(kw):]
	switch {
	case strings.HasPrefix(value, "--"):
		// negative value, "--" stands for literal minus
		value = "-" + value[2:]
	case strings.HasPrefix(value, "-"):
		value = value[1:]
	}
	value = strings.ReplaceAll(value, "--", "-")
	if len(value) == 0 {
		value = "0"
	}
	return Position{kw: value}
}

// isAmbiguousPosition reports tokens whose value starts with another
// position keyword, e.g. "top-left-10px". Only the first keyword is used for
// such tokens.
func isAmbiguousPosition(token string) bool {
	kw, ok := positionKeyword(token)
	if !ok || kw == posCenter || len(token) == len(kw) {
		return false
	}
	_, ok = positionKeyword(strings.TrimLeft(token[len(kw):], "-"))
	return ok
}

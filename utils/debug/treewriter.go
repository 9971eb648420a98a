// Package debug renders indented human readable dumps used in debug reports.
package debug

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, two spaces per depth level.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes quoted value, empty value is written as is.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Properties writes label followed by "key=value" pairs sorted by key on a
// single line. Nothing is written for empty map.
func (tw TreeWriter) Properties(depth int, label string, props map[string]string) {
	if len(props) == 0 {
		return
	}
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteByte(':')
	for _, k := range slices.Sorted(maps.Keys(props)) {
		tw.w.WriteByte(' ')
		tw.w.WriteString(k)
		tw.w.WriteByte('=')
		tw.w.WriteString(encodeText(props[k]))
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}

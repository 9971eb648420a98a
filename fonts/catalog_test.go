package fonts

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func ids(fonts []Font) string {
	out := make([]string, 0, len(fonts))
	for _, f := range fonts {
		out = append(out, f.ID)
	}
	return strings.Join(out, ",")
}

func mustImport(t *testing.T, name string) Font {
	t.Helper()
	f, err := FromImport(name, "https://example.com/"+name+".css")
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func newTestCatalog(t *testing.T, names ...string) *Catalog {
	t.Helper()
	c := NewCatalog(zaptest.NewLogger(t))
	for _, n := range names {
		if err := c.Add(mustImport(t, n)); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestCatalog_AddRemove(t *testing.T) {
	c := newTestCatalog(t, "a", "b")

	if err := c.Add(mustImport(t, "a")); !errors.Is(err, ErrExists) {
		t.Errorf("Add(duplicate) error = %v, want ErrExists", err)
	}
	if err := c.Remove("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(missing) error = %v, want ErrNotFound", err)
	}
	if err := c.SetActive("a"); err != nil {
		t.Fatal(err)
	}
	if err := c.Remove("a"); err != nil {
		t.Fatal(err)
	}
	if c.ActiveID() != "" {
		t.Error("removing active font must clear selection")
	}
	if got := ids(c.List()); got != "b" {
		t.Errorf("List() = %s", got)
	}
}

func TestCatalog_Move(t *testing.T) {
	tests := []struct {
		id    string
		index int
		want  string
	}{
		{"a", 2, "b,c,a,d"},
		{"d", 0, "d,a,b,c"},
		{"b", 100, "a,c,d,b"},
		{"c", -5, "c,a,b,d"},
		{"b", 1, "a,b,c,d"},
	}
	for _, tt := range tests {
		c := newTestCatalog(t, "a", "b", "c", "d")
		if err := c.Move(tt.id, tt.index); err != nil {
			t.Fatalf("Move(%s, %d) error = %v", tt.id, tt.index, err)
		}
		if got := ids(c.List()); got != tt.want {
			t.Errorf("Move(%s, %d) = %s, want %s", tt.id, tt.index, got, tt.want)
		}
	}

	c := newTestCatalog(t, "a")
	if err := c.Move("x", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Move(missing) error = %v", err)
	}
}

func TestCatalog_Sorted(t *testing.T) {
	c := newTestCatalog(t, "Font 10", "Font 2", "Alpha", "Font 1")
	if got := ids(c.Sorted()); got != "alpha,font-1,font-2,font-10" {
		t.Errorf("Sorted() = %s", got)
	}
	// user order is untouched
	if got := ids(c.List()); got != "font-10,font-2,alpha,font-1" {
		t.Errorf("List() = %s", got)
	}
}

func TestCatalog_Active(t *testing.T) {
	c := newTestCatalog(t, "a")
	if _, ok := c.Active(); ok {
		t.Error("no font selected yet")
	}
	if err := c.SetActive("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetActive(missing) error = %v", err)
	}
	if err := c.SetActive("a"); err != nil {
		t.Fatal(err)
	}
	if f, ok := c.Active(); !ok || f.ID != "a" {
		t.Errorf("Active() = %+v, %v", f, ok)
	}
	if err := c.SetEnabled("a", false); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Active(); ok {
		t.Error("disabled font must not be active")
	}
	if c.ActiveID() != "a" {
		t.Error("selection is kept for disabled font")
	}
}

const testRule = `{{ if .Active }}body { font-family: {{ cssquote .Active.Family }}; }{{ end }}`

func TestCatalog_Stylesheet(t *testing.T) {
	c := NewCatalog(zaptest.NewLogger(t))

	inline, err := FromCSS("Inline", `@font-face { font-family: "Inline"; src: url(i.woff); }`, nil)
	if err != nil {
		t.Fatal(err)
	}
	mixed, err := FromCSS("Mixed", `@font-face { font-family: "Mixed"; src: url(m.woff); }
@import url("https://example.com/late.css");`, nil)
	if err != nil {
		t.Fatal(err)
	}
	disabled := mustImport(t, "off")
	disabled.Enabled = false

	for _, f := range []Font{inline, mustImport(t, "remote"), mixed, disabled} {
		if err := c.Add(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.SetActive("mixed"); err != nil {
		t.Fatal(err)
	}

	got, err := c.Stylesheet(testRule)
	if err != nil {
		t.Fatalf("Stylesheet() error = %v", err)
	}
	want := `@import url("https://example.com/remote.css");
@import url("https://example.com/late.css");

@font-face { font-family: "Inline"; src: url(i.woff); }

@font-face { font-family: "Mixed"; src: url(m.woff); }

body { font-family: "Mixed"; }
`
	if got != want {
		t.Errorf("Stylesheet() =\n%s\nwant\n%s", got, want)
	}
	if strings.Contains(got, "off.css") {
		t.Error("disabled font must not be included")
	}
}

func TestCatalog_StylesheetKeepsFontCSS(t *testing.T) {
	c := NewCatalog(zaptest.NewLogger(t))
	text := `@font-face {
  font-family: "W";
  font-stretch: 75% 125%;
  font-display: swap;
  unicode-range: U+0000-00FF;
  src: url(w.woff2) format("woff2") tech(variations);
}
.x { --v: 1; font-family: "W", var(--fallback, serif); }
@font-feature-values W { @styleset { nice: 12; } }`
	f, err := FromCSS("W", text, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Add(f); err != nil {
		t.Fatal(err)
	}
	// duplicate imports from different fonts are emitted once
	for _, name := range []string{"shared", "shared-too"} {
		g := mustImport(t, name)
		g.CSS = `@import url("https://example.com/shared.css");`
		if err := c.Add(g); err != nil {
			t.Fatal(err)
		}
	}

	got, err := c.Stylesheet("")
	if err != nil {
		t.Fatal(err)
	}
	want := "@import url(\"https://example.com/shared.css\");\n\n" + text + "\n"
	if got != want {
		t.Errorf("Stylesheet() =\n%s\nwant\n%s", got, want)
	}
}

func TestCatalog_StylesheetEmpty(t *testing.T) {
	c := NewCatalog(nil)
	got, err := c.Stylesheet(testRule)
	if err != nil || got != "" {
		t.Errorf("Stylesheet() = %q, %v, want empty", got, err)
	}
	if _, err := c.Stylesheet("{{ .Broken"); err == nil {
		t.Error("broken template must fail")
	}
	if _, err := c.Stylesheet(`{{ .Missing.Field }}`); err == nil {
		t.Error("template referencing unknown field must fail")
	}
}

func TestCatalog_StylesheetSprig(t *testing.T) {
	c := newTestCatalog(t, "a", "b")
	got, err := c.Stylesheet(`/* {{ len .Fonts }} fonts: {{ range $i, $f := .Fonts }}{{ if $i }}, {{ end }}{{ $f.Name | upper }}{{ end }} */`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(got, "\n/* 2 fonts: A, B */\n") {
		t.Errorf("Stylesheet() = %q", got)
	}
}

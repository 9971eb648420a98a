package css_test

import (
	"slices"
	"testing"

	"themekit/css"
)

func TestSplitDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []css.RawDeclaration
	}{
		{"empty", "  ", nil},
		{"custom property", "--accent: red; color: var(--accent)", []css.RawDeclaration{
			{Property: "--accent", Text: "--accent: red"},
			{Property: "color", Text: "color: var(--accent)"},
		}},
		{"nested separators", `background: url("a;b.png"); width: calc(1px + (2px)); ;`, []css.RawDeclaration{
			{Property: "background", Text: `background: url("a;b.png")`},
			{Property: "width", Text: "width: calc(1px + (2px))"},
		}},
		{"not a declaration", "{x: 1; y}; TOP : 0", []css.RawDeclaration{
			{Property: "{x", Text: "{x: 1; y}"},
			{Property: "top", Text: "TOP : 0"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := css.SplitDeclarations([]byte(tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("SplitDeclarations() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitImports(t *testing.T) {
	input := `@import url("https://example.com/a.css");
@font-face { font-family: "A"; font-stretch: 75% 125%; src: url(a.woff2) format("woff2"), url(a.woff); }
@media print { @import "ignored-inside-block.css"; }
.x { --v: 1; }
@IMPORT 'b.css' screen;
@import "unterminated.css"`

	imports, rest := css.SplitImports([]byte(input))
	wantImports := []string{
		`@import url("https://example.com/a.css");`,
		`@IMPORT 'b.css' screen;`,
		`@import "unterminated.css";`,
	}
	if !slices.Equal(imports, wantImports) {
		t.Errorf("imports = %q, want %q", imports, wantImports)
	}
	wantRest := `@font-face { font-family: "A"; font-stretch: 75% 125%; src: url(a.woff2) format("woff2"), url(a.woff); }
@media print { @import "ignored-inside-block.css"; }
.x { --v: 1; }`
	if rest != wantRest {
		t.Errorf("rest =\n%s\nwant\n%s", rest, wantRest)
	}
}

package directive

import (
	"strings"
	"testing"
)

func TestSplitScripts(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantCSS    string
		wantScript string
	}{
		{
			name:    "no scripts",
			input:   "  .a { color: red; }  \n",
			wantCSS: ".a { color: red; }",
		},
		{
			name:       "single block",
			input:      ".a { color: red; }\n<script>console.log(1)</script>\n.b { color: blue; }",
			wantCSS:    ".a { color: red; }\n\n.b { color: blue; }",
			wantScript: "console.log(1)",
		},
		{
			name:       "attributes and mixed case",
			input:      `<SCRIPT type="text/javascript">let a = 1;</Script>.a{}`,
			wantCSS:    ".a{}",
			wantScript: "let a = 1;",
		},
		{
			name:       "several blocks joined by new line",
			input:      "<script> a() </script>.x{}<script>\nb()\n</script>",
			wantCSS:    ".x{}",
			wantScript: "a() \n\nb()",
		},
		{
			name:       "body is not greedy",
			input:      "<script>one</script>.mid{}<script>two</script>",
			wantCSS:    ".mid{}",
			wantScript: "one\ntwo",
		},
		{
			name:    "unterminated tag stays in css",
			input:   ".a{} <script>never closed",
			wantCSS: ".a{} <script>never closed",
		},
		{
			name:    "empty input",
			input:   "",
			wantCSS: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitScripts(tt.input)
			if got.CSS != tt.wantCSS {
				t.Errorf("CSS = %q, want %q", got.CSS, tt.wantCSS)
			}
			if got.Script != tt.wantScript {
				t.Errorf("Script = %q, want %q", got.Script, tt.wantScript)
			}
		})
	}
}

func TestSplitScripts_NothingLost(t *testing.T) {
	input := ".card { color: red; }\n<script>document.title = 'x';</script>\n.menu { margin: 0; }\n<script type=\"module\">init();</script>"
	got := SplitScripts(input)

	if strings.Contains(got.CSS, "document.title") || strings.Contains(got.CSS, "init()") {
		t.Errorf("script body leaked into css: %q", got.CSS)
	}

	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }
	recovered := squash(got.CSS + got.Script)
	for _, part := range []string{".card{color:red;}", ".menu{margin:0;}", "document.title='x';", "init();"} {
		if strings.Count(recovered, part) != 1 {
			t.Errorf("expected %q exactly once in %q", part, recovered)
		}
	}
}

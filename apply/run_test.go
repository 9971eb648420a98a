package apply

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"themekit/config"
	"themekit/directive"
	"themekit/fonts"
	"themekit/state"
)

func setupTestEnv(t *testing.T) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Store.Path = filepath.Join(t.TempDir(), "settings.db")
	return &state.LocalEnv{
		Cfg: cfg,
		Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "chat.html", "<p>x</p>")
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0755); err != nil {
		t.Fatal(err)
	}
	existing := writeFile(t, dir, "taken.html", "")

	tests := []struct {
		name      string
		dst       string
		overwrite bool
		want      string
		wantErr   bool
	}{
		{"next to source", "", false, filepath.Join(dir, "chat.themed.html"), false},
		{"into directory", outDir, false, filepath.Join(outDir, "chat.themed.html"), false},
		{"explicit file", filepath.Join(outDir, "result.htm"), false, filepath.Join(outDir, "result.htm"), false},
		{"existing file", existing, false, "", true},
		{"existing file overwrite", existing, true, existing, false},
		{"same as source", src, true, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := outputPath(src, tt.dst, tt.overwrite)
			if (err != nil) != tt.wantErr {
				t.Fatalf("outputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcess(t *testing.T) {
	env := setupTestEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "page.html",
		`<html><head></head><body><div class="mes"><p>hi</p></div></body></html>`)
	dst := filepath.Join(dir, "out", "page.themed.html")

	text := `.mes { @add: star "url('s.png')" 16x16 top-2px left-2px; color: blue; }`
	if err := process(context.Background(), src, dst, text, fonts.NewCatalog(nil), env, env.Log); err != nil {
		t.Fatalf("process() error = %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{
		`<style id="enhanced-custom-css"`,
		`.mes {  color: blue; }`,
		`class="enhanced-add-star"`,
		`background-image: url(&#34;s.png&#34;)`,
		`width: 16px; height: 16px; position: absolute; left: 2px; top: 2px`,
		`<div class="mes" data-enhanced-added-unstyled="" style="position: relative">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "@add") {
		t.Errorf("directive left in output:\n%s", out)
	}

	// source is never modified
	orig, _ := os.ReadFile(src)
	if strings.Contains(string(orig), "enhanced") {
		t.Error("source was modified")
	}
}

func TestProcess_InvalidSelector(t *testing.T) {
	env := setupTestEnv(t)
	dir := t.TempDir()
	src := writeFile(t, dir, "page.html", `<p>x</p>`)
	dst := filepath.Join(dir, "page.themed.html")

	err := process(context.Background(), src, dst, `a[ { @add: x "y" top; }`, fonts.NewCatalog(nil), env, env.Log)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(dst); err == nil {
		t.Error("output written despite error")
	}
}

func TestWriteResult(t *testing.T) {
	res := directive.NewProcessor(nil).Process(`p { @add: note "hi" top; } <script>x()</script>`)

	var buf bytes.Buffer
	if err := writeResult(&buf, res, "pre-"); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"--- css ---\np {  }\n", "--- script ---\nx()\n", "--- commands: 1\n", "class: \"pre-note\""} {
		if !strings.Contains(got, want) {
			t.Errorf("result does not contain %q:\n%s", want, got)
		}
	}
}

func TestWriteResultFile(t *testing.T) {
	res := directive.NewProcessor(nil).Process(`.a { @add: x "y" top; }`)
	dst := filepath.Join(t.TempDir(), "result.txt")

	if err := writeResultFile(dst, res, "p-"); err != nil {
		t.Fatalf("writeResultFile() error = %v", err)
	}
	var want bytes.Buffer
	if err := writeResult(&want, res, "p-"); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want.String() {
		t.Errorf("file content =\n%s\nwant\n%s", got, want.String())
	}

	if err := writeResultFile(filepath.Join(dst, "nested"), res, "p-"); err == nil {
		t.Error("expected error for destination under a regular file")
	}
}

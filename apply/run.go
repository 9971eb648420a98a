// Package apply implements commands which put custom CSS, fonts and
// decorations onto saved HTML pages.
package apply

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"themekit/config"
	"themekit/directive"
	"themekit/dom"
	"themekit/fonts"
	"themekit/state"
	"themekit/theme"
)

const outputSuffix = ".themed"

// Run applies stored (or provided) custom CSS and fonts to html page.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("apply")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	dst, err := outputPath(src, cmd.Args().Get(1), env.Overwrite)
	if err != nil {
		return err
	}

	store, err := env.Store()
	if err != nil {
		return err
	}

	var text string
	if name := cmd.String("css"); len(name) > 0 {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("unable to read custom css from %q: %w", name, err)
		}
		text = string(data)
	} else if text, err = store.CustomCSS(); err != nil {
		return err
	}

	catalog, err := store.LoadCatalog(log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, text, catalog, env, log)
}

// outputPath returns destination file for src. Empty dst means next to
// source, existing directory means inside it, anything else is file name.
func outputPath(src, dst string, overwrite bool) (string, error) {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	name := config.SafeFileName(strings.TrimSuffix(base, ext)+outputSuffix) + ext

	switch {
	case len(dst) == 0:
		dst = filepath.Join(filepath.Dir(src), name)
	default:
		var err error
		if dst, err = filepath.Abs(dst); err != nil {
			return "", err
		}
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			dst = filepath.Join(dst, name)
		}
	}

	if dst == src {
		return "", fmt.Errorf("destination is the same as source (%s)", src)
	}
	if _, err := os.Stat(dst); err == nil && !overwrite {
		return "", fmt.Errorf("output file already exists: %s", dst)
	}
	return dst, nil
}

// process does actual work independently of CLI framework.
func process(ctx context.Context, src, dst, text string, catalog *fonts.Catalog, env *state.LocalEnv, log *zap.Logger) error {
	if err := env.Rpt.StoreCopy("source.html", src); err != nil {
		log.Warn("Unable to store source in debug report", zap.Error(err))
	}
	env.Rpt.StoreData("custom.css", []byte(text))

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer in.Close()

	doc, err := dom.Parse(in, log)
	if err != nil {
		return err
	}
	engine, err := theme.NewEngine(doc, &env.Cfg.Theme, log)
	if err != nil {
		return err
	}

	rpt, err := engine.Apply(ctx, text, catalog)
	storeResult(env.Rpt, rpt.Result, env.Cfg.Theme.ClassPrefix)
	if err != nil {
		return fmt.Errorf("unable to apply theme: %w", err)
	}
	if rpt.Rejected {
		log.Warn("Custom CSS contains script, it was not added", zap.Stringer("policy", env.Cfg.Theme.Scripts))
	}
	if rpt.Cleared > 0 {
		log.Info("Removed leftovers of earlier run", zap.Int("nodes", rpt.Cleared))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	if err := doc.Render(out); err != nil {
		out.Close()
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	env.Rpt.Store("result.html", dst)

	log.Info("Theme applied",
		zap.String("session", engine.Session()),
		zap.Int("commands", len(rpt.Result.Commands)),
		zap.Int("created", rpt.Created),
		zap.Int("fonts", len(catalog.Enabled())))
	return nil
}

func storeResult(r *config.Report, res directive.Result, prefix string) {
	r.StoreData("cleaned.css", []byte(res.CSS))
	if len(res.Script) > 0 {
		r.StoreData("script.js", []byte(res.Script))
	}
	r.StoreData("commands.txt", []byte(directive.Dump(res.Commands, prefix)))
}

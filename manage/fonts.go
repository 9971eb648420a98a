package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"themekit/fonts"
	"themekit/state"
)

// editCatalog loads catalog, calls fn and stores result when fn succeeds.
func editCatalog(ctx context.Context, fn func(*fonts.Catalog, *zap.Logger) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("fonts")

	store, err := env.Store()
	if err != nil {
		return err
	}
	cat, err := store.LoadCatalog(log)
	if err != nil {
		return err
	}
	if err := fn(cat, log); err != nil {
		return err
	}
	return store.SaveCatalog(cat)
}

func fontID(cmd *cli.Command) (string, error) {
	id := cmd.Args().Get(0)
	if len(id) == 0 {
		return "", errors.New("no font id has been specified")
	}
	return id, nil
}

// ListFonts prints catalog, active font is marked with '*', disabled ones
// with '-'.
func ListFonts(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	store, err := env.Store()
	if err != nil {
		return err
	}
	cat, err := store.LoadCatalog(env.Log)
	if err != nil {
		return err
	}
	return writeCatalog(os.Stdout, cat, cmd.Bool("sorted"))
}

func writeCatalog(w io.Writer, cat *fonts.Catalog, sorted bool) error {
	list := cat.List()
	if sorted {
		list = cat.Sorted()
	}
	for i, f := range list {
		mark := ' '
		switch {
		case f.ID == cat.ActiveID():
			mark = '*'
		case !f.Enabled:
			mark = '-'
		}
		if _, err := fmt.Fprintf(w, "%c %2d  %-24s %-24s %s\n", mark, i, f.ID, f.Name, f.Source); err != nil {
			return err
		}
	}
	return nil
}

// AddFont adds font from url, css file or font file.
func AddFont(ctx context.Context, cmd *cli.Command) error {
	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no font source has been specified")
	}
	name, family := cmd.String("name"), cmd.String("family")

	return editCatalog(ctx, func(cat *fonts.Catalog, log *zap.Logger) error {
		f, err := loadFont(src, name, family, log)
		if err != nil {
			return err
		}
		if err := cat.Add(f); err != nil {
			return err
		}
		if cmd.Bool("use") {
			if err := cat.SetActive(f.ID); err != nil {
				return err
			}
		}
		log.Info("Font added", zap.String("id", f.ID), zap.String("family", f.Family), zap.Stringer("source", f.Source))
		return nil
	})
}

func loadFont(src, name, family string, log *zap.Logger) (fonts.Font, error) {
	if u, err := url.Parse(src); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return fonts.FromImport(name, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fonts.Font{}, fmt.Errorf("unable to read font source: %w", err)
	}
	if strings.EqualFold(filepath.Ext(src), ".css") {
		return fonts.FromCSS(name, string(data), log)
	}
	if len(family) == 0 {
		family = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	}
	return fonts.FromFile(name, family, data, log)
}

func RemoveFont(ctx context.Context, cmd *cli.Command) error {
	id, err := fontID(cmd)
	if err != nil {
		return err
	}
	return editCatalog(ctx, func(cat *fonts.Catalog, log *zap.Logger) error {
		if err := cat.Remove(id); err != nil {
			return err
		}
		log.Info("Font removed", zap.String("id", id))
		return nil
	})
}

// MoveFont changes font position, index is clamped to catalog bounds.
func MoveFont(ctx context.Context, cmd *cli.Command) error {
	id, err := fontID(cmd)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return fmt.Errorf("bad font position: %w", err)
	}
	return editCatalog(ctx, func(cat *fonts.Catalog, log *zap.Logger) error {
		if err := cat.Move(id, index); err != nil {
			return err
		}
		log.Info("Font moved", zap.String("id", id), zap.Int("position", index))
		return nil
	})
}

// EnableFont returns action which enables or disables font.
func EnableFont(enabled bool) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		id, err := fontID(cmd)
		if err != nil {
			return err
		}
		return editCatalog(ctx, func(cat *fonts.Catalog, log *zap.Logger) error {
			if err := cat.SetEnabled(id, enabled); err != nil {
				return err
			}
			log.Info("Font updated", zap.String("id", id), zap.Bool("enabled", enabled))
			return nil
		})
	}
}

// UseFont selects active font, no argument clears selection.
func UseFont(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().Get(0)
	return editCatalog(ctx, func(cat *fonts.Catalog, log *zap.Logger) error {
		if err := cat.SetActive(id); err != nil {
			return err
		}
		if len(id) == 0 {
			log.Info("Active font cleared")
		} else {
			log.Info("Active font selected", zap.String("id", id))
		}
		return nil
	})
}

// Package manage implements commands which edit stored settings: custom
// CSS, font catalog and settings bundles.
package manage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"themekit/state"
)

// SetCSS replaces stored custom CSS with content of file, "-" reads STDIN.
func SetCSS(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("css")

	src := cmd.Args().Get(0)
	if len(src) == 0 && !cmd.Bool("clear") {
		return errors.New("no custom css source has been specified")
	}

	var data []byte
	if len(src) > 0 {
		var err error
		if data, err = readSource(src); err != nil {
			return fmt.Errorf("unable to read custom css: %w", err)
		}
	}

	store, err := env.Store()
	if err != nil {
		return err
	}
	if err := store.SetCustomCSS(string(data)); err != nil {
		return err
	}
	log.Info("Custom CSS stored", zap.Int("bytes", len(data)))
	return nil
}

// ShowCSS writes stored custom CSS to destination file or STDOUT.
func ShowCSS(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	store, err := env.Store()
	if err != nil {
		return err
	}
	text, err := store.CustomCSS()
	if err != nil {
		return err
	}
	return writeDestination(cmd.Args().Get(0), func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	})
}

func readSource(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

// writeDestination calls fn with named file or STDOUT when name is empty.
func writeDestination(name string, fn func(io.Writer) error) (err error) {
	if len(name) == 0 {
		return fn(os.Stdout)
	}
	out, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", name, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(out)
}

package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themekit/directive"
	"themekit/state"
)

// Process shows what custom CSS would turn into without touching any page.
func Process(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("process")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no custom css has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read custom css: %w", err)
	}

	res := directive.NewProcessor(log).Process(string(data))
	env.Rpt.StoreData("custom.css", data)
	storeResult(env.Rpt, res, env.Cfg.Theme.ClassPrefix)

	if fname := cmd.Args().Get(1); len(fname) > 0 {
		return writeResultFile(fname, res, env.Cfg.Theme.ClassPrefix)
	}
	if err := writeResult(os.Stdout, res, env.Cfg.Theme.ClassPrefix); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	return nil
}

// writeResultFile reports failure to flush on close as well as write errors.
func writeResultFile(fname string, res directive.Result, prefix string) (err error) {
	out, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if err := writeResult(out, res, prefix); err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}
	return nil
}

func writeResult(w io.Writer, res directive.Result, prefix string) error {
	_, err := fmt.Fprintf(w, "--- css ---\n%s\n--- script ---\n%s\n--- %s",
		res.CSS, res.Script, directive.Dump(res.Commands, prefix))
	return err
}

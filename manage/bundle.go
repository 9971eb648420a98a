package manage

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themekit/state"
)

// Export writes settings bundle.
func Export(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		return errors.New("no bundle file has been specified")
	}
	store, err := env.Store()
	if err != nil {
		return err
	}
	return store.Export(dst)
}

// Import replaces settings with bundle content. Broken font entries are
// reported one by one and do not stop import.
func Import(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no bundle file has been specified")
	}
	store, err := env.Store()
	if err != nil {
		return err
	}

	n, err := store.Import(src)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			log.Warn("Bundle import problem", zap.Error(e))
		}
		return fmt.Errorf("bundle import incomplete, %d font(s) imported: %w", n, err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themekit/apply"
	"themekit/config"
	"themekit/manage"
	"themekit/misc"
	"themekit/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if er := env.CloseStore(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close settings database: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

const fontID = "ID"

// Errors are returned from subcommands as is, cli.Exit() is not used.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "applies custom CSS with @add: decorations and fonts to saved chat pages",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "apply",
				Usage:        "Applies custom CSS, fonts and decorations to HTML page",
				OnUsageError: usageErrorHandler,
				Action:       apply.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "css", Usage: "use custom css from `FILE` instead of stored one"},
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exits, overwrite file"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to html page to process, it is never modified

DESTINATION:
    path to resulting file or existing directory
    if absent - "<name>.themed.<ext>" next to SOURCE

Running on page produced earlier replaces decorations left there.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "process",
				Usage:        "Shows cleaned CSS, scripts and decoration commands without touching any page",
				OnUsageError: usageErrorHandler,
				Action:       apply.Process,
				ArgsUsage:    "CSS [DESTINATION]",
			},
			{
				Name:  "css",
				Usage: "Manages stored custom CSS",
				Commands: []*cli.Command{
					{
						Name:         "set",
						Usage:        "Stores custom CSS from file (\"-\" for STDIN)",
						OnUsageError: usageErrorHandler,
						Action:       manage.SetCSS,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "clear", Usage: "remove stored custom css when no file is given"},
						},
						ArgsUsage: "[FILE]",
					},
					{
						Name:         "show",
						Usage:        "Outputs stored custom CSS",
						OnUsageError: usageErrorHandler,
						Action:       manage.ShowCSS,
						ArgsUsage:    "[DESTINATION]",
					},
				},
			},
			{
				Name:  "fonts",
				Usage: "Manages font catalog",
				Commands: []*cli.Command{
					{
						Name:         "list",
						Usage:        "Lists fonts, active one is marked with '*', disabled with '-'",
						OnUsageError: usageErrorHandler,
						Action:       manage.ListFonts,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "sorted", Usage: "order by name instead of catalog position"},
						},
					},
					{
						Name:         "add",
						Usage:        "Adds font from URL, CSS file or font file (woff2, woff, otf, ttf)",
						OnUsageError: usageErrorHandler,
						Action:       manage.AddFont,
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Usage: "display `NAME`, font id is derived from it"},
							&cli.StringFlag{Name: "family", Usage: "font `FAMILY` for font files, defaults to file name"},
							&cli.BoolFlag{Name: "use", Usage: "make added font active"},
						},
						ArgsUsage: "SOURCE",
					},
					{
						Name:         "remove",
						Usage:        "Removes font",
						OnUsageError: usageErrorHandler,
						Action:       manage.RemoveFont,
						ArgsUsage:    fontID,
					},
					{
						Name:         "move",
						Usage:        "Moves font to position",
						OnUsageError: usageErrorHandler,
						Action:       manage.MoveFont,
						ArgsUsage:    fontID + " POSITION",
					},
					{
						Name:         "enable",
						Usage:        "Includes font into generated stylesheet",
						OnUsageError: usageErrorHandler,
						Action:       manage.EnableFont(true),
						ArgsUsage:    fontID,
					},
					{
						Name:         "disable",
						Usage:        "Excludes font from generated stylesheet",
						OnUsageError: usageErrorHandler,
						Action:       manage.EnableFont(false),
						ArgsUsage:    fontID,
					},
					{
						Name:         "use",
						Usage:        "Selects active font, without argument clears selection",
						OnUsageError: usageErrorHandler,
						Action:       manage.UseFont,
						ArgsUsage:    "[" + fontID + "]",
					},
				},
			},
			{
				Name:         "export",
				Usage:        "Saves custom CSS and fonts into zip bundle",
				OnUsageError: usageErrorHandler,
				Action:       manage.Export,
				ArgsUsage:    "FILE",
			},
			{
				Name:         "import",
				Usage:        "Replaces custom CSS and fonts with zip bundle content",
				OnUsageError: usageErrorHandler,
				Action:       manage.Import,
				ArgsUsage:    "FILE",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

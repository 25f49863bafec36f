package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/list"
	"github.com/idilsaglam/shoplist/internal/logging"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/store/slot"
	"github.com/idilsaglam/shoplist/internal/tui"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// Options carry the process streams; nil means os.Stdout / os.Stderr.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// RunTUI replaces the interactive program (tests).
	RunTUI func(ctx context.Context, s *list.Store) error
}

// usageError marks bad input; it exits with code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, a ...any) error { return usageError{msg: fmt.Sprintf(format, a...)} }

// app holds what PersistentPreRunE wires for the subcommands.
type app struct {
	cfg  config.Config
	opt  Options
	log  *zap.Logger
	slot slot.Store
	list *list.Store
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.Stdout == nil {
		opt.Stdout = os.Stdout
	}
	if opt.Stderr == nil {
		opt.Stderr = os.Stderr
	}
	if opt.RunTUI == nil {
		opt.RunTUI = func(ctx context.Context, s *list.Store) error { return tui.Run(ctx, s) }
	}

	cfg, err := config.Load()
	if err != nil {
		ui.Fail(opt.Stderr, "config: "+err.Error())
		return 1
	}
	a := &app{cfg: cfg, opt: opt}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(opt.Stdout)
	root.SetErr(opt.Stderr)

	runErr := root.ExecuteContext(ctx)
	if err := a.close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		return 0
	}

	var ue usageError
	if errors.As(runErr, &ue) {
		if ue.msg != "" {
			ui.Fail(opt.Stderr, ue.msg)
		}
		return 2
	}
	if errors.Is(runErr, list.ErrIndexOutOfRange) || errors.Is(runErr, list.ErrNotEditing) {
		ui.Fail(opt.Stderr, runErr.Error())
		return 2
	}
	ui.Fail(opt.Stderr, runErr.Error())
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "shoplist - a tiny shopping list",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), helpText)
			return usageError{}
		},
	}
	// The bare root only prints help, so it skips the store wiring.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd == root {
			return nil
		}
		return a.open(cmd.Context(), cmd.Name() == "tui")
	}
	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			fmt.Fprint(cmd.OutOrStdout(), helpText)
			return
		}
		defaultHelp(cmd, args)
	})
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.DataDir, "data-dir", a.cfg.DataDir, "directory holding the list (env SHOPLIST_DATA_DIR)")
	pf.StringVar(&a.cfg.Storage, "storage", a.cfg.Storage, "storage backend: "+strings.Join(store.Kinds, ", ")+" (env SHOPLIST_STORAGE)")
	pf.StringVar(&a.cfg.Key, "key", a.cfg.Key, "storage key of the list (env SHOPLIST_KEY)")
	pf.StringVar(&a.cfg.Theme, "theme", a.cfg.Theme, "color theme: "+strings.Join(ui.Themes, ", ")+" (env SHOPLIST_THEME)")
	pf.BoolVar((*bool)(&a.cfg.NoColor), "no-color", bool(a.cfg.NoColor), "disable colors (env NO_COLOR)")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "debug, info, warn or error (env SHOPLIST_LOG_LEVEL)")

	root.AddCommand(
		a.addCmd(),
		a.lsCmd(),
		a.incCmd(),
		a.decCmd(),
		a.doneCmd(),
		a.editCmd(),
		a.renameCmd(),
		a.rmCmd(),
		a.totalsCmd(),
		a.exportCmd(),
		a.tuiCmd(),
	)
	return root
}

// open wires theme, logger, slot and list store. The TUI owns the terminal,
// so without a log file it gets a no-op logger.
func (a *app) open(ctx context.Context, interactive bool) error {
	ui.SetTheme(a.cfg.Theme)
	if a.cfg.NoColor || a.cfg.Theme == "mono" {
		ui.DisableColor()
	}

	if interactive && a.cfg.LogFile == "" {
		a.log = zap.NewNop()
	} else {
		l, err := logging.New(a.cfg.LogLevel, a.cfg.LogFile)
		if err != nil {
			return usageError{msg: err.Error()}
		}
		a.log = l
	}

	sl, err := store.Open(ctx, a.cfg.Storage, a.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	a.slot = sl

	ls, err := list.Open(ctx, sl, a.cfg.Key, list.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.list = ls
	a.log.Debug("opened list",
		zap.String("storage", a.cfg.Storage),
		zap.String("dir", a.cfg.DataDir),
	)
	return nil
}

func (a *app) close() error {
	var err error
	if a.slot != nil {
		err = multierr.Append(err, a.slot.Close())
	}
	if a.log != nil {
		if a.cfg.LogFile != "" {
			err = multierr.Append(err, a.log.Sync())
		} else {
			// syncing a terminal stderr fails with EINVAL on some platforms
			_ = a.log.Sync()
		}
	}
	return err
}

const helpText = `shoplist - a tiny shopping list

Usage:
  shoplist <subcommand> [args]

Subcommands:
  add <name...>         Add an item (name can be multiple words)
  ls [--group]          List items with totals
  inc <index>           Increase quantity of item at 1-based index
  dec <index>           Decrease quantity (never below 0)
  done <index>          Toggle completed
  edit <index>          Toggle edit mode
  rename <index> <name...>  Rename an item
  rm <index>            Remove item
  totals                Print the totals line
  export [--format json|yaml]  Print the list with totals
  tui                   Interactive editor

Flags:
  --data-dir, --storage, --key, --theme, --no-color, --log-level

Examples:
  shoplist add "Oat milk"
  shoplist inc 1
  shoplist done 2
  shoplist rm 3
`

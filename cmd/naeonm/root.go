package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hkteamnoob/naeonm/internal/check"
	"github.com/hkteamnoob/naeonm/internal/config"
	"github.com/hkteamnoob/naeonm/internal/display"
	"github.com/hkteamnoob/naeonm/internal/history"
	"github.com/hkteamnoob/naeonm/internal/logging"
	"github.com/hkteamnoob/naeonm/internal/pipeline"
	"github.com/hkteamnoob/naeonm/internal/term"
)

// errReported marks a failure that has already been logged in detail.
var errReported = errors.New("failed")

// application carries state shared by all commands once the persistent
// pre-run has loaded configuration.
type application struct {
	flags      config.Flags
	cfg        config.Config
	configPath string
	log        *logging.Logger
	history    *history.Store
	stopSignal context.CancelFunc
}

func newRootCommand(app *application) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "naeonm",
		Short:         "In-place media metadata, watermark and attachment editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return app.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	app.flags.Register(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newMetadataCommand(app))
	rootCmd.AddCommand(newWatermarkCommand(app))
	rootCmd.AddCommand(newAttachCommand(app))
	rootCmd.AddCommand(newProcessCommand(app))
	rootCmd.AddCommand(newProbeCommand(app))
	rootCmd.AddCommand(newCheckCommand(app))
	rootCmd.AddCommand(newHistoryCommand(app))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// setup loads configuration (defaults, file, env, flags), opens the logger,
// and installs interrupt handling on the command context.
func (a *application) setup(cmd *cobra.Command) error {
	cfg, path, err := config.Load(a.flags.ConfigPath)
	if err != nil {
		return err
	}
	a.flags.Apply(cmd.Flags(), &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = path

	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return err
	}
	a.log = log
	if path != "" {
		log.Debug("Config: %s", path)
	}

	// Cancel on SIGINT/SIGTERM so batches stop between files and a running
	// ffmpeg is killed before it can replace anything.
	ctx, cancel := context.WithCancel(cmd.Context())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping after cleanup…")
			cancel()
		case <-ctx.Done():
		}
	}()
	a.stopSignal = func() {
		signal.Stop(sigCh)
		cancel()
	}
	cmd.SetContext(ctx)
	return nil
}

// runner builds a pipeline runner, attaching the history store when one is
// configured and can be opened.
func (a *application) runner(ctx context.Context) *pipeline.Runner {
	var opts []pipeline.Option
	if store := a.openHistory(ctx); store != nil {
		opts = append(opts, pipeline.WithHistory(store))
	}
	return pipeline.NewRunner(&a.cfg, a.log, opts...)
}

// openHistory opens the ledger lazily. Failures only cost the record, so
// they are logged and the run continues without one.
func (a *application) openHistory(ctx context.Context) *history.Store {
	if a.history != nil || a.cfg.History.Path == "" {
		return a.history
	}
	store, err := history.Open(ctx, a.cfg.History.Path)
	if err != nil {
		a.log.Warn("History disabled: %v", err)
		return nil
	}
	a.history = store
	return store
}

// preflight prints the banner and fails fast when the tools (and, for
// watermarking, the font) are missing.
func (a *application) preflight(watermark bool) error {
	if term.IsTerminal(os.Stdout) {
		display.PrintBanner(os.Stdout)
	}
	a.log.Info("=== naeonm v%s (%s) ===", version, commit)
	if a.cfg.DryRun {
		a.log.Warn("DRY RUN: no files will be written")
	}
	return check.New(&a.cfg).CheckDeps(watermark)
}

func (a *application) close() {
	if a.stopSignal != nil {
		a.stopSignal()
	}
	if a.history != nil {
		_ = a.history.Close()
	}
	if a.log != nil {
		_ = a.log.Close()
	}
}

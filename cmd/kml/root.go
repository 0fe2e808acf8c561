package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"entuKaart/internal/config"
	"entuKaart/internal/modules/setup/domain"
	"entuKaart/internal/modules/setup/infrastructure"
	"entuKaart/internal/shared/console"
	"entuKaart/internal/shared/logging"
)

type rootOptions struct {
	envFile       string
	discoveryFile string
	logLevel      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "kml",
		Short: "Prepare an Entu account for the map application",
		Long: `kml discovers the Kaart and Asukoht entity definitions, their properties,
menus and relationships in an Entu account, and creates whatever is missing.

Run "kml discover" first to record what already exists, then "kml setup".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file merged into the environment")
	cmd.PersistentFlags().StringVar(&opts.discoveryFile, "discovery-file", "", "discovery results file (default $DISCOVERY_FILE or discovery.json)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newDiscoverCmd(opts))
	cmd.AddCommand(newSetupCmd(opts))
	return cmd
}

// app is what every subcommand needs once configuration is resolved.
type app struct {
	cfg       *config.Config
	out       *console.Printer
	store     *infrastructure.EntuClient
	discovery *infrastructure.DiscoveryStore
	blueprint *domain.Blueprint
	closeLog  func()
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	if opts.envFile != "" {
		if err := godotenv.Overload(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", opts.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.discoveryFile != "" {
		cfg.Entu.DiscoveryFile = opts.discoveryFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	closeLog := setupLogging(cmd.ErrOrStderr(), cfg.Logging)
	if err := cfg.Entu.Validate(); err != nil {
		closeLog()
		return nil, err
	}
	blueprint, err := domain.DefaultBlueprint()
	if err != nil {
		closeLog()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		out:       console.NewPrinter(cmd.OutOrStdout()),
		store:     infrastructure.NewEntuClient(cfg.Entu.BaseURL(), cfg.Entu.Token, cfg.REST.Timeout, nil),
		discovery: infrastructure.NewDiscoveryStore(cfg.Entu.DiscoveryFile),
		blueprint: blueprint,
		closeLog:  closeLog,
	}, nil
}

func (a *app) printConfiguration() {
	a.out.Section("Configuration:")
	a.out.Detail("blue", "Host: "+a.cfg.Entu.Host)
	a.out.Detail("blue", "Account: "+a.cfg.Entu.Account)
	a.out.Detail("blue", "Token: "+a.cfg.Entu.TokenPreview())
}

// setupLogging sends slog output to stderr, or to the rotating file when a directory is configured.
func setupLogging(stderr io.Writer, cfg config.LoggingConfig) func() {
	if cfg.Directory == "" {
		slog.SetDefault(logging.New(stderr, logging.Config{Level: cfg.Level, Format: cfg.Format}))
		return func() {}
	}
	file := logging.NewRotatingFile(cfg.Directory)
	slog.SetDefault(logging.New(file, logging.Config{Level: cfg.Level, Format: cfg.Format, AddSource: true}))
	return func() { _ = file.Close() }
}

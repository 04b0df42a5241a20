// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     cmd
// Description: Root command, bootstrap and error reporting of the CLI
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/atistler/arcus/pkg/arcus"
	"github.com/atistler/arcus/pkg/core/config"
	"github.com/atistler/arcus/pkg/core/logging"
)

var (
	cfgFile     string
	catalogPath string
	apiURI      string
	verbose     bool
)

// errReported marks errors whose message was already printed
var errReported = errors.New("reported")

// reserved flag names a catalog argument may not take over
var reservedFlags = map[string]bool{
	"config":  true,
	"catalog": true,
	"api-uri": true,
	"verbose": true,
	"sync":    true,
	"help":    true,
}

// builtin command names a target may not take over
var builtinCommands = map[string]bool{
	"catalog":    true,
	"cache":      true,
	"version":    true,
	"help":       true,
	"completion": true,
}

const targetGroup = "targets"

// session is what bootstrap managed to set up before cobra runs
type session struct {
	cfg     *config.Config
	cfgErr  error
	client  *arcus.Client
	loadErr error
	logger  *logging.Logger
}

var current = &session{}

var rootCmd = &cobra.Command{
	Use:   "arcus",
	Short: "Command line client for CloudStack-style APIs",
	Long: `arcus reads the API's command catalog and turns every command into a
subcommand: the catalog command listVirtualMachines becomes

  arcus virtualmachine list [--zoneid ID] [--response FORMAT]

Async commands accept --sync SECONDS to wait for the job result.

Configuration is read from --config, $ARCUS_CONFIG, ./configs/config.toml,
./arcus.toml or ~/.config/arcus/config.toml.`,
	Args:               cobra.ArbitraryArgs,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if current.cfgErr != nil {
			return current.cfgErr
		}
		if current.loadErr != nil {
			return current.loadErr
		}
		return fmt.Errorf("unknown target %q, see 'arcus catalog'", args[0])
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "command catalog, overrides catalog.path")
	rootCmd.PersistentFlags().StringVar(&apiURI, "api-uri", "", "API endpoint, overrides api.uri")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and responses")

	rootCmd.AddGroup(&cobra.Group{ID: targetGroup, Title: "Targets:"})
}

// Execute builds the command tree from the catalog and runs the CLI
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bootstrap(os.Args[1:], os.Stderr)
	if current.client != nil {
		addTargetCommands(rootCmd, current.client, current.logger)
	}

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		printError(os.Stderr, err)
	}
	return err
}

// bootstrap reads the global flags ahead of cobra so the catalog named by
// them can shape the command tree. Failures are kept for the commands that
// need a catalog; builtin commands still work.
func bootstrap(args []string, stderr io.Writer) {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.AddFlagSet(rootCmd.PersistentFlags())
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)

	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		current.cfgErr = err
		current.logger = logging.NewLogger(logging.LoggerConfig{Name: "arcus", Level: "info", Output: stderr})
		return
	}

	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}
	if apiURI != "" {
		cfg.API.URI = apiURI
	}
	if verbose {
		cfg.API.Verbose = true
		cfg.Log.Level = "debug"
	}
	current.cfg = cfg

	current.logger = logging.NewLogger(logging.LoggerConfig{
		Name:   "arcus",
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	})

	current.client, current.loadErr = arcus.Configure(cfg, current.logger)
	if current.loadErr != nil {
		current.logger.Debug("Catalog not loaded", "error", current.loadErr)
	}
}

// requireConfig returns the loaded configuration or the reason it is missing
func requireConfig() (*config.Config, error) {
	if current.cfgErr != nil {
		return nil, current.cfgErr
	}
	return current.cfg, nil
}

// requireClient returns the configured client or the reason it is missing
func requireClient() (*arcus.Client, error) {
	if current.cfgErr != nil {
		return nil, current.cfgErr
	}
	if current.loadErr != nil {
		return nil, current.loadErr
	}
	return current.client, nil
}

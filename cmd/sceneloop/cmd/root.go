// Package cmd implements the sceneloop CLI commands.
//
// The root command resolves sceneloop.yaml and builds the logger; the
// subcommands (demo, version) share both through rootOptions.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/sceneloop/pkg/config"
	"github.com/go-drift/sceneloop/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// rootOptions holds the global flags and the state built from them.
type rootOptions struct {
	configPath string
	verbose    bool

	cfg    *config.Resolved
	logger *zap.Logger
}

// NewRootCommand creates the root command for the sceneloop CLI.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sceneloop",
		Short: "sceneloop - frame-synchronized scene graph runtime",
		Long: `sceneloop drives a retained scene graph from a frame clock.

Reactive effects are batched to one run per frame, cascades are bounded
by a time budget, and coroutines step once per tick.

Use "sceneloop <command> --help" for more information about a command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to "+config.FileName+" (default: ./"+config.FileName+" if present)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newDemoCommand(opts))
	cmd.AddCommand(newVersionCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) init() error {
	cfg, err := o.resolveConfig()
	if err != nil {
		return err
	}
	o.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if cfg.LogDevelopment {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	if o.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger.With(zap.String("app", cfg.AppName))
	errors.SetHandler(errors.NewLogHandler(o.logger))
	return nil
}

func (o *rootOptions) resolveConfig() (*config.Resolved, error) {
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		return cfg.Resolve(filepath.Dir(o.configPath))
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Resolve(wd)
}

// cmd/aggregator/root.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamzrod/status-aggregator/internal/aggregator"
	"github.com/tamzrod/status-aggregator/internal/config"
	"github.com/tamzrod/status-aggregator/internal/logger"
)

const envPrefix = "STATUSAGG"

// app carries what every subcommand needs after flag/env resolution.
type app struct {
	v   *viper.Viper
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "aggregator",
		Short:         "Aggregate third-party service status pages into one snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().String("config", "", "path to YAML config (empty: built-in providers)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(newSnapshotCmd(a))
	root.AddCommand(newServeCmd(a))

	return root
}

// init binds flags and STATUSAGG_* env vars, then builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	l, err := logger.NewZapLogger(a.v.GetString("log-level"))
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

// buildAggregator loads, validates and normalizes config, then wires the engine.
func (a *app) buildAggregator() (*aggregator.Aggregator, error) {
	cfg, err := config.Load(a.v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)

	agg, err := aggregator.Build(cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("aggregator build failed: %w", err)
	}
	return agg, nil
}

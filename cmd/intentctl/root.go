package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nulzo/intent-router/cmd"
	"github.com/nulzo/intent-router/internal/cli"
	"github.com/nulzo/intent-router/internal/config"
	"github.com/nulzo/intent-router/internal/gateway"
	"github.com/nulzo/intent-router/internal/platform/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// app holds what every subcommand needs. It is built lazily so that
// "intentctl version" works without a config.
type app struct {
	noColor bool
	verbose bool
	asJSON  bool

	// loadConfig is swapped in tests.
	loadConfig func() (*config.Config, error)
	rt         *gateway.Runtime
}

func (a *app) runtime(ctx context.Context) (*gateway.Runtime, error) {
	if a.rt != nil {
		return a.rt, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	// the CLI never writes to the usage ledger
	cfg.Database.DSN = ""
	cfg.Redis.Enabled = false

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", EnableColor: !a.noColor}, zapcore.Lock(os.Stderr))

	rt, err := gateway.Bootstrap(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.rt = rt
	return rt, nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{loadConfig: config.LoadConfig})
}

func newRootCmdWith(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "intentctl",
		Short:         "Classify developer queries and route them to a model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			if a.noColor {
				cli.SetEnabled(false)
			}
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.rt != nil {
				return a.rt.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level to stderr")
	root.PersistentFlags().BoolVar(&a.asJSON, "json", false, "print results as JSON")

	root.AddCommand(
		newClassifyCmd(a),
		newRouteCmd(a),
		newCostCmd(a),
		newCompleteCmd(a),
		newModelInfoCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	var check bool
	c := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), cmd.AppVersion)
			if check {
				if update := cmd.CheckLatestRelease(c.Context()); update != nil {
					fmt.Fprintln(c.OutOrStdout(), update.String())
				}
			}
			return nil
		},
	}
	c.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return c
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}


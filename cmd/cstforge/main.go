// Command cstforge is the external interface of the transformation engine
// (spec.md §6): a set of subcommands, each reading JSON from a file/stdin
// and writing JSON to stdout, exit code 0 on success and 1 on error. The
// engine holds no state between invocations; cmd/cstforge only wires
// config/logging/the optional ledger around the internal packages that do
// the actual work.
//
// Grounded in the teacher's cmd/morfx and demo/cmd cobra trees: a root
// command with persistent flags, one subcommand per verb, a
// PersistentPreRunE that builds the process-wide zap logger.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/oxhq/cstforge/internal/config"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	dbDSN    string
	logLevel string
	noLedger bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cstforge",
		Short:         "Structured source-code transformation engine",
		Long:          "cstforge resolves locators against live syntax trees and applies AST surgery, parameterized templates, and typed fragments under a seven-layer plan verifier.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			if dbDSN != "" {
				cfg.DatabaseDSN = dbDSN
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			l, err := buildLogger(cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	var flags *pflag.FlagSet = root.PersistentFlags()
	flags.StringVar(&dbDSN, "db", "", "ledger database DSN (overrides CSTFORGE_DATABASE_DSN); 'libsql://...' selects the remote driver")
	flags.StringVar(&logLevel, "log-level", "", "zap log level: debug, info, warn, error")
	flags.BoolVar(&noLedger, "no-ledger", false, "skip recording this invocation in the execution-history ledger")

	root.AddCommand(
		buildGraphCmd(),
		verifyPlanCmd(),
		executeStepCmd(),
		locateCmd(),
		locateRegionCmd(),
		serveCmd(),
	)
	return root
}

func buildLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.TimeKey = ""

	var lvl zap.AtomicLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapCfg.Level = lvl
	return zapCfg.Build()
}

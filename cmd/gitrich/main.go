// Command gitrich serves the Git Rich Quick game and carries the balance tooling.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var settings config.Settings

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:           "gitrich",
	Short:         "Git Rich Quick: write code, hire developers, get rich",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(settings.LogLevel, settings.LogFormat)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "console", "dev":
		cfg = zap.NewDevelopmentConfig()
	case "json", "":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func main() {
	var err error
	settings, err = config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "debug, info, warn or error")
	pf.StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "json or console")
	pf.StringVar(&settings.BalanceFile, "balance", settings.BalanceFile, "balance YAML file (overrides --difficulty)")
	pf.StringVar(&settings.Difficulty, "difficulty", settings.Difficulty, "built-in balance preset")

	rootCmd.AddCommand(serveCmd(), balanceCmd(), simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gitrich:", err)
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pandoc-region CLI. Each command
// treats a file (or stdin) as the editing surface and converts a line range
// of it in place through pandoc.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-region/internal/config"
	"github.com/pdiddy/pandoc-region/internal/logging"
	"github.com/pdiddy/pandoc-region/internal/session"
)

// version is set at build time via ldflags.
var version = "dev"

// configErr holds a config read failure from initConfig until a command runs.
var configErr error

// rootCmd is the base command for the pandoc-region CLI.
var rootCmd = &cobra.Command{
	Use:   "pandoc-region",
	Short: "Convert a region of a document between markup formats with pandoc",
	Long: `pandoc-region replaces a selected region of a document with the same text
converted to another markup format by pandoc. The document is a file, or
stdin when the path is "-"; the region is a line range (--lines) or the
whole document.

Conversions either apply completely or leave the document untouched. The
engine path, timeout and fallback formats come from pandoc-region.yaml,
PANDOC_REGION_* environment variables (a local .env is loaded first) or
flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return configErr
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./pandoc-region.yaml or ~/.config/pandoc-region/pandoc-region.yaml)")
	flags.String("engine", "", "conversion engine command or path (default pandoc)")
	flags.Duration("timeout", 0, "upper bound for each engine call (default 1s)")
	flags.BoolP("verbose", "v", false, "log engine calls to stderr")

	_ = viper.BindPFlag("engine", flags.Lookup("engine"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	used, err := config.Init(viper.GetViper(), cfgFile)
	if err != nil {
		configErr = err
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// newSession loads the configuration and builds the session every command
// works through.
func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	log := logging.New(cmd.ErrOrStderr(), level)
	return session.FromConfig(cfg, log), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

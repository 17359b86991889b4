package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/conform/internal/config"
	"github.com/aretw0/conform/internal/logging"
	"github.com/spf13/cobra"
)

// errNotConform signals that validation ran and failed; the report is already printed.
var errNotConform = errors.New("input does not conform")

var (
	cfg    config.Config
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "conform",
	Short: "conform validates data against declarative schemas",
	Long: `conform checks JSON and YAML values against schemas built from numbers, strings,
booleans, enums, arrays, unions and objects, and reports every mismatch.

Schemas are kept in a store (a directory, memory or Redis) and can be served
over HTTP or to AI agents through the Model Context Protocol.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotConform) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().String("dir", "", "Directory containing schema documents")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// setup loads the configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	loaded, err := config.Load(path, os.Environ())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dir") {
		loaded.Dir, _ = cmd.Flags().GetString("dir")
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	level, err := logging.ParseLevel(loaded.LogLevel)
	if err != nil {
		return err
	}
	cfg = loaded
	logger = logging.New(level)
	slog.SetDefault(logger)
	logger.Debug("Configuration loaded", "dir", cfg.Dir, "store", cfg.StoreKind())
	return nil
}

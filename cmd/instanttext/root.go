// Package main provides the entry point for the InstantText CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/instanttext/instanttext/internal/config"
	"github.com/instanttext/instanttext/internal/log"
)

// NewRootCmd creates the root command for InstantText.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instanttext",
		Short: "Capture any part of the screen as editable text",
		Long: `InstantText captures a screen region, runs OCR on it, stores the
recognized text in a local history, and optionally copies it to the
clipboard.

Run 'instanttext run' to start the background daemon with the global
hotkey, or 'instanttext capture' for a one-shot capture.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("settings", "", "Settings file path (default: XDG config directory)")
	cmd.PersistentFlags().String("data-dir", "", "Data directory for history and screenshots (default: XDG data directory)")

	// Add subcommands
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewCaptureCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewSettingsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitizing structured logger based on the
// verbosity setting and installs it as the process default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)
	return logger
}

// buildConfig creates a Config from the persistent flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	settingsPath, err := cmd.Flags().GetString("settings")
	if err != nil {
		return nil, err
	}
	if settingsPath != "" {
		cfg.SettingsPath = settingsPath
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

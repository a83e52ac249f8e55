package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/instanttext/instanttext/internal/config"
)

//go:embed templates/instanttext.yaml
var settingsTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with documented defaults",
		Long: `Init creates the InstantText settings file with the default values
and a comment explaining every option.

By default the file is written to the standard settings location, the
same place the daemon and 'settings set' use.

Examples:
  # Create the settings file in the default location
  instanttext init

  # Create a settings file at a specific path
  instanttext init -o mysettings.yaml

  # Force overwrite an existing file
  instanttext init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path for the settings (default: standard settings location)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite an existing settings file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = config.DefaultSettingsPath()
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("settings file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := settingsTemplate.ReadFile("templates/instanttext.yaml")
	if err != nil {
		return fmt.Errorf("failed to read settings template: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created settings file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file or use 'instanttext settings set' to change:")
	fmt.Fprintln(out, "  - The global capture hotkey")
	fmt.Fprintln(out, "  - Clipboard auto-copy")
	fmt.Fprintln(out, "  - Screenshot retention and location")

	return nil
}

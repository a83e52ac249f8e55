package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/instanttext/instanttext/internal/settings"
)

// NewSettingsCmd creates the settings command with its subcommands.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change InstantText settings",
		Long: `Settings shows or changes the persisted InstantText settings.

A changed setting takes effect on the very next capture; a changed
hotkey is re-bound by a running daemon without a restart.`,
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

// newSettingsShowCmd creates the settings show subcommand.
func newSettingsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShowCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runSettingsShowCmd executes the settings show subcommand.
func runSettingsShowCmd(cmd *cobra.Command, _ []string) error {
	store, err := openSettings(cmd)
	if err != nil {
		return err
	}
	snap := store.Get()

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if jsonOut {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "hotkey:           %s\n", snap.Hotkey)
	fmt.Fprintf(out, "auto-copy:        %t\n", snap.AutoCopyToClipboard)
	fmt.Fprintf(out, "save-screenshots: %t\n", snap.SaveScreenshots)
	fmt.Fprintf(out, "screenshots-dir:  %s\n", snap.ScreenshotsDir)
	fmt.Fprintf(out, "autostart:        %t\n", snap.Autostart)
	return nil
}

// newSettingsSetCmd creates the settings set subcommand.
func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and persist it",
		Long: `Set changes one setting, persists the whole settings document
atomically, and prints the new value.

Keys:
  hotkey            key combination, e.g. ctrl+shift+o
  auto-copy         true or false
  save-screenshots  true or false
  screenshots-dir   directory path
  autostart         true or false

Examples:
  instanttext settings set hotkey ctrl+alt+t
  instanttext settings set auto-copy false`,
		Args: cobra.ExactArgs(2),
		RunE: runSettingsSetCmd,
	}
}

// runSettingsSetCmd executes the settings set subcommand.
func runSettingsSetCmd(cmd *cobra.Command, args []string) error {
	store, err := openSettings(cmd)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]

	updated := store.Get()
	switch key {
	case "hotkey":
		updated.Hotkey = value
	case "auto-copy":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for auto-copy: %w", value, err)
		}
		updated.AutoCopyToClipboard = b
	case "save-screenshots":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for save-screenshots: %w", value, err)
		}
		updated.SaveScreenshots = b
	case "screenshots-dir":
		updated.ScreenshotsDir = value
	case "autostart":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q for autostart: %w", value, err)
		}
		updated.Autostart = b
	default:
		return fmt.Errorf("unknown setting %q (see 'instanttext settings set --help')", key)
	}

	if err := store.Set(updated); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
	return nil
}

// openSettings loads the settings store for the configured path.
func openSettings(cmd *cobra.Command) (*settings.Store, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cmd)

	store, err := settings.NewStore(
		settings.NewFilePersister(cfg.SettingsPath),
		settings.WithStoreLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return store, nil
}

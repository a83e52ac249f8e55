package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past recognition results, newest first",
		Long: `History lists past recognition results from the local database,
newest first.

Examples:
  # Show the ten most recent results
  instanttext history --limit 10

  # Show only the most recent result
  instanttext history --latest

  # Export the whole history as JSON
  instanttext history --json

  # Export the whole history as Markdown to a file
  instanttext history --markdown -o history.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 0,
		"Maximum number of results to show (0 shows all)")
	cmd.Flags().Bool("latest", false,
		"Show only the most recent result")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to the specified file path (creates directories if needed)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd)

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	// Reading never creates the database: an empty history is reported
	// as such rather than leaving an empty file behind.
	hist, err := history.Open(cfg.DataDir, history.Options{EnableWAL: true})
	if err != nil {
		if errors.Is(err, history.ErrHistoryNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No results in history.")
			return nil
		}
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	out, cleanup, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	writer, err := selectWriter(cmd, out)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if latest {
		result, err := hist.Latest(ctx)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No results in history.")
			return nil
		}
		_, err = writer.WriteOne(result)
		return err
	}

	results, err := hist.List(ctx, limit)
	if err != nil {
		return err
	}

	_, err = writer.Write(results)
	return err
}

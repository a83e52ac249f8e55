package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/instanttext/instanttext/internal/config"
	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/model"
	"github.com/instanttext/instanttext/internal/ocr"
	"github.com/instanttext/instanttext/internal/orchestrator"
	"github.com/instanttext/instanttext/internal/report"
	"github.com/instanttext/instanttext/internal/settings"
)

// NewCaptureCmd creates the capture command.
func NewCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture the screen once and print the recognized text",
		Long: `Capture performs a one-shot capture-to-text run: it grabs the screen
(or the given region), recognizes the text, appends the result to
history, and prints the text.

The auto-copy and screenshot settings from your settings file apply to
one-shot captures exactly as they do to hotkey captures.

Examples:
  # Capture the full screen
  instanttext capture

  # Capture a region (x,y,width,height in pixels)
  instanttext capture --region 100,100,400,200

  # Print the result as JSON
  instanttext capture --json

  # Write the result to a file as Markdown
  instanttext capture --markdown -o result.md`,
		Args: cobra.NoArgs,
		RunE: runCaptureCmd,
	}

	cmd.Flags().StringP("region", "r", "",
		"Region to capture as x,y,width,height (default: full screen)")
	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Tesseract language code for recognition")
	cmd.Flags().Duration("capture-timeout", config.DefaultCaptureTimeout,
		"Timeout for the screen capture (0 disables)")
	cmd.Flags().Duration("recognize-timeout", config.DefaultRecognizeTimeout,
		"Timeout for the recognition (0 disables)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the result as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the result as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to the specified file path (creates directories if needed)")

	return cmd
}

// runCaptureCmd executes the capture command.
func runCaptureCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyEngineFlags(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd)
	ctx := cmd.Context()

	regionSpec, err := cmd.Flags().GetString("region")
	if err != nil {
		return err
	}
	var region *model.CaptureRegion
	if regionSpec != "" {
		region, err = model.ParseRegion(regionSpec)
		if err != nil {
			return err
		}
	}

	store, err := settings.NewStore(
		settings.NewFilePersister(cfg.SettingsPath),
		settings.WithStoreLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	hist, err := history.Open(cfg.DataDir, history.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	engine := ocr.New(ocr.NewTesseractBackend(cfg.Language), ocr.WithLogger(logger))
	defer engine.Terminate() //nolint:errcheck // shutdown path

	// One-shot mode waits for the engine: there is no hotkey to retry
	// with, so a slow spin-up is better than a rejection.
	if err := engine.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize ocr engine: %w", err)
	}

	orch := newOrchestrator(cfg, engine, store, hist, logger)
	result, err := orch.RequestCapture(ctx, region)
	if err != nil {
		return fmt.Errorf("%s (%w)", orchestrator.FailureMessage(err), err)
	}

	out, cleanup, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	writer, err := selectWriter(cmd, out)
	if err != nil {
		return err
	}

	_, err = writer.WriteOne(result)
	return err
}

// openOutput resolves the --output flag into a writer, defaulting to
// the command's stdout.
func openOutput(cmd *cobra.Command) (io.Writer, func(), error) {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // user-chosen output path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// selectWriter picks the report writer matching the format flags.
func selectWriter(cmd *cobra.Command, out io.Writer) (report.Writer, error) {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	if jsonOut && markdownOut {
		return nil, fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	switch {
	case jsonOut:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case markdownOut:
		return report.NewMarkdownWriter(out), nil
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(getVerboseFlag(cmd))), nil
	}
}

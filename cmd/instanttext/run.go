package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/instanttext/instanttext/internal/capture"
	"github.com/instanttext/instanttext/internal/clipboard"
	"github.com/instanttext/instanttext/internal/config"
	"github.com/instanttext/instanttext/internal/history"
	"github.com/instanttext/instanttext/internal/hotkey"
	"github.com/instanttext/instanttext/internal/ocr"
	"github.com/instanttext/instanttext/internal/orchestrator"
	"github.com/instanttext/instanttext/internal/pipeline"
	"github.com/instanttext/instanttext/internal/settings"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the capture daemon with the global hotkey",
		Long: `Run starts the InstantText daemon. It registers the global hotkey from
your settings, initializes the OCR engine in the background, and waits.

Each hotkey press captures the full screen, recognizes its text, appends
the result to history, and copies the text to the clipboard when
auto-copy is enabled. Changing the hotkey through 'instanttext settings
set hotkey ...' re-binds it without restarting the daemon.

Examples:
  # Start the daemon with settings from the default location
  instanttext run

  # Start with a different recognition language
  instanttext run --lang deu`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}

	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Tesseract language code for recognition")
	cmd.Flags().Duration("capture-timeout", config.DefaultCaptureTimeout,
		"Timeout for a single screen capture (0 disables)")
	cmd.Flags().Duration("recognize-timeout", config.DefaultRecognizeTimeout,
		"Timeout for a single recognition (0 disables)")

	return cmd
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyEngineFlags(cmd, cfg); err != nil {
		return err
	}

	logger := setupLogger(cmd)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	return runDaemon(ctx, cfg, logger)
}

// applyEngineFlags copies the OCR-related flags into the config.
func applyEngineFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error

	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return err
	}

	cfg.CaptureTimeout, err = cmd.Flags().GetDuration("capture-timeout")
	if err != nil {
		return err
	}

	cfg.RecognizeTimeout, err = cmd.Flags().GetDuration("recognize-timeout")
	if err != nil {
		return err
	}

	return cfg.Validate()
}

// runDaemon wires the collaborators together and blocks until ctx is done.
func runDaemon(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
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

	orch := newOrchestrator(cfg, engine, store, hist, logger)

	registrar := hotkey.NewRegistrar(hotkey.NewSystemBinder(), hotkey.WithRegistrarLogger(logger))
	snap := store.Get()
	if err := registrar.Register(snap.Hotkey); err != nil {
		return fmt.Errorf("failed to register hotkey %q: %w", snap.Hotkey, err)
	}
	defer registrar.Unregister() //nolint:errcheck // shutdown path

	logger.Info("instanttext daemon started",
		"hotkey", snap.Hotkey,
		"language", cfg.Language,
		"history", hist.Path(),
	)

	g, ctx := errgroup.WithContext(ctx)

	// Engine spin-up happens in the background so the hotkey responds
	// immediately; captures attempted before Ready are rejected with a
	// clear message and can simply be retried.
	g.Go(func() error {
		if err := engine.Initialize(ctx); err != nil {
			logger.Error("ocr engine initialization failed", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		return orch.Run(ctx, registrar.Triggers())
	})

	// Re-bind the hotkey when settings change it.
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case change := <-store.Changes():
				if !change.HotkeyChanged() {
					continue
				}
				if err := registrar.Register(change.New.Hotkey); err != nil {
					logger.Error("failed to re-bind hotkey",
						"hotkey", change.New.Hotkey,
						"error", err,
					)
					continue
				}
				logger.Info("hotkey re-bound", "hotkey", change.New.Hotkey)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("instanttext daemon stopped")
	return nil
}

// newOrchestrator assembles the capture pipeline and its orchestrator.
func newOrchestrator(
	cfg *config.Config,
	engine *ocr.Engine,
	store *settings.Store,
	hist *history.Store,
	logger *slog.Logger,
) *orchestrator.Orchestrator {
	steps := []pipeline.Step{
		pipeline.NewCaptureStep(
			capture.NewScreenCapturer(capture.WithCaptureLogger(logger)),
			store,
			pipeline.WithCaptureLogger(logger),
			pipeline.WithCaptureTimeout(cfg.CaptureTimeout),
		),
		pipeline.NewRecognizeStep(
			engine,
			pipeline.WithRecognizeLogger(logger),
			pipeline.WithRecognizeTimeout(cfg.RecognizeTimeout),
		),
		pipeline.NewPersistStep(
			hist,
			clipboard.NewSystemClipboard(),
			store,
			pipeline.WithPersistLogger(logger),
		),
	}

	return orchestrator.New(engine, steps, orchestrator.WithLogger(logger))
}

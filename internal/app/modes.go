package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"pironman5/internal/config"
	"pironman5/internal/formatting"
	"pironman5/pkg/logging"
)

// runShowConfig prints defaults merged with the backing file. Nothing is
// started and nothing is written.
func runShowConfig(cfg *Config) error {
	store, err := config.NewStore(cfg.ConfigPath, config.Defaults())
	if err != nil {
		return err
	}

	formatter := formatting.NewFormatter(formatting.Options{
		Format: cfg.Output,
		Color:  cfg.Output == formatting.FormatTable && isTerminal(cfg.Stdout),
	})
	return formatter.FormatConfig(cfg.Stdout, store.Current())
}

// runUpdate reports the outcome of saving the command-line override, which
// InitializeServices already merged into the backing file.
func runUpdate(cfg *Config, services *Services) error {
	if err := services.Orchestrator.OverrideErr(); err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}
	logging.Info("CLI", "Configuration saved to %s", cfg.ConfigPath)
	return nil
}

// runStop releases the peripherals, then saves the override. Both steps run
// even if the first one fails.
func runStop(ctx context.Context, cfg *Config, services *Services) error {
	logging.Info("CLI", "Stopping pironman5")

	var errs []error
	if err := services.Orchestrator.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop: %w", err))
	}
	if err := services.Orchestrator.UpdateConfig(config.AutoOverride(cfg.Auto)); err != nil {
		errs = append(errs, fmt.Errorf("failed to update configuration: %w", err))
	} else {
		logging.Info("CLI", "Configuration saved to %s", cfg.ConfigPath)
	}
	return errors.Join(errs...)
}

// runStart supervises the subsystems until a signal arrives. The override was
// saved while building them; a failed write is not fatal and the service runs
// with the in-memory configuration.
func runStart(ctx context.Context, cfg *Config, services *Services) error {
	if err := services.Orchestrator.OverrideErr(); err != nil {
		logging.Warn("CLI", "Starting with unsaved configuration: %v", err)
	}

	logging.Info("CLI", "Starting pironman5. Press Ctrl+C to stop.")
	if err := services.Orchestrator.Run(ctx); err != nil {
		logging.Error("CLI", err, "pironman5 exited with an error")
		return err
	}
	logging.Info("CLI", "pironman5 stopped")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"pironman5/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs pironman5.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: initialize logging, load configuration, build services
//  2. Execution phase: run the selected mode
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", app.ModeStart)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication configures logging and, for every mode except
// ModeShowConfig, builds the orchestrator. A corrupt configuration file is
// returned as an error here, before anything starts.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}

	// Logs go to stderr so command output on stdout stays machine-readable.
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}
	logging.Init(appLogLevel, cfg.LogFormat, logOutput)

	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	application := &Application{config: cfg}
	if cfg.Mode == ModeShowConfig {
		return application, nil
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, err
	}
	application.services = services

	return application, nil
}

// Run executes the selected mode. In ModeStart it blocks until a shutdown
// signal arrives or ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	switch a.config.Mode {
	case ModeShowConfig:
		return runShowConfig(a.config)
	case ModeStart:
		return runStart(ctx, a.config, a.services)
	case ModeStop:
		return runStop(ctx, a.config, a.services)
	case ModeUpdate, "":
		return runUpdate(a.config, a.services)
	default:
		return fmt.Errorf("unknown mode %q", a.config.Mode)
	}
}

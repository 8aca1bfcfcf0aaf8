package app

import (
	"io"

	"pironman5/internal/config"
	"pironman5/internal/formatting"
	"pironman5/internal/subsystem"
	"pironman5/pkg/logging"
)

// Mode selects what the application does once bootstrapped.
type Mode string

const (
	// ModeUpdate persists the override and exits.
	ModeUpdate Mode = "update"
	// ModeStart persists the override, then runs the service until a signal.
	ModeStart Mode = "start"
	// ModeStop stops the subsystems, then persists the override.
	ModeStop Mode = "stop"
	// ModeShowConfig prints the effective configuration without writing it.
	ModeShowConfig Mode = "show-config"
)

// DefaultForceChip is the GPIO chip driver handed to the automation
// controller when none is given.
const DefaultForceChip = "BCM2XXX"

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug     bool
	LogFormat logging.Format

	// ConfigPath is the backing configuration file.
	ConfigPath string

	// ForceChip selects the GPIO chip driver of the automation controller.
	ForceChip string

	Mode Mode

	// Auto holds the auto keys set on the command line. Only these keys are
	// merged into the configuration.
	Auto config.Tree

	// Output is the format used by ModeShowConfig.
	Output formatting.OutputFormat

	// Stdout receives command output; LogOutput receives log records.
	Stdout    io.Writer
	LogOutput io.Writer

	// Collaborator factories. Nil selects the in-process implementations.
	NewAutomation subsystem.AutomationFactory
	NewDashboard  subsystem.DashboardFactory

	// Notify reports service state to the init system. Nil selects sd_notify.
	Notify func(state string) (bool, error)
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string, mode Mode) *Config {
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	return &Config{
		Debug:      debug,
		LogFormat:  logging.FormatText,
		ConfigPath: configPath,
		ForceChip:  DefaultForceChip,
		Mode:       mode,
		Auto:       config.Tree{},
		Output:     formatting.FormatJSON,
	}
}

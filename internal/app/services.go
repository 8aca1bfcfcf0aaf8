package app

import (
	"fmt"
	"path/filepath"

	"github.com/coreos/go-systemd/v22/daemon"

	"pironman5/internal/config"
	"pironman5/internal/orchestrator"
	"pironman5/internal/standalone"
	"pironman5/internal/subsystem"
	"pironman5/pkg/logging"
)

// Services holds the components built during bootstrap.
type Services struct {
	// Orchestrator owns the configuration store and both subsystems.
	Orchestrator *orchestrator.Orchestrator
}

// InitializeServices builds the orchestrator and its collaborators.
//
// In ModeStart and ModeUpdate the command-line override is merged and
// persisted before the subsystems are built. ModeStop saves it only after
// stopping, so there it is left to the caller.
//
// Unless cfg provides its own factories, the automation controller is the
// in-process standalone.Automation and the dashboard is an InboxDashboard
// watching the pending directory next to the configuration file.
func InitializeServices(cfg *Config) (*Services, error) {
	newAutomation := cfg.NewAutomation
	if newAutomation == nil {
		newAutomation = standalone.NewAutomation
	}
	newDashboard := cfg.NewDashboard
	if newDashboard == nil {
		newDashboard = standalone.InboxDashboardFactory(filepath.Dir(cfg.ConfigPath), 0)
	}

	notify := cfg.Notify
	if notify == nil {
		notify = sdNotify
	}

	var override config.Tree
	if cfg.Mode == ModeStart || cfg.Mode == ModeUpdate || cfg.Mode == "" {
		override = config.AutoOverride(cfg.Auto)
	}

	orch, err := orchestrator.New(orchestrator.Config{
		ConfigPath:        cfg.ConfigPath,
		Override:          override,
		ForceChip:         cfg.ForceChip,
		Peripherals:       subsystem.Peripherals,
		Device:            subsystem.Pironman5Device(),
		DashboardSettings: subsystem.DefaultDashboardSettings(),
		NewAutomation:     newAutomation,
		NewDashboard:      newDashboard,
		OnStarted:         func() { notifyState(notify, daemon.SdNotifyReady) },
		OnStopping:        func() { notifyState(notify, daemon.SdNotifyStopping) },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	return &Services{Orchestrator: orch}, nil
}

func sdNotify(state string) (bool, error) {
	return daemon.SdNotify(false, state)
}

// notifyState reports state to systemd. Outside a systemd unit this does
// nothing.
func notifyState(notify func(string) (bool, error), state string) {
	sent, err := notify(state)
	switch {
	case err != nil:
		logging.Warn("Bootstrap", "Failed to notify systemd (%s): %v", state, err)
	case sent:
		logging.Debug("Bootstrap", "Notified systemd: %s", state)
	}
}

package subsystem

import (
	"context"

	"pironman5/internal/config"
)

// State is the lifecycle state of a handle.
type State string

const (
	StateUnknown  State = "Unknown"
	StateStarting State = "Starting"
	StateRunning  State = "Running"
	StateStopping State = "Stopping"
	StateStopped  State = "Stopped"
	StateFailed   State = "Failed"
)

// Automation is the contract of the peripheral-automation controller
// (RGB strip, fans, OLED). Implementations live outside this package.
//
// Stop must be safe to call on an instance that was never started; it is
// used to release peripherals on "pironman5 stop".
type Automation interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	UpdateConfig(auto config.Tree) error
}

// Dashboard is the contract of the telemetry dashboard service. The
// dashboard reports settings changed through it by calling the registered
// callback from its own goroutine.
type Dashboard interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	SetOnConfigChanged(callback func(config.Tree))
}

// ConfigObserver is implemented by dashboards that track the effective
// configuration. ConfigUpdated is called after every update with a copy of
// the full tree.
type ConfigObserver interface {
	ConfigUpdated(tree config.Tree)
}

// AutomationParams is everything an automation controller is built from.
type AutomationParams struct {
	Auto        config.Tree
	Peripherals []string
	// ForceChip selects the GPIO chip driver instead of autodetection.
	ForceChip string
}

// DashboardParams is everything a dashboard service is built from.
type DashboardParams struct {
	Device   DeviceInfo
	Settings DashboardSettings
	Config   config.Tree
}

// AutomationFactory builds an Automation collaborator.
type AutomationFactory func(params AutomationParams) (Automation, error)

// DashboardFactory builds a Dashboard collaborator.
type DashboardFactory func(params DashboardParams) (Dashboard, error)

// Handle is the uniform, orchestrator-facing view of a subsystem.
type Handle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error

	GetName() string
	GetState() State
	GetLastError() error

	SetStateChangeCallback(callback StateChangeCallback)
}

// StateChangeCallback is called when a handle's state changes.
type StateChangeCallback func(name string, oldState, newState State, err error)

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"pironman5/internal/config"
	"pironman5/internal/subsystem"
	"pironman5/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of the orchestrator.
type State string

const (
	StateConstructed State = "Constructed"
	StateStarting    State = "Starting"
	StateRunning     State = "Running"
	StateFailed      State = "Failed"
	StateStopped     State = "Stopped"
)

const defaultChangeQueueSize = 16

// shutdownSignals trigger a graceful stop in Run.
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP}

// Config holds the configuration for the orchestrator. Zero values fall back
// to the Pironman 5 defaults, except the two factories which are required.
type Config struct {
	// ConfigPath is the backing configuration file.
	ConfigPath string

	// Override is merged over the loaded configuration and persisted before
	// the subsystems are built, so both see it from the start. A failed write
	// does not fail New; see OverrideErr.
	Override config.Tree

	// ForceChip is handed to the automation controller to select the GPIO
	// chip driver. It is never exported to the process environment.
	ForceChip string

	Peripherals       []string
	Device            subsystem.DeviceInfo
	DashboardSettings subsystem.DashboardSettings

	NewAutomation subsystem.AutomationFactory
	NewDashboard  subsystem.DashboardFactory

	// ChangeQueueSize bounds the number of dashboard changes waiting for the
	// control loop.
	ChangeQueueSize int

	// OnStarted is called by Run once both subsystems are up.
	OnStarted func()
	// OnStopping is called by Run when shutdown begins.
	OnStopping func()
}

// configChange is a change reported by the dashboard, waiting to be applied
// by the control loop.
type configChange struct {
	id   string
	tree config.Tree
}

// Orchestrator owns the configuration store and the two subsystem handles.
//
// Start, Stop and Run belong to a single control goroutine. Dashboard changes
// arrive on the dashboard's goroutine and are handed to the control loop
// through a bounded queue, so only the control goroutine writes the
// configuration file while Run is active.
type Orchestrator struct {
	cfg Config

	store      *config.Store
	automation *subsystem.AutomationHandle
	dashboard  *subsystem.DashboardHandle

	// updateMu keeps merge, persist and the automation push of one update
	// together, so automation never ends up with an older subtree than disk.
	updateMu sync.Mutex

	changes     chan configChange
	looping     atomic.Bool
	closing     chan struct{}
	closingOnce sync.Once

	stopGroup singleflight.Group

	// overrideErr is the persist error of Config.Override, if any.
	overrideErr error

	mu    sync.RWMutex
	state State

	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)
}

// New loads the configuration (defaults merged with the backing file) and
// builds both subsystem handles from it. A corrupt backing file is returned
// as an error wrapping config.ErrCorruptConfig.
func New(cfg Config) (*Orchestrator, error) {
	cfg = withDefaults(cfg)
	if cfg.NewAutomation == nil {
		return nil, errors.New("automation factory is required")
	}
	if cfg.NewDashboard == nil {
		return nil, errors.New("dashboard factory is required")
	}

	store, err := config.NewStore(cfg.ConfigPath, config.Defaults())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	tree := store.Current()

	var overrideErr error
	if len(cfg.Override) > 0 {
		tree, overrideErr = store.Update(cfg.Override)
		if overrideErr != nil {
			logging.Error("Orchestrator", overrideErr, "Failed to persist configuration override, keeping in-memory state")
		}
	}

	automation, err := subsystem.NewAutomationHandle(cfg.NewAutomation, subsystem.AutomationParams{
		Auto:        config.ReadAuto(tree),
		Peripherals: cfg.Peripherals,
		ForceChip:   cfg.ForceChip,
	})
	if err != nil {
		return nil, err
	}

	dashboard, err := subsystem.NewDashboardHandle(cfg.NewDashboard, subsystem.DashboardParams{
		Device:   cfg.Device,
		Settings: cfg.DashboardSettings,
		Config:   tree,
	})
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		cfg:         cfg,
		store:       store,
		automation:  automation,
		dashboard:   dashboard,
		changes:     make(chan configChange, cfg.ChangeQueueSize),
		closing:     make(chan struct{}),
		overrideErr: overrideErr,
		state:       StateConstructed,
		notify:      signal.Notify,
		stopNotify:  signal.Stop,
	}

	automation.SetStateChangeCallback(o.logStateChange)
	dashboard.SetStateChangeCallback(o.logStateChange)
	dashboard.SetOnConfigChanged(o.onConfigChanged)

	logging.Info("Orchestrator", "Configuration resolved from %s", cfg.ConfigPath)
	return o, nil
}

func withDefaults(cfg Config) Config {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = config.DefaultConfigPath
	}
	if cfg.Peripherals == nil {
		cfg.Peripherals = append([]string(nil), subsystem.Peripherals...)
	}
	if cfg.Device.ID == "" {
		cfg.Device = subsystem.Pironman5Device()
	}
	if cfg.DashboardSettings == (subsystem.DashboardSettings{}) {
		cfg.DashboardSettings = subsystem.DefaultDashboardSettings()
	}
	if cfg.ChangeQueueSize <= 0 {
		cfg.ChangeQueueSize = defaultChangeQueueSize
	}
	return cfg
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Config returns a copy of the effective configuration tree.
func (o *Orchestrator) Config() config.Tree {
	return o.store.Current()
}

// Auto returns a copy of the effective auto subtree.
func (o *Orchestrator) Auto() config.Tree {
	return config.ReadAuto(o.store.Current())
}

// OverrideErr returns the error from persisting Config.Override in New. The
// override is in effect either way.
func (o *Orchestrator) OverrideErr() error {
	return o.overrideErr
}

// handles lists the subsystems in start order.
func (o *Orchestrator) handles() []subsystem.Handle {
	return []subsystem.Handle{o.automation, o.dashboard}
}

// ConfigPath returns the backing file path.
func (o *Orchestrator) ConfigPath() string {
	return o.store.Path()
}

// Start starts the automation controller, then the dashboard. The dashboard
// may report changes as soon as it starts, so automation has to be live
// first. If automation fails to start the dashboard is not started and the
// orchestrator is left Failed; Stop still releases both.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateConstructed {
		state := o.state
		o.mu.Unlock()
		return fmt.Errorf("cannot start orchestrator in state %s", state)
	}
	o.state = StateStarting
	o.mu.Unlock()

	for _, h := range o.handles() {
		if err := h.Start(ctx); err != nil {
			logging.Error("Orchestrator", err, "Failed to start %s", h.GetName())
			o.finishStart(StateFailed)
			return err
		}
		logging.Info("Orchestrator", "%s started", h.GetName())
	}

	o.finishStart(StateRunning)
	return nil
}

// finishStart leaves Starting for state, unless a concurrent Stop got there
// first.
func (o *Orchestrator) finishStart(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateStarting {
		o.state = state
	}
}

// Stop stops both subsystems. Both are always attempted; their errors are
// joined. Stop is valid from any state but Stopped. Concurrent calls share
// one stop, and calls after the orchestrator has stopped do nothing.
func (o *Orchestrator) Stop(ctx context.Context) error {
	_, err, _ := o.stopGroup.Do("stop", func() (interface{}, error) {
		if o.State() == StateStopped {
			return nil, nil
		}

		logging.Info("Orchestrator", "Stopping subsystems")
		// Unblock dashboard callbacks waiting on a full queue before the
		// dashboard is asked to stop.
		o.closingOnce.Do(func() { close(o.closing) })

		var errs []error
		for _, h := range o.handles() {
			if err := h.Stop(ctx); err != nil {
				logging.Error("Orchestrator", err, "Failed to stop %s", h.GetName())
				errs = append(errs, err)
			}
		}

		o.setState(StateStopped)

		logging.Info("Orchestrator", "Subsystems stopped")
		return nil, errors.Join(errs...)
	})
	return err
}

func (o *Orchestrator) setState(state State) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()
}

// UpdateConfig merges partial into the effective configuration, persists it
// and pushes the new auto subtree to the automation controller and the full
// tree to the dashboard. It may be called in any state.
//
// A persist failure is logged and returned, but does not stop the update:
// the in-memory tree and the automation controller still get the new values.
func (o *Orchestrator) UpdateConfig(partial config.Tree) error {
	o.updateMu.Lock()
	defer o.updateMu.Unlock()

	updated, persistErr := o.store.Update(partial)
	if persistErr != nil {
		logging.Error("Orchestrator", persistErr, "Failed to persist configuration, keeping in-memory state")
	}

	o.dashboard.ConfigUpdated(updated)

	if err := o.automation.UpdateConfig(config.ReadAuto(updated)); err != nil {
		logging.Error("Orchestrator", err, "Failed to push configuration to %s", o.automation.GetName())
		return errors.Join(persistErr, err)
	}
	return persistErr
}

// Run starts the subsystems and supervises them until ctx is cancelled or a
// shutdown signal (SIGINT, SIGTERM, SIGHUP) arrives, then stops them once.
// While running it applies dashboard changes one at a time. Further signals
// during shutdown are ignored.
func (o *Orchestrator) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 2)
	o.notify(sigCh, shutdownSignals...)
	defer o.stopNotify(sigCh)

	o.looping.Store(true)
	defer o.looping.Store(false)

	if err := o.Start(ctx); err != nil {
		if stopErr := o.Stop(context.WithoutCancel(ctx)); stopErr != nil {
			logging.Error("Orchestrator", stopErr, "Cleanup after failed start was incomplete")
		}
		return err
	}

	if o.cfg.OnStarted != nil {
		o.cfg.OnStarted()
	}

	for {
		select {
		case sig := <-sigCh:
			logging.Info("Orchestrator", "Received %s signal. Cleaning up...", sig)
			return o.shutdown(ctx)
		case <-ctx.Done():
			logging.Info("Orchestrator", "Context cancelled. Cleaning up...")
			return o.shutdown(ctx)
		case change := <-o.changes:
			o.apply(change)
		}
	}
}

// shutdown applies changes already queued, then stops the subsystems.
func (o *Orchestrator) shutdown(ctx context.Context) error {
	if o.cfg.OnStopping != nil {
		o.cfg.OnStopping()
	}

	o.drain(o.apply)
	err := o.Stop(context.WithoutCancel(ctx))
	o.drain(func(change configChange) {
		logging.Warn("Orchestrator", "Dropping config change %s received during shutdown", change.id)
	})
	return err
}

// drain hands every queued change to fn without blocking.
func (o *Orchestrator) drain(fn func(configChange)) {
	for {
		select {
		case change := <-o.changes:
			fn(change)
		default:
			return
		}
	}
}

// onConfigChanged is registered with the dashboard and runs on its goroutine.
func (o *Orchestrator) onConfigChanged(tree config.Tree) {
	change := configChange{id: uuid.NewString(), tree: tree}
	logging.Debug("Orchestrator", "Dashboard reported config change %s", change.id)

	if !o.looping.Load() {
		o.apply(change)
		return
	}

	select {
	case o.changes <- change:
	case <-o.closing:
		logging.Warn("Orchestrator", "Dropping config change %s received during shutdown", change.id)
	}
}

func (o *Orchestrator) apply(change configChange) {
	logging.Info("Orchestrator", "Applying config change %s", change.id)
	if err := o.UpdateConfig(change.tree); err != nil {
		logging.Warn("Orchestrator", "Config change %s applied with errors: %v", change.id, err)
	}
}

func (o *Orchestrator) logStateChange(name string, oldState, newState subsystem.State, err error) {
	if err != nil {
		logging.Debug("Orchestrator", "%s state changed: %s -> %s (error: %v)", name, oldState, newState, err)
		return
	}
	logging.Debug("Orchestrator", "%s state changed: %s -> %s", name, oldState, newState)
}

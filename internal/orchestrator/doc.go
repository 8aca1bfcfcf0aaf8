// Package orchestrator coordinates the two long-running subsystems of the
// Pironman 5 service: the automation controller driving the case peripherals
// and the dashboard that lets users edit settings.
//
// # Lifecycle
//
// An Orchestrator moves through these states:
//
//   - Constructed: configuration resolved, both subsystem handles built
//   - Starting: Start in progress
//   - Running: automation started, then dashboard started
//   - Failed: a subsystem failed to start
//   - Stopped: both subsystems stopped (best effort), terminal
//
// Stop is accepted from every state but Stopped, including Constructed, which is how the stop command releases
// peripherals held by a previous run. Repeated or concurrent Stop calls are
// collapsed into one.
//
// # Configuration Flow
//
// The effective configuration is the built-in defaults merged with the
// backing file and with Config.Override, which New persists before building
// the subsystems. Every later update is merged into it, written back
// atomically, and the result is pushed to both subsystems: the auto subtree
// to the automation controller, the full tree to a dashboard that implements
// subsystem.ConfigObserver.
//
// While Run is active, dashboard changes are queued and applied by the
// control loop, so updates never interleave with shutdown:
//
//	orch, err := orchestrator.New(orchestrator.Config{
//	    ConfigPath:    "/opt/pironman5/config.json",
//	    NewAutomation: newAutomation,
//	    NewDashboard:  newDashboard,
//	})
//	if err != nil {
//	    return err
//	}
//	return orch.Run(ctx)
//
// # Signals
//
// Run installs handlers for SIGINT, SIGTERM and SIGHUP. The first signal
// triggers a graceful stop; further signals during shutdown are ignored.
package orchestrator

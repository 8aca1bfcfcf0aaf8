// Package subsystem wraps the two long-running pironman5 collaborators, the
// peripheral-automation controller and the telemetry dashboard, behind
// handles with a common lifecycle.
//
// The collaborators themselves are external: this package only defines the
// Automation and Dashboard contracts and the factories that build them. A
// handle adds state tracking (Unknown, Starting, Running, Stopping, Stopped,
// Failed) and serializes calls into its collaborator.
//
// Lifecycle rules:
//   - Start is called once per handle; a second call is not guarded.
//   - Stop may be called in any state. It asks the collaborator to stop even
//     if Start never ran, and is a no-op once the handle is Stopped.
//   - AutomationHandle.UpdateConfig forwards a new auto subtree in any state.
//   - DashboardHandle.SetOnConfigChanged registers the change callback. The
//     dashboard invokes it from its own goroutine.
package subsystem

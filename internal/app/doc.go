// Package app provides application bootstrap and mode execution for
// pironman5.
//
// The cmd package translates command-line flags into a Config and hands it
// to NewApplication, which sets up logging and builds the orchestrator.
// Application.Run then executes one of four modes:
//
//   - ModeShowConfig: print defaults merged with the backing file
//   - ModeUpdate: merge the command-line override into the backing file while
//     building the services, then exit
//   - ModeStop: stop both subsystems, then save the override
//   - ModeStart: save the override while building the services, then run
//     until SIGINT, SIGTERM or SIGHUP
//
// When started by systemd with Type=notify, the service reports READY=1 once
// both subsystems are running and STOPPING=1 when shutdown begins.
package app

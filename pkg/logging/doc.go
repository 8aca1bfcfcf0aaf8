// Package logging provides the structured logger shared by every pironman5
// subsystem.
//
// It is a thin layer over log/slog. Each record carries a "subsystem" attribute
// so journald or any log shipper can filter on it, and errors are attached as
// an "error" attribute rather than formatted into the message.
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stdout)
//
//	logging.Info("Orchestrator", "Started %d subsystems", 2)
//	logging.Debug("ConfigStore", "Loaded configuration from %s", path)
//	logging.Warn("Dashboard", "Ignoring pending change %s", name)
//	logging.Error("ConfigStore", err, "Failed to persist configuration")
//
// Use FormatJSON when running under systemd with a JSON-aware journal
// collector.
//
// Subsystem names in use: Bootstrap, CLI, ConfigStore, Orchestrator,
// Automation, Dashboard.
//
// The package is safe for concurrent use. Messages logged before Init are
// dropped unless they are warnings or errors, which go to stderr.
package logging

// Package standalone provides in-process implementations of the automation
// controller and dashboard contracts, so the service runs without the
// hardware driver and web dashboard packages installed.
//
// Automation decodes and validates the auto subtree and logs what it would
// drive. InboxDashboard accepts settings changes as JSON documents dropped
// into a pending directory next to the configuration file:
//
//	echo '{"auto": {"rgb_style": "breathing"}}' > /opt/pironman5/pending/style.json
package standalone

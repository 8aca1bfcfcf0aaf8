package subsystem

import (
	"context"
	"errors"
	"fmt"

	"pironman5/internal/config"
)

// DashboardName is the handle name of the dashboard service.
const DashboardName = "Dashboard"

var _ Handle = (*DashboardHandle)(nil)

// DashboardHandle controls the telemetry dashboard service.
type DashboardHandle struct {
	*BaseHandle

	dashboard Dashboard
	device    DeviceInfo
}

// NewDashboardHandle builds the collaborator through factory from the device
// metadata, the dashboard settings and the full configuration tree.
func NewDashboardHandle(factory DashboardFactory, params DashboardParams) (*DashboardHandle, error) {
	if factory == nil {
		return nil, errors.New("dashboard factory is required")
	}

	dashboard, err := factory(DashboardParams{
		Device:   params.Device.clone(),
		Settings: params.Settings,
		Config:   params.Config.Clone(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", DashboardName, err)
	}

	return &DashboardHandle{
		BaseHandle: NewBaseHandle(DashboardName),
		dashboard:  dashboard,
		device:     params.Device.clone(),
	}, nil
}

// Start begins serving.
func (h *DashboardHandle) Start(ctx context.Context) error {
	return h.start(ctx, h.dashboard.Start)
}

// Stop halts the service and releases its resources.
func (h *DashboardHandle) Stop(ctx context.Context) error {
	return h.stop(ctx, h.dashboard.Stop)
}

// SetOnConfigChanged registers the single callback invoked when settings are
// changed through the dashboard. A later call replaces the earlier callback.
// The callback runs on the dashboard's goroutine and receives its own copy
// of the change.
func (h *DashboardHandle) SetOnConfigChanged(callback func(config.Tree)) {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	if callback == nil {
		h.dashboard.SetOnConfigChanged(nil)
		return
	}
	h.dashboard.SetOnConfigChanged(func(change config.Tree) {
		callback(change.Clone())
	})
}

// ConfigUpdated passes tree to the dashboard if it is a ConfigObserver. It
// does not take the operation lock, since it is reached from inside the
// dashboard's own change callback.
func (h *DashboardHandle) ConfigUpdated(tree config.Tree) {
	if observer, ok := h.dashboard.(ConfigObserver); ok {
		observer.ConfigUpdated(tree.Clone())
	}
}

// Device returns the device metadata the dashboard was built with.
func (h *DashboardHandle) Device() DeviceInfo {
	return h.device.clone()
}

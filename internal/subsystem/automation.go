package subsystem

import (
	"context"
	"errors"
	"fmt"

	"pironman5/internal/config"
)

// AutomationName is the handle name of the automation controller.
const AutomationName = "Automation"

var _ Handle = (*AutomationHandle)(nil)

// AutomationHandle controls the peripheral-automation controller.
type AutomationHandle struct {
	*BaseHandle

	automation  Automation
	auto        config.Tree
	peripherals []string
}

// NewAutomationHandle builds the collaborator through factory from the auto
// subtree and peripheral list.
func NewAutomationHandle(factory AutomationFactory, params AutomationParams) (*AutomationHandle, error) {
	if factory == nil {
		return nil, errors.New("automation factory is required")
	}

	auto := params.Auto.Clone()
	if auto == nil {
		auto = config.Tree{}
	}
	peripherals := append([]string(nil), params.Peripherals...)

	automation, err := factory(AutomationParams{
		Auto:        auto.Clone(),
		Peripherals: append([]string(nil), peripherals...),
		ForceChip:   params.ForceChip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", AutomationName, err)
	}

	return &AutomationHandle{
		BaseHandle:  NewBaseHandle(AutomationName),
		automation:  automation,
		auto:        auto,
		peripherals: peripherals,
	}, nil
}

// Start begins device polling.
func (h *AutomationHandle) Start(ctx context.Context) error {
	return h.start(ctx, h.automation.Start)
}

// Stop halts the controller and releases its peripherals.
func (h *AutomationHandle) Stop(ctx context.Context) error {
	return h.stop(ctx, h.automation.Stop)
}

// UpdateConfig pushes a new auto subtree to the controller, in any state.
func (h *AutomationHandle) UpdateConfig(auto config.Tree) error {
	h.opMu.Lock()
	defer h.opMu.Unlock()

	h.auto = auto.Clone()
	if err := h.automation.UpdateConfig(auto.Clone()); err != nil {
		return fmt.Errorf("failed to update %s config: %w", AutomationName, err)
	}
	return nil
}

// Auto returns a copy of the last auto subtree handed to the controller.
func (h *AutomationHandle) Auto() config.Tree {
	h.opMu.Lock()
	defer h.opMu.Unlock()
	return h.auto.Clone()
}

// Peripherals returns the peripheral names the controller was built with.
func (h *AutomationHandle) Peripherals() []string {
	return append([]string(nil), h.peripherals...)
}

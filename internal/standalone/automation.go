package standalone

import (
	"context"
	"fmt"
	"sync"

	"pironman5/internal/config"
	"pironman5/internal/subsystem"
	"pironman5/pkg/logging"
)

// Automation is an in-process automation controller. It keeps the current
// settings and reports every transition in the log instead of driving
// hardware.
type Automation struct {
	mu sync.Mutex

	auto        config.Tree
	settings    AutoSettings
	peripherals []string
	forceChip   string
	running     bool
}

// NewAutomation is a subsystem.AutomationFactory. A stored subtree that does
// not decode is logged and replaced by the defaults, so a bad value in the
// file never keeps the service from stopping or starting.
func NewAutomation(params subsystem.AutomationParams) (subsystem.Automation, error) {
	settings, err := DecodeAutoSettings(params.Auto)
	if err != nil {
		logging.Warn("Automation", "Ignoring stored settings: %v", err)
		if settings, err = DecodeAutoSettings(config.DefaultAuto()); err != nil {
			return nil, err
		}
	}
	return &Automation{
		auto:        params.Auto.Clone(),
		settings:    settings,
		peripherals: append([]string(nil), params.Peripherals...),
		forceChip:   params.ForceChip,
	}, nil
}

// Start marks the controller running.
func (a *Automation) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("automation already running")
	}
	a.running = true

	logging.Info("Automation", "Started on chip %s with peripherals %v", a.forceChip, a.peripherals)
	a.logSettings()
	return nil
}

// Stop releases the peripherals. It succeeds whether or not Start ran.
func (a *Automation) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.running = false
	logging.Info("Automation", "Released peripherals %v", a.peripherals)
	return nil
}

// UpdateConfig replaces the settings. A subtree that does not decode is
// rejected and the previous settings stay in effect.
func (a *Automation) UpdateConfig(auto config.Tree) error {
	settings, err := DecodeAutoSettings(auto)
	if err != nil {
		logging.Warn("Automation", "Rejected settings update: %v", err)
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.auto = auto.Clone()
	a.settings = settings
	a.logSettings()
	return nil
}

// Settings returns the settings in effect.
func (a *Automation) Settings() AutoSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Auto returns a copy of the last accepted auto subtree.
func (a *Automation) Auto() config.Tree {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.auto.Clone()
}

// Running reports whether Start was called without a later Stop.
func (a *Automation) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ForceChip returns the GPIO chip the controller was built for.
func (a *Automation) ForceChip() string {
	return a.forceChip
}

func (a *Automation) logSettings() {
	s := a.settings
	logging.Info("Automation", "RGB enabled=%t style=%s color=%s brightness=%d speed=%d leds=%d",
		s.RGBEnable, s.RGBStyle, s.RGBColor, s.RGBBrightness, s.RGBSpeed, s.RGBLEDCount)
	logging.Info("Automation", "Fan mode=%s pin=%d, temperature unit %s",
		s.FanModeName(), s.GPIOFanPin, s.TemperatureUnit)
}

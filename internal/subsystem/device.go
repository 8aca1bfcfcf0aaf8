package subsystem

import "time"

// Peripherals are the peripherals fitted to a Pironman 5 case.
var Peripherals = []string{
	"ws2812",
	"oled",
	"gpio_fan",
	"pwm_fan",
}

// DeviceInfo identifies the device to the dashboard.
type DeviceInfo struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Peripherals []string `json:"peripherals"`
}

func (d DeviceInfo) clone() DeviceInfo {
	d.Peripherals = append([]string(nil), d.Peripherals...)
	return d
}

// DashboardSettings are the fixed settings of the dashboard service.
type DashboardSettings struct {
	// Database is the storage namespace for collected samples.
	Database string `json:"database"`
	// Interval is the sampling interval in whole seconds.
	Interval int `json:"interval"`
	// SPC enables the SPC power-management panel.
	SPC bool `json:"spc"`
}

// SampleInterval returns Interval as a duration.
func (s DashboardSettings) SampleInterval() time.Duration {
	return time.Duration(s.Interval) * time.Second
}

// Pironman5Device returns the device metadata of a Pironman 5.
func Pironman5Device() DeviceInfo {
	return DeviceInfo{
		Name:        "Pironman 5",
		ID:          "pironman5",
		Peripherals: append([]string(nil), Peripherals...),
	}
}

// DefaultDashboardSettings returns the dashboard settings of a Pironman 5.
func DefaultDashboardSettings() DashboardSettings {
	return DashboardSettings{
		Database: "pironman5",
		Interval: 1,
		SPC:      false,
	}
}

package standalone

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"

	"pironman5/internal/config"
)

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// AutoSettings is the typed view of the auto subtree. Keys the controller
// does not know are ignored.
type AutoSettings struct {
	RGBColor        string `json:"rgb_color"`
	RGBBrightness   int    `json:"rgb_brightness"`
	RGBStyle        string `json:"rgb_style"`
	RGBSpeed        int    `json:"rgb_speed"`
	RGBEnable       bool   `json:"rgb_enable"`
	RGBLEDCount     int    `json:"rgb_led_count"`
	TemperatureUnit string `json:"temperature_unit"`
	GPIOFanMode     *int   `json:"gpio_fan_mode,omitempty"`
	GPIOFanPin      int    `json:"gpio_fan_pin"`
}

// DecodeAutoSettings converts an auto subtree into AutoSettings and checks
// the values the controller depends on.
func DecodeAutoSettings(auto config.Tree) (AutoSettings, error) {
	var settings AutoSettings

	data, err := json.Marshal(auto.ToAny())
	if err != nil {
		return settings, fmt.Errorf("failed to encode auto settings: %w", err)
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to decode auto settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// Validate checks ranges and enumerations. Empty strings mean the key was
// absent and are accepted.
func (s AutoSettings) Validate() error {
	if s.RGBColor != "" && !hexColor.MatchString(s.RGBColor) {
		return fmt.Errorf("invalid %s %q: expected a hex color like #ff00ff", config.KeyRGBColor, s.RGBColor)
	}
	if s.RGBBrightness < 0 || s.RGBBrightness > 100 {
		return fmt.Errorf("invalid %s %d: must be between 0 and 100", config.KeyRGBBrightness, s.RGBBrightness)
	}
	if s.RGBStyle != "" && !slices.Contains(config.RGBStyles, s.RGBStyle) {
		return fmt.Errorf("invalid %s %q", config.KeyRGBStyle, s.RGBStyle)
	}
	if s.RGBSpeed < 0 || s.RGBSpeed > 100 {
		return fmt.Errorf("invalid %s %d: must be between 0 and 100", config.KeyRGBSpeed, s.RGBSpeed)
	}
	if s.RGBLEDCount < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", config.KeyRGBLEDCount, s.RGBLEDCount)
	}
	if s.TemperatureUnit != "" && !slices.Contains(config.TemperatureUnits, s.TemperatureUnit) {
		return fmt.Errorf("invalid %s %q", config.KeyTemperatureUnit, s.TemperatureUnit)
	}
	if s.GPIOFanMode != nil && (*s.GPIOFanMode < 0 || *s.GPIOFanMode >= len(config.GPIOFanModes)) {
		return fmt.Errorf("invalid %s %d: must be between 0 and %d", config.KeyGPIOFanMode, *s.GPIOFanMode, len(config.GPIOFanModes)-1)
	}
	return nil
}

// FanModeName returns the name of the configured GPIO fan mode, or "auto"
// when none is set.
func (s AutoSettings) FanModeName() string {
	if s.GPIOFanMode == nil {
		return "auto"
	}
	return config.GPIOFanModes[*s.GPIOFanMode]
}

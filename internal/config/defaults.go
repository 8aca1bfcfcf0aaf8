package config

// Keys of the configuration tree.
const (
	KeyAuto = "auto"

	KeyRGBColor        = "rgb_color"
	KeyRGBBrightness   = "rgb_brightness"
	KeyRGBStyle        = "rgb_style"
	KeyRGBSpeed        = "rgb_speed"
	KeyRGBEnable       = "rgb_enable"
	KeyRGBLEDCount     = "rgb_led_count"
	KeyTemperatureUnit = "temperature_unit"
	KeyGPIOFanMode     = "gpio_fan_mode"
	KeyGPIOFanPin      = "gpio_fan_pin"
)

// AutoKeys lists the keys of the auto subtree that can be set from the
// command line, in help order.
var AutoKeys = []string{
	KeyRGBColor,
	KeyRGBBrightness,
	KeyRGBStyle,
	KeyRGBSpeed,
	KeyRGBEnable,
	KeyRGBLEDCount,
	KeyTemperatureUnit,
	KeyGPIOFanMode,
	KeyGPIOFanPin,
}

// DefaultAuto returns the safe defaults for the auto subtree. Each call
// returns a fresh tree. gpio_fan_mode has no default; the automation
// controller picks its own when the key is absent.
func DefaultAuto() Tree {
	return Tree{
		KeyTemperatureUnit: String("C"),
		KeyRGBLEDCount:     Int(4),
		KeyRGBEnable:       Bool(true),
		KeyRGBColor:        String("#ff00ff"),
		KeyRGBBrightness:   Int(100),
		KeyRGBStyle:        String("rainbow"),
		KeyRGBSpeed:        Int(0),
		KeyGPIOFanPin:      Int(6),
	}
}

// Defaults returns the default layer of the configuration tree.
func Defaults() Tree {
	return Tree{KeyAuto: DefaultAuto()}
}

// AutoOverride wraps a partial auto subtree as a full-tree override layer.
func AutoOverride(auto Tree) Tree {
	if auto == nil {
		auto = Tree{}
	}
	return Tree{KeyAuto: auto}
}

// RGBStyles are the accepted values of rgb_style.
var RGBStyles = []string{
	"solid",
	"breathing",
	"flow",
	"flow_reverse",
	"rainbow",
	"rainbow_reverse",
	"hue_cycle",
}

// TemperatureUnits are the accepted values of temperature_unit.
var TemperatureUnits = []string{"C", "F"}

// GPIOFanModes names the gpio_fan_mode values; the mode is the index.
var GPIOFanModes = []string{"Always On", "Performance", "Cool", "Balanced", "Quiet"}

package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"pironman5/internal/config"
)

const commandArg = "command"

// rawValue is a pflag.Value that keeps the text as given. Parsing happens in
// parseAutoFlag so every failure becomes an InvalidFlagValueError.
type rawValue struct {
	typ string
	val string
}

func (v *rawValue) String() string     { return v.val }
func (v *rawValue) Set(s string) error { v.val = s; return nil }
func (v *rawValue) Type() string       { return v.typ }

// autoFlag describes the command-line flag of one auto key.
type autoFlag struct {
	key   string
	typ   string
	usage string
	parse func(string) (config.Value, string)
}

var autoFlags = []autoFlag{
	{config.KeyRGBColor, "string", "RGB color as a hex code, e.g. #ff00ff", parseColor},
	{config.KeyRGBBrightness, "int", "RGB brightness, 0-100", parseIntRange(0, 100)},
	{config.KeyRGBStyle, "string", "RGB style, one of " + strings.Join(config.RGBStyles, ", "), parseChoice(config.RGBStyles)},
	{config.KeyRGBSpeed, "int", "RGB speed, 0-100", parseIntRange(0, 100)},
	{config.KeyRGBEnable, "true|false", "RGB enable", parseBool},
	{config.KeyRGBLEDCount, "int", "RGB LED count", parseIntRange(0, -1)},
	{config.KeyTemperatureUnit, "string", "Temperature unit, C or F", parseChoice(config.TemperatureUnits)},
	{config.KeyGPIOFanMode, "int", fmt.Sprintf("GPIO fan mode, 0-%d, %s", len(config.GPIOFanModes)-1, fanModeList()), parseIntRange(0, len(config.GPIOFanModes)-1)},
	{config.KeyGPIOFanPin, "int", "GPIO fan pin", parseIntRange(0, -1)},
}

// flagName maps an auto key to its flag: rgb_led_count -> rgb-led-count.
func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func addAutoFlags(fs *pflag.FlagSet) {
	for _, f := range autoFlags {
		fs.Var(&rawValue{typ: f.typ}, flagName(f.key), f.usage)
	}
}

// buildAutoOverride returns the auto keys of the flags set on the command
// line. Flags left unset contribute nothing.
func buildAutoOverride(fs *pflag.FlagSet) (config.Tree, error) {
	auto := config.Tree{}
	for _, f := range autoFlags {
		flag := fs.Lookup(flagName(f.key))
		if flag == nil || !flag.Changed {
			continue
		}
		raw := flag.Value.String()
		value, reason := f.parse(raw)
		if reason != "" {
			return nil, &InvalidFlagValueError{Flag: flag.Name, Value: raw, Reason: reason}
		}
		auto[f.key] = value
	}
	return auto, nil
}

func parseColor(s string) (config.Value, string) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return nil, "expected a hex color like #ff00ff"
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return nil, "expected a hex color like #ff00ff"
	}
	return config.String(s), ""
}

// parseIntRange accepts integers in [lo, hi]; hi < lo means no upper bound.
func parseIntRange(lo, hi int) func(string) (config.Value, string) {
	return func(s string) (config.Value, string) {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, "expected an integer"
		}
		if n < int64(lo) {
			return nil, fmt.Sprintf("must be at least %d", lo)
		}
		if hi >= lo && n > int64(hi) {
			return nil, fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return config.Int(n), ""
	}
}

func parseChoice(choices []string) func(string) (config.Value, string) {
	return func(s string) (config.Value, string) {
		if !slices.Contains(choices, s) {
			return nil, "expected one of " + strings.Join(choices, ", ")
		}
		return config.String(s), ""
	}
}

func parseBool(s string) (config.Value, string) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, "expected true or false"
	}
	return config.Bool(b), ""
}

func fanModeList() string {
	modes := make([]string, len(config.GPIOFanModes))
	for i, name := range config.GPIOFanModes {
		modes[i] = fmt.Sprintf("%d: %s", i, name)
	}
	return strings.Join(modes, ", ")
}

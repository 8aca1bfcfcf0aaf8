package cmd

import (
	"testing"

	"github.com/spf13/pflag"

	"pironman5/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAutoFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addAutoFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestBuildAutoOverride_OnlyChangedFlags(t *testing.T) {
	fs := newAutoFlagSet(t, "--rgb-style", "hue_cycle", "--gpio-fan-pin", "18")

	auto, err := buildAutoOverride(fs)
	require.NoError(t, err)
	assert.Equal(t, config.Tree{
		config.KeyRGBStyle:   config.String("hue_cycle"),
		config.KeyGPIOFanPin: config.Int(18),
	}, auto)
}

func TestBuildAutoOverride_Empty(t *testing.T) {
	auto, err := buildAutoOverride(newAutoFlagSet(t))
	require.NoError(t, err)
	assert.Empty(t, auto)
	assert.NotNil(t, auto)
}

func TestBuildAutoOverride_AllKeys(t *testing.T) {
	fs := newAutoFlagSet(t,
		"--rgb-color", "#00ff00",
		"--rgb-brightness", "0",
		"--rgb-style", "solid",
		"--rgb-speed", "100",
		"--rgb-enable", "TRUE",
		"--rgb-led-count", "8",
		"--temperature-unit", "F",
		"--gpio-fan-mode", "0",
		"--gpio-fan-pin", "6",
	)

	auto, err := buildAutoOverride(fs)
	require.NoError(t, err)
	assert.Len(t, auto, len(config.AutoKeys))
	assert.Equal(t, config.Bool(true), auto[config.KeyRGBEnable])
	assert.Equal(t, config.Int(0), auto[config.KeyGPIOFanMode])
}

func TestAutoFlagsCoverEveryKey(t *testing.T) {
	var keys []string
	for _, f := range autoFlags {
		keys = append(keys, f.key)
	}
	assert.Equal(t, config.AutoKeys, keys)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "rgb-led-count", flagName(config.KeyRGBLEDCount))
	assert.Equal(t, "temperature-unit", flagName(config.KeyTemperatureUnit))
}

func TestInvalidFlagValueError_Message(t *testing.T) {
	err := &InvalidFlagValueError{Flag: "rgb-brightness", Value: "abc", Reason: "expected an integer"}
	assert.Equal(t, `invalid value "abc" for --rgb-brightness: expected an integer`, err.Error())

	err = &InvalidFlagValueError{Flag: commandArg, Value: "restart", Reason: "expected start or stop"}
	assert.Equal(t, `invalid command "restart": expected start or stop`, err.Error())
}

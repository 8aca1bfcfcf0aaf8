package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServices_Standalone(t *testing.T) {
	cfg := NewConfig(false, filepath.Join(t.TempDir(), "config.json"), ModeUpdate)

	services, err := InitializeServices(cfg)
	require.NoError(t, err)
	require.NotNil(t, services.Orchestrator)
	assert.Equal(t, cfg.ConfigPath, services.Orchestrator.ConfigPath())
}

func TestNotifyState(t *testing.T) {
	var got []string
	notifyState(func(state string) (bool, error) {
		got = append(got, state)
		return false, nil
	}, "READY=1")
	notifyState(func(state string) (bool, error) {
		got = append(got, state)
		return false, errors.New("connection refused")
	}, "STOPPING=1")

	assert.Equal(t, []string{"READY=1", "STOPPING=1"}, got)
}

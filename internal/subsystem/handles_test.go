package subsystem

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pironman5/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAutomation struct {
	mu        sync.Mutex
	started   int
	stopped   int
	updates   []config.Tree
	startErr  error
	stopErr   error
	updateErr error
}

func (f *fakeAutomation) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return f.startErr
}

func (f *fakeAutomation) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return f.stopErr
}

func (f *fakeAutomation) UpdateConfig(auto config.Tree) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, auto)
	return f.updateErr
}

type fakeDashboard struct {
	mu       sync.Mutex
	started  int
	stopped  int
	callback func(config.Tree)
}

func (f *fakeDashboard) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return nil
}

func (f *fakeDashboard) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return nil
}

func (f *fakeDashboard) SetOnConfigChanged(callback func(config.Tree)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = callback
}

func (f *fakeDashboard) report(change config.Tree) {
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	if cb != nil {
		cb(change)
	}
}

func TestNewAutomationHandle_PassesParams(t *testing.T) {
	var got AutomationParams
	auto := config.DefaultAuto()

	handle, err := NewAutomationHandle(func(p AutomationParams) (Automation, error) {
		got = p
		return &fakeAutomation{}, nil
	}, AutomationParams{Auto: auto, Peripherals: Peripherals, ForceChip: "BCM2XXX"})
	require.NoError(t, err)

	assert.Equal(t, auto, got.Auto)
	assert.Equal(t, Peripherals, got.Peripherals)
	assert.Equal(t, "BCM2XXX", got.ForceChip)
	assert.Equal(t, AutomationName, handle.GetName())
	assert.Equal(t, Peripherals, handle.Peripherals())

	// The handle owns its copy.
	auto[config.KeyRGBSpeed] = config.Int(99)
	assert.Equal(t, config.Int(0), handle.Auto()[config.KeyRGBSpeed])
}

func TestNewAutomationHandle_FactoryError(t *testing.T) {
	factoryErr := errors.New("gpio chip not found")
	_, err := NewAutomationHandle(func(AutomationParams) (Automation, error) {
		return nil, factoryErr
	}, AutomationParams{})
	assert.ErrorIs(t, err, factoryErr)

	_, err = NewAutomationHandle(nil, AutomationParams{})
	assert.Error(t, err)
}

func TestAutomationHandle_Lifecycle(t *testing.T) {
	fake := &fakeAutomation{}
	handle, err := NewAutomationHandle(func(AutomationParams) (Automation, error) { return fake, nil }, AutomationParams{})
	require.NoError(t, err)

	require.NoError(t, handle.Start(context.Background()))
	assert.Equal(t, StateRunning, handle.GetState())

	require.NoError(t, handle.Stop(context.Background()))
	require.NoError(t, handle.Stop(context.Background()))
	assert.Equal(t, StateStopped, handle.GetState())
	assert.Equal(t, 1, fake.started)
	assert.Equal(t, 1, fake.stopped)
}

func TestAutomationHandle_StopWithoutStart(t *testing.T) {
	fake := &fakeAutomation{}
	handle, err := NewAutomationHandle(func(AutomationParams) (Automation, error) { return fake, nil }, AutomationParams{})
	require.NoError(t, err)

	require.NoError(t, handle.Stop(context.Background()))
	assert.Equal(t, 0, fake.started)
	assert.Equal(t, 1, fake.stopped)
}

func TestAutomationHandle_StartErrorIsWrapped(t *testing.T) {
	startErr := errors.New("spi busy")
	fake := &fakeAutomation{startErr: startErr}
	handle, err := NewAutomationHandle(func(AutomationParams) (Automation, error) { return fake, nil }, AutomationParams{})
	require.NoError(t, err)

	err = handle.Start(context.Background())
	assert.ErrorIs(t, err, startErr)
	assert.Contains(t, err.Error(), AutomationName)
	assert.Equal(t, StateFailed, handle.GetState())
	assert.Equal(t, startErr, handle.GetLastError())
}

func TestAutomationHandle_UpdateConfig(t *testing.T) {
	fake := &fakeAutomation{}
	handle, err := NewAutomationHandle(func(AutomationParams) (Automation, error) { return fake, nil }, AutomationParams{})
	require.NoError(t, err)

	update := config.Tree{config.KeyRGBSpeed: config.Int(5)}
	require.NoError(t, handle.UpdateConfig(update))

	require.Len(t, fake.updates, 1)
	assert.Equal(t, update, fake.updates[0])
	assert.Equal(t, update, handle.Auto())

	fake.updateErr = errors.New("bad color")
	assert.ErrorIs(t, handle.UpdateConfig(update), fake.updateErr)
}

func TestDashboardHandle_CallbackGetsCopy(t *testing.T) {
	fake := &fakeDashboard{}
	var got DashboardParams
	handle, err := NewDashboardHandle(func(p DashboardParams) (Dashboard, error) {
		got = p
		return fake, nil
	}, DashboardParams{
		Device:   Pironman5Device(),
		Settings: DefaultDashboardSettings(),
		Config:   config.Defaults(),
	})
	require.NoError(t, err)

	assert.Equal(t, "pironman5", got.Device.ID)
	assert.Equal(t, "pironman5", got.Settings.Database)
	assert.Equal(t, config.Defaults(), got.Config)
	assert.Equal(t, Pironman5Device(), handle.Device())

	var received config.Tree
	handle.SetOnConfigChanged(func(change config.Tree) {
		received = change
	})

	change := config.AutoOverride(config.Tree{config.KeyRGBSpeed: config.Int(5)})
	fake.report(change)

	require.NotNil(t, received)
	assert.Equal(t, change, received)

	received.Subtree(config.KeyAuto)[config.KeyRGBSpeed] = config.Int(0)
	assert.Equal(t, config.Int(5), change.Subtree(config.KeyAuto)[config.KeyRGBSpeed])
}

func TestDashboardHandle_Lifecycle(t *testing.T) {
	fake := &fakeDashboard{}
	handle, err := NewDashboardHandle(func(DashboardParams) (Dashboard, error) { return fake, nil }, DashboardParams{})
	require.NoError(t, err)

	var transitions []State
	handle.SetStateChangeCallback(func(_ string, _, newState State, _ error) {
		transitions = append(transitions, newState)
	})

	require.NoError(t, handle.Start(context.Background()))
	require.NoError(t, handle.Stop(context.Background()))

	assert.Equal(t, []State{StateStarting, StateRunning, StateStopping, StateStopped}, transitions)
}

type observingDashboard struct {
	fakeDashboard
	seen []config.Tree
}

func (o *observingDashboard) ConfigUpdated(tree config.Tree) {
	o.seen = append(o.seen, tree)
}

func TestDashboardHandle_ConfigUpdated(t *testing.T) {
	observer := &observingDashboard{}
	handle, err := NewDashboardHandle(func(DashboardParams) (Dashboard, error) { return observer, nil }, DashboardParams{})
	require.NoError(t, err)

	tree := config.AutoOverride(config.Tree{config.KeyRGBBrightness: config.Int(50)})
	handle.ConfigUpdated(tree)

	require.Len(t, observer.seen, 1)
	assert.Equal(t, tree, observer.seen[0])

	tree.Subtree(config.KeyAuto)[config.KeyRGBBrightness] = config.Int(0)
	assert.Equal(t, config.Int(50), observer.seen[0].Subtree(config.KeyAuto)[config.KeyRGBBrightness])

	// Dashboards that do not observe configuration are skipped.
	plain, err := NewDashboardHandle(func(DashboardParams) (Dashboard, error) { return &fakeDashboard{}, nil }, DashboardParams{})
	require.NoError(t, err)
	plain.ConfigUpdated(tree)
}

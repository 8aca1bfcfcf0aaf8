package subsystem

import (
	"context"
	"fmt"
	"sync"
)

// BaseHandle provides the state bookkeeping shared by the concrete handles.
type BaseHandle struct {
	mu            sync.RWMutex
	name          string
	state         State
	lastError     error
	stateChangeCb StateChangeCallback

	// opMu serializes calls into the collaborator.
	opMu sync.Mutex
}

// NewBaseHandle creates a new base handle in StateUnknown.
func NewBaseHandle(name string) *BaseHandle {
	return &BaseHandle{
		name:  name,
		state: StateUnknown,
	}
}

// GetName returns the subsystem name
func (b *BaseHandle) GetName() string {
	return b.name
}

// GetState returns the current state
func (b *BaseHandle) GetState() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// GetLastError returns the last error
func (b *BaseHandle) GetLastError() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastError
}

// SetStateChangeCallback sets the state change callback
func (b *BaseHandle) SetStateChangeCallback(callback StateChangeCallback) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stateChangeCb = callback
}

// UpdateState updates the state and notifies the callback
func (b *BaseHandle) UpdateState(newState State, err error) {
	b.mu.Lock()
	oldState := b.state
	b.state = newState
	b.lastError = err
	callback := b.stateChangeCb
	b.mu.Unlock()

	// Call the callback outside of the lock to avoid deadlocks
	if callback != nil && oldState != newState {
		callback(b.name, oldState, newState, err)
	}
}

// start runs fn as the collaborator's start and records the outcome.
// It is not guarded against a second call; the orchestrator starts each
// handle once.
func (b *BaseHandle) start(ctx context.Context, fn func(context.Context) error) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.UpdateState(StateStarting, nil)
	if err := fn(ctx); err != nil {
		b.UpdateState(StateFailed, err)
		return fmt.Errorf("failed to start %s: %w", b.name, err)
	}
	b.UpdateState(StateRunning, nil)
	return nil
}

// stop runs fn as the collaborator's stop unless the handle is already
// stopped. The collaborator is asked to stop even when it never started, so
// that peripherals left on by an earlier process are released.
func (b *BaseHandle) stop(ctx context.Context, fn func(context.Context) error) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	if b.GetState() == StateStopped {
		return nil
	}

	b.UpdateState(StateStopping, nil)
	if err := fn(ctx); err != nil {
		b.UpdateState(StateFailed, err)
		return fmt.Errorf("failed to stop %s: %w", b.name, err)
	}
	b.UpdateState(StateStopped, nil)
	return nil
}

package standalone

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"pironman5/internal/config"
	"pironman5/internal/subsystem"
	"pironman5/pkg/logging"
)

const (
	// PendingDirName is the inbox directory created next to the backing file.
	PendingDirName = "pending"

	// DefaultDebounceInterval is how long a file must be quiet before it is read.
	DefaultDebounceInterval = 200 * time.Millisecond

	rejectedSuffix = ".rejected"
)

var (
	_ subsystem.Dashboard      = (*InboxDashboard)(nil)
	_ subsystem.ConfigObserver = (*InboxDashboard)(nil)
)

// InboxDashboard is a file-based dashboard. Every *.json document dropped into
// its pending directory is read as a partial configuration tree, removed, and
// reported through the change callback.
//
// Writers should create the file under a name starting with "." and rename
// it into place; dot files are ignored.
type InboxDashboard struct {
	mu sync.Mutex

	// dir is the watched pending directory
	dir string

	device   subsystem.DeviceInfo
	settings subsystem.DashboardSettings

	// debounceInterval is how long to wait for further writes to a file
	debounceInterval time.Duration

	callback func(config.Tree)

	// current is the effective configuration as last reported to the dashboard
	current config.Tree

	watcher *fsnotify.Watcher

	// pending tracks debounce timers per file
	pending map[string]*time.Timer

	// ready receives files whose debounce interval elapsed
	ready chan string

	stopCh  chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewInboxDashboard creates a dashboard watching <baseDir>/pending.
func NewInboxDashboard(baseDir string, params subsystem.DashboardParams, debounceInterval time.Duration) *InboxDashboard {
	if debounceInterval <= 0 {
		debounceInterval = DefaultDebounceInterval
	}
	return &InboxDashboard{
		dir:              filepath.Join(baseDir, PendingDirName),
		device:           params.Device,
		settings:         params.Settings,
		debounceInterval: debounceInterval,
		current:          params.Config.Clone(),
		pending:          make(map[string]*time.Timer),
	}
}

// InboxDashboardFactory returns a subsystem.DashboardFactory for dashboards
// rooted at baseDir.
func InboxDashboardFactory(baseDir string, debounceInterval time.Duration) subsystem.DashboardFactory {
	return func(params subsystem.DashboardParams) (subsystem.Dashboard, error) {
		return NewInboxDashboard(baseDir, params, debounceInterval), nil
	}
}

// Dir returns the watched pending directory.
func (d *InboxDashboard) Dir() string {
	return d.dir
}

// Config returns a copy of the effective configuration the dashboard knows.
func (d *InboxDashboard) Config() config.Tree {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current.Clone()
}

// ConfigUpdated records the effective configuration after an update.
func (d *InboxDashboard) ConfigUpdated(tree config.Tree) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = tree
	logging.Debug("Dashboard", "Effective configuration updated")
}

// SetOnConfigChanged registers the change callback, replacing any earlier one.
func (d *InboxDashboard) SetOnConfigChanged(callback func(config.Tree)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.callback = callback
}

// Start creates the pending directory and begins watching it. Files already
// present are delivered as if they had just been written.
func (d *InboxDashboard) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return nil
	}

	if err := os.MkdirAll(d.dir, 0755); err != nil {
		d.mu.Unlock()
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.mu.Unlock()
		return err
	}
	if err := watcher.Add(d.dir); err != nil {
		watcher.Close()
		d.mu.Unlock()
		return err
	}

	d.watcher = watcher
	d.running = true
	d.stopCh = make(chan struct{})
	d.ready = make(chan string, 16)
	d.wg.Add(1)
	go d.processEvents(watcher, d.stopCh, d.ready)
	d.mu.Unlock()

	d.scanExisting()

	logging.Info("Dashboard", "%s (%s) dashboard watching %s, database %s, interval %s",
		d.device.Name, d.device.ID, d.dir, d.settings.Database, d.settings.SampleInterval())
	return nil
}

// Stop closes the watcher and waits for the event loop to exit. Files still
// waiting for their debounce interval stay in the directory and are picked
// up on the next Start.
func (d *InboxDashboard) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	close(d.stopCh)
	for name, timer := range d.pending {
		timer.Stop()
		delete(d.pending, name)
	}
	watcher := d.watcher
	d.watcher = nil
	d.mu.Unlock()

	err := watcher.Close()
	if err != nil {
		logging.Error("Dashboard", err, "Error closing inbox watcher")
	}
	d.wg.Wait()

	logging.Info("Dashboard", "Stopped watching %s", d.dir)
	return err
}

// scanExisting schedules every inbox file present before the watch began.
func (d *InboxDashboard) scanExisting() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		logging.Warn("Dashboard", "Failed to list %s: %v", d.dir, err)
		return
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && isInboxFile(entry.Name()) {
			d.debounce(filepath.Join(d.dir, entry.Name()))
		}
	}
}

func (d *InboxDashboard) processEvents(watcher *fsnotify.Watcher, stopCh <-chan struct{}, ready <-chan string) {
	defer d.wg.Done()

	for {
		select {
		case <-stopCh:
			return

		case path := <-ready:
			d.deliver(path)

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isInboxFile(filepath.Base(event.Name)) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				d.debounce(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Dashboard", err, "Inbox watcher error")
		}
	}
}

// debounce (re)arms the timer for path. When it fires the path is handed back
// to the event loop, so delivery always happens on one goroutine.
func (d *InboxDashboard) debounce(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	if timer, ok := d.pending[path]; ok {
		timer.Stop()
	}

	stopCh, ready := d.stopCh, d.ready
	d.pending[path] = time.AfterFunc(d.debounceInterval, func() {
		d.mu.Lock()
		delete(d.pending, path)
		d.mu.Unlock()

		select {
		case ready <- path:
		case <-stopCh:
		}
	})
}

// deliver reads, removes and reports one inbox file. Files that do not parse
// are renamed with a .rejected suffix and not reported.
func (d *InboxDashboard) deliver(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("Dashboard", "Failed to read %s: %v", path, err)
		}
		return
	}

	change, err := config.Parse(data)
	if err != nil {
		logging.Warn("Dashboard", "Rejected %s: %v", path, err)
		if err := os.Rename(path, path+rejectedSuffix); err != nil {
			logging.Warn("Dashboard", "Failed to set aside %s: %v", path, err)
		}
		return
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn("Dashboard", "Failed to remove %s: %v", path, err)
	}

	d.mu.Lock()
	callback := d.callback
	d.mu.Unlock()
	if callback == nil {
		logging.Warn("Dashboard", "No change callback registered, discarding %s", filepath.Base(path))
		return
	}

	logging.Debug("Dashboard", "Reporting change from %s", filepath.Base(path))
	callback(change)
}

func isInboxFile(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".json")
}

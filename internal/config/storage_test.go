package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	tree, err := Load(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, Tree{}, tree)
}

func TestLoad_MalformedFileIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n    \"auto\": {\n        \"rgb_color\": \"#ff"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptConfig))
	assert.True(t, IsCorruptConfig(err))

	var corrupt *CorruptConfigError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, path, corrupt.Path)
	assert.Contains(t, corrupt.DetailedError(), "Suggestions")
}

func TestLoad_SyntaxErrorPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n  \"auto\": {\n    \"rgb_speed\": @\n  }\n}\n"), 0644))

	_, err := Load(path)
	var corrupt *CorruptConfigError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, 3, corrupt.Line)
	assert.Contains(t, corrupt.Error(), "line 3")
}

func TestLoad_EmptyFileIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Load(path)
	assert.True(t, IsCorruptConfig(err))
}

func TestLoad_UnreadableIsIOError(t *testing.T) {
	// A directory where the file should be cannot be read as a file.
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.Mkdir(path, 0755))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, IsCorruptConfig(err))
}

func TestPersist_WritesIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	require.NoError(t, Persist(path, Defaults()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"auto\": {\n        \"gpio_fan_pin\": 6,")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), loaded)
}

func TestPersist_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	require.NoError(t, Persist(path, Tree{"a": Int(1)}))
	require.NoError(t, Persist(path, Tree{"a": Int(2)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

func TestPersist_FailureKeepsPreviousFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, Persist(path, Tree{"a": Int(1)}))

	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := Persist(path, Tree{"a": Int(2)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Tree{"a": Int(1)}, loaded)
}

func TestNewStore_MergesDefaultsAndPersisted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auto": {"rgb_style": "flow"}, "extra": {"kept": true}}`), 0644))

	store, err := NewStore(path, Defaults())
	require.NoError(t, err)

	current := store.Current()
	assert.Equal(t, String("flow"), ReadAuto(current)["rgb_style"])
	assert.Equal(t, Int(100), ReadAuto(current)["rgb_brightness"])
	assert.Equal(t, Tree{"kept": Bool(true)}, current["extra"])
	assert.Equal(t, path, store.Path())
}

func TestNewStore_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"auto": `), 0644))

	_, err := NewStore(path, Defaults())
	assert.True(t, IsCorruptConfig(err))
}

func TestStore_RoundTripWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewStore(path, Defaults())
	require.NoError(t, err)

	_, err = store.Update(AutoOverride(Tree{KeyRGBBrightness: Int(50)}))
	require.NoError(t, err)

	reloaded, err := Load(store.Path())
	require.NoError(t, err)

	auto := ReadAuto(reloaded)
	assert.Equal(t, Int(50), auto[KeyRGBBrightness])
	for key := range DefaultAuto() {
		assert.Contains(t, auto, key)
	}
}

func TestStore_UpdateKeepsMemoryOnPersistFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	store, err := NewStore(filepath.Join(blocker, "config.json"), Defaults())
	require.NoError(t, err)

	// Parent of the backing file becomes a regular file, so every write fails.
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	updated, err := store.Update(AutoOverride(Tree{KeyRGBSpeed: Int(7)}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.Equal(t, Int(7), ReadAuto(updated)[KeyRGBSpeed])
	assert.Equal(t, Int(7), ReadAuto(store.Current())[KeyRGBSpeed])
}

func TestStore_ConcurrentUpdatesNeverTearFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewStore(path, Defaults())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Update(AutoOverride(Tree{KeyRGBSpeed: Int(int64(i))}))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, store.Current(), loaded)
}

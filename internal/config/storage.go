package config

import (
	"os"
	"path/filepath"
	"sync"

	"pironman5/pkg/logging"
)

// Store owns the effective configuration tree and its backing file.
//
// A single mutex guards both the in-memory tree and the file, so a
// read-modify-write through Update is never interleaved with another.
type Store struct {
	mu   sync.Mutex
	path string
	tree Tree
}

// NewStore loads the backing file at path and merges it over base. A corrupt
// file is returned as an error; a missing one is not.
func NewStore(path string, base Tree) (*Store, error) {
	persisted, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		path: path,
		tree: Merge(base, persisted),
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the in-memory tree.
func (s *Store) Current() Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Clone()
}

// Update merges partial into the in-memory tree and persists the result. The
// returned tree reflects the merge even when persisting fails; the in-memory
// state stays authoritative until the next successful write.
func (s *Store) Update(partial Tree) (Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tree = Merge(s.tree, partial)
	updated := s.tree.Clone()

	if err := Persist(s.path, s.tree); err != nil {
		return updated, err
	}
	return updated, nil
}

// Persist atomically replaces the file at path with tree: the document is
// written to a temporary file in the same directory, synced, then renamed
// over path. On failure the old file is untouched.
func Persist(path string, tree Tree) error {
	data, err := Marshal(tree)
	if err != nil {
		return &IOError{Path: path, Op: "encode", Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Path: path, Op: "create directory for", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Path: path, Op: "create temporary file for", Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return &IOError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return &IOError{Path: path, Op: "chmod", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return &IOError{Path: path, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: path, Op: "close", Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Path: path, Op: "replace", Err: err}
	}

	logging.Debug("ConfigStore", "Saved configuration to %s", path)
	return nil
}

package config

import (
	"bytes"
	"errors"
	"os"

	"pironman5/pkg/logging"

	"github.com/tidwall/jsonc"
)

// DefaultConfigPath is where the backing file lives when --config-path is
// not given.
const DefaultConfigPath = "/opt/pironman5/config.json"

// Parse decodes a configuration document. Comments and trailing commas are
// accepted; anything else that is not a JSON object is an error.
func Parse(data []byte) (Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty document")
	}
	var tree Tree
	if err := tree.UnmarshalJSON(jsonc.ToJSON(data)); err != nil {
		return nil, err
	}
	return tree, nil
}

// Load reads the configuration file at path. A missing file yields an empty
// tree and no error. A file that exists but does not parse yields a
// *CorruptConfigError.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigStore", "No configuration found at %s, using defaults", path)
			return Tree{}, nil
		}
		return nil, &IOError{Path: path, Op: "read", Err: err}
	}

	tree, err := Parse(data)
	if err != nil {
		// jsonc.ToJSON keeps offsets, so positions refer to the original file.
		return nil, newCorruptConfigError(path, data, err)
	}

	logging.Debug("ConfigStore", "Loaded configuration from %s", path)
	return tree, nil
}

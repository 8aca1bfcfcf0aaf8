// Package config owns the pironman5 configuration tree: its typed
// representation, the layered merge, and the backing JSON file.
//
// # Layers
//
// The effective configuration is built from three layers, applied in order:
//
//  1. Defaults(): compile-time defaults for the "auto" subtree
//  2. the persisted file, last written by this process
//  3. overrides from command-line flags or from the dashboard
//
// Layers are combined with Merge. Mappings merge recursively, scalars
// replace, and sequences are appended rather than replaced. The last rule
// means repeated merges of a sequence-valued key grow it; callers that want
// replacement must write a scalar or rebuild the tree.
//
// # Backing file
//
// The file is a JSON object (comments and trailing commas are tolerated on
// read). A missing file is treated as empty. A file that exists but does not
// parse is reported as *CorruptConfigError and is fatal at startup.
//
// Writes go through Persist, which replaces the file atomically. A failed
// write returns *IOError and leaves the previous file untouched.
//
// # Usage
//
//	store, err := config.NewStore(path, config.Defaults())
//	if err != nil {
//	    return err
//	}
//
//	updated, err := store.Update(config.AutoOverride(config.Tree{
//	    config.KeyRGBBrightness: config.Int(50),
//	}))
//	if err != nil {
//	    logging.Error("ConfigStore", err, "Failed to persist configuration")
//	}
//	auto := config.ReadAuto(updated)
package config

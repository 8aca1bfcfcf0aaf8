package formatting

import (
	"encoding/json"
	"fmt"
	"sort"

	"pironman5/internal/config"
)

// Entry is one leaf of a flattened configuration tree.
type Entry struct {
	Key   string
	Value string
}

// Flatten lists the leaves of tree sorted by dotted key path. Sequences are
// leaves and render as JSON. Empty mappings produce no entries.
//
// Example:
//
//	Flatten(config.Tree{"auto": config.Tree{"rgb_speed": config.Int(0)}})
//	// [{Key: "auto.rgb_speed", Value: "0"}]
func Flatten(tree config.Tree) []Entry {
	var entries []Entry
	flattenInto(&entries, "", tree)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

func flattenInto(entries *[]Entry, prefix string, tree config.Tree) {
	for key, value := range tree {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if sub, ok := value.(config.Tree); ok {
			flattenInto(entries, path, sub)
			continue
		}
		*entries = append(*entries, Entry{Key: path, Value: formatValue(value)})
	}
}

// formatValue renders strings bare and everything else as JSON.
func formatValue(v config.Value) string {
	if s, ok := v.(config.Scalar); ok {
		if str, ok := s.AsString(); ok {
			return str
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

package formatting

import (
	"io"

	"pironman5/internal/config"
)

// JSONFormatter prints the tree exactly as it would be persisted.
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{options: options}
}

// FormatConfig writes tree as indented JSON.
func (f *JSONFormatter) FormatConfig(w io.Writer, tree config.Tree) error {
	data, err := config.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

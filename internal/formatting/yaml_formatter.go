package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"pironman5/internal/config"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{options: options}
}

// FormatConfig writes tree as YAML with sorted keys.
func (f *YAMLFormatter) FormatConfig(w io.Writer, tree config.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree.ToAny()); err != nil {
		return fmt.Errorf("failed to encode configuration as YAML: %w", err)
	}
	return enc.Close()
}

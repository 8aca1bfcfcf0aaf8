// Package formatting renders the effective configuration for the command
// line in JSON, YAML or table form.
package formatting

import (
	"fmt"
	"io"
	"strings"

	"pironman5/internal/config"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"  // Same document the service writes to disk
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // One row per leaf key
)

// Formats lists the accepted output formats, default first.
var Formats = []OutputFormat{FormatJSON, FormatYAML, FormatTable}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (expected json, yaml or table)", s)
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter writes a configuration tree to w.
type Formatter interface {
	FormatConfig(w io.Writer, tree config.Tree) error
}

// NewFormatter creates the formatter for options.Format. Unknown formats
// fall back to JSON.
func NewFormatter(options Options) Formatter {
	switch options.Format {
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatJSON:
		fallthrough
	default:
		return NewJSONFormatter(options)
	}
}

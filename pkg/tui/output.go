package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	OutputFormatJSON       OutputFormat = "json"
	OutputFormatYAML       OutputFormat = "yaml"
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatYAML, OutputFormatPrettyText:
		return OutputFormat(raw), nil
	case "":
		return OutputFormatJSON, nil
	}
	return "", fmt.Errorf("tui: unknown output format %q", raw)
}

// WriteValues serializes field values to w.
func WriteValues(w io.Writer, format OutputFormat, values map[string]string) error {
	if values == nil {
		values = map[string]string{}
	}
	switch format {
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, err := fmt.Fprintf(w, "%-14s %s\n", key+":", values[key]); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(values)
	}
}

// Package output renders query results for the command line.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jsonpath"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Format represents the output format for results.
type Format int

const (
	// FormatJSON writes one JSON document per result.
	FormatJSON Format = iota
	// FormatYAML writes all results of an input as one YAML sequence.
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// ParseFormat converts a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatJSON, fmt.Errorf("%w: %q (expected json or yaml)", ErrUnknownFormat, s)
	}
}

// Writer formats selected values or nodes onto an underlying writer.
type Writer struct {
	w       io.Writer
	format  Format
	compact bool
}

// New returns a Writer. compact disables JSON indentation.
func New(w io.Writer, format Format, compact bool) *Writer {
	return &Writer{w: w, format: format, compact: compact}
}

// WriteValues writes the values selected from one input.
func (w *Writer) WriteValues(values []any) error {
	if w.format == FormatYAML {
		items := make([]any, len(values))
		for i, v := range values {
			items[i] = yamlValue(v)
		}
		return w.writeYAML(items)
	}

	for _, v := range values {
		if err := w.writeJSON(jsonValue(v)); err != nil {
			return err
		}
	}
	return nil
}

// WriteResults writes the nodes selected from one input with their
// normalized paths.
func (w *Writer) WriteResults(results []jsonpath.Result) error {
	if w.format == FormatYAML {
		items := make([]jsonpath.Result, len(results))
		for i, r := range results {
			items[i] = jsonpath.Result{Path: r.Path, Value: yamlValue(r.Value)}
		}
		return w.writeYAML(items)
	}

	for _, r := range results {
		if err := w.writeJSON(jsonpath.Result{Path: r.Path, Value: jsonValue(r.Value)}); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeJSON(v any) error {
	encoder := json.NewEncoder(w.w)
	encoder.SetEscapeHTML(false)
	if !w.compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func (w *Writer) writeYAML(v any) error {
	payload, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return err
	}
	return nil
}

// orderedObject encodes a YAML mapping as a JSON object, keeping member order.
type orderedObject yaml.MapSlice

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(jsonValue(item.Value))
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue prepares a decoded document value for encoding/json. YAML
// mappings would otherwise encode as lists of key/value pairs.
func jsonValue(v any) any {
	switch value := v.(type) {
	case yaml.MapSlice:
		return orderedObject(value)
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = jsonValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = jsonValue(item)
		}
		return out
	default:
		return v
	}
}

// yamlValue prepares a decoded document value for go-yaml, turning JSON
// numbers into integers or floats so they are not emitted as strings.
func yamlValue(v any) any {
	switch value := v.(type) {
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n
		}
		if f, err := value.Float64(); err == nil {
			return f
		}
		return value.String()
	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(value))
		for i, item := range value {
			out[i] = yaml.MapItem{Key: item.Key, Value: yamlValue(item.Value)}
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = yamlValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[k] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}

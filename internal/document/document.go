// Package document decodes JSON and YAML input into the value model the
// query engine evaluates: nil, bool, string, numbers, []any and objects.
//
// JSON objects decode to map[string]any and numbers to json.Number, so
// integers keep their exact text. YAML mappings decode to yaml.MapSlice,
// which keeps members in document order.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

var (
	ErrEmpty         = errors.New("document is empty")
	ErrDecode        = errors.New("failed to decode document")
	ErrUnknownFormat = errors.New("unknown input format")
)

// Format selects the decoder for an input.
type Format int

const (
	// FormatAuto picks the decoder from the file extension and, when that
	// is inconclusive, tries JSON before YAML.
	FormatAuto Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat converts a -input flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q (expected auto, json or yaml)", ErrUnknownFormat, s)
	}
}

// DetectFormat resolves FormatAuto from a file name. Names without a known
// extension, including "-" for stdin, stay FormatAuto.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Read decodes a single document from r.
func Read(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return Decode(data, format)
}

// Decode decodes a single document from data.
func Decode(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		v, jsonErr := decodeJSON(data)
		if jsonErr == nil {
			return v, nil
		}
		if v, err := decodeYAML(data); err == nil {
			return v, nil
		}
		return nil, jsonErr
	}
}

func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrDecode, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON: unexpected data after top-level value", ErrDecode)
	}

	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", ErrDecode, err)
	}
	return v, nil
}

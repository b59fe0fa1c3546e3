package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/jsonpath"
)

func TestWriteValuesJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  []any
		compact bool
		want    string
	}{
		{
			name:    "compact_lines",
			values:  []any{map[string]any{"b": json.Number("1"), "a": "x"}, 2.5, nil},
			compact: true,
			want:    "{\"a\":\"x\",\"b\":1}\n2.5\nnull\n",
		},
		{
			name:   "indented",
			values: []any{map[string]any{"a": []any{true}}},
			want:   "{\n  \"a\": [\n    true\n  ]\n}\n",
		},
		{
			name: "ordered_mapping",
			values: []any{yaml.MapSlice{
				{Key: "zeta", Value: uint64(1)},
				{Key: "alpha", Value: []any{yaml.MapSlice{{Key: 7, Value: "seven"}}}},
			}},
			compact: true,
			want:    "{\"zeta\":1,\"alpha\":[{\"7\":\"seven\"}]}\n",
		},
		{
			name:    "no_html_escaping",
			values:  []any{"a<b"},
			compact: true,
			want:    "\"a<b\"\n",
		},
		{
			name:    "nothing",
			values:  []any{},
			compact: true,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := New(&buf, FormatJSON, tt.compact).WriteValues(tt.values); err != nil {
				t.Fatalf("WriteValues() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("WriteValues() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteResultsJSON(t *testing.T) {
	t.Parallel()

	results := []jsonpath.Result{
		{Path: "$['a']", Value: json.Number("1")},
		{Path: "$['b'][0]", Value: yaml.MapSlice{{Key: "k", Value: "v"}}},
	}

	var buf bytes.Buffer
	if err := New(&buf, FormatJSON, true).WriteResults(results); err != nil {
		t.Fatalf("WriteResults() error: %v", err)
	}

	want := "{\"path\":\"$['a']\",\"value\":1}\n{\"path\":\"$['b'][0]\",\"value\":{\"k\":\"v\"}}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteResults() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteValuesYAML(t *testing.T) {
	t.Parallel()

	values := []any{
		json.Number("42"),
		json.Number("1.5"),
		"text",
		yaml.MapSlice{{Key: "b", Value: true}, {Key: "a", Value: nil}},
	}

	var buf bytes.Buffer
	if err := New(&buf, FormatYAML, false).WriteValues(values); err != nil {
		t.Fatalf("WriteValues() error: %v", err)
	}

	var got []any
	if err := yaml.UnmarshalWithOptions(buf.Bytes(), &got, yaml.UseOrderedMap()); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}

	want := []any{
		uint64(42),
		1.5,
		"text",
		yaml.MapSlice{{Key: "b", Value: true}, {Key: "a", Value: nil}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteResultsYAML(t *testing.T) {
	t.Parallel()

	results := []jsonpath.Result{
		{Path: "$['it\\'s'][0]", Value: json.Number("-3")},
	}

	var buf bytes.Buffer
	if err := New(&buf, FormatYAML, false).WriteResults(results); err != nil {
		t.Fatalf("WriteResults() error: %v", err)
	}

	var got []struct {
		Path  string `yaml:"path"`
		Value int64  `yaml:"value"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || got[0].Path != results[0].Path || got[0].Value != -3 {
		t.Errorf("YAML round trip = %+v, want path %q value -3", got, results[0].Path)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatJSON},
		{input: "json", want: FormatJSON},
		{input: "YAML", want: FormatYAML},
		{input: "yml", want: FormatYAML},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

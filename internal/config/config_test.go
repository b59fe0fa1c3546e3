package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/jsonpath/internal/document"
	"github.com/jacoelho/jsonpath/internal/exit"
	"github.com/jacoelho/jsonpath/internal/output"
)

func TestParse(t *testing.T) {
	tempDir := t.TempDir()
	jsonFile := filepath.Join(tempDir, "store.json")
	yamlFile := filepath.Join(tempDir, "store.yaml")

	if err := os.WriteFile(jsonFile, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlFile, []byte("a: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want *Config
	}{
		{
			name: "query_only_reads_stdin",
			args: []string{"jp", "$.a"},
			want: &Config{
				Query: "$.a",
				Files: []string{Stdin},
			},
		},
		{
			name: "files",
			args: []string{"jp", "$..a", jsonFile, yamlFile},
			want: &Config{
				Query: "$..a",
				Files: []string{jsonFile, yamlFile},
			},
		},
		{
			name: "all_flags",
			args: []string{
				"jp", "-nodes", "-format", "yaml", "-input", "json", "-compact",
				"-validate", "-exit-status", "-debug", "$[0]", jsonFile, "-",
			},
			want: &Config{
				Query:        "$[0]",
				Files:        []string{jsonFile, Stdin},
				Nodes:        true,
				OutputFormat: output.FormatYAML,
				Compact:      true,
				InputFormat:  document.FormatJSON,
				ValidateOnly: true,
				ExitStatus:   true,
				Debug:        true,
			},
		},
		{
			name: "double_dash_flags",
			args: []string{"jp", "--nodes", "--format=json", "$"},
			want: &Config{
				Query: "$",
				Files: []string{Stdin},
				Nodes: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, result := Parse(tt.args)
			if result != nil {
				t.Fatalf("Parse() exit result: code %d, %q", result.ExitCode, result.Message)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantCode    int
		wantMessage string
	}{
		{
			name:        "no_arguments",
			args:        []string{},
			wantCode:    exit.CodeError,
			wantMessage: ErrNoArguments.Error(),
		},
		{
			name:        "no_query",
			args:        []string{"jp", "-nodes"},
			wantCode:    exit.CodeError,
			wantMessage: ErrNoQuery.Error(),
		},
		{
			name:        "empty_query",
			args:        []string{"jp", ""},
			wantCode:    exit.CodeError,
			wantMessage: ErrEmptyQuery.Error(),
		},
		{
			name:        "unknown_flag",
			args:        []string{"jp", "-color", "$"},
			wantCode:    exit.CodeError,
			wantMessage: "failed to parse arguments",
		},
		{
			name:        "bad_output_format",
			args:        []string{"jp", "-format", "xml", "$"},
			wantCode:    exit.CodeError,
			wantMessage: output.ErrUnknownFormat.Error(),
		},
		{
			name:        "bad_input_format",
			args:        []string{"jp", "-input", "toml", "$"},
			wantCode:    exit.CodeError,
			wantMessage: document.ErrUnknownFormat.Error(),
		},
		{
			name:        "missing_file",
			args:        []string{"jp", "$", filepath.Join(t.TempDir(), "missing.json")},
			wantCode:    exit.CodeError,
			wantMessage: "not found",
		},
		{
			name:        "help",
			args:        []string{"jp", "-h"},
			wantCode:    exit.CodeSuccess,
			wantMessage: "Usage: jp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, result := Parse(tt.args)
			if cfg != nil {
				t.Fatalf("Parse() = %+v, want nil config", cfg)
			}
			if result == nil {
				t.Fatal("Parse() exit result is nil")
			}
			if result.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.wantCode)
			}
			if !strings.Contains(result.Message, tt.wantMessage) {
				t.Errorf("Message %q does not contain %q", result.Message, tt.wantMessage)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Query: "$", Files: []string{Stdin}}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	cfg.Query = ""
	if err := cfg.Validate(); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Validate() error = %v, want ErrEmptyQuery", err)
	}

	cfg = &Config{Query: "$", Files: []string{filepath.Join(t.TempDir(), "nope.json")}}
	if err := cfg.Validate(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Validate() error = %v, want os.ErrNotExist", err)
	}
}

func TestUsage(t *testing.T) {
	usage := Usage()
	for _, flag := range []string{"--nodes", "--format", "--input", "--compact", "--validate", "--exit-status", "--debug"} {
		if !strings.Contains(usage, flag) {
			t.Errorf("Usage() does not document %s", flag)
		}
	}
}

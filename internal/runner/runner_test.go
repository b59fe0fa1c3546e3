package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/jsonpath/internal/config"
	"github.com/jacoelho/jsonpath/internal/document"
	"github.com/jacoelho/jsonpath/internal/exit"
	"github.com/jacoelho/jsonpath/internal/output"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRunner(t *testing.T, cfg *config.Config, stdin string) (*Runner, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	r, result := New(cfg)
	if result != nil {
		t.Fatalf("New() exit result: %q", result.Message)
	}

	var stdout, stderr bytes.Buffer
	r.SetInput(strings.NewReader(stdin))
	r.SetOutput(&stdout)
	r.SetErrorOutput(&stderr)
	return r, &stdout, &stderr
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	jsonFile := writeFile(t, dir, "store.json", `{"items":[{"id":1,"tags":["a","b"]},{"id":2,"tags":[]}]}`)
	yamlFile := writeFile(t, dir, "store.yaml", "items:\n  - id: 3\n    tags: [x, y]\n")
	emptyFile := writeFile(t, dir, "empty.json", `{"items":[]}`)

	tests := []struct {
		name       string
		cfg        config.Config
		stdin      string
		wantCode   int
		wantStdout string
	}{
		{
			name:       "json_file_values",
			cfg:        config.Config{Query: "$.items[*].id", Files: []string{jsonFile}, Compact: true},
			wantCode:   exit.CodeSuccess,
			wantStdout: "1\n2\n",
		},
		{
			name:       "filter_across_json_and_yaml",
			cfg:        config.Config{Query: "$.items[?length(@.tags) > 1].id", Files: []string{jsonFile, yamlFile}, Compact: true},
			wantCode:   exit.CodeSuccess,
			wantStdout: "1\n3\n",
		},
		{
			name:       "nodes",
			cfg:        config.Config{Query: "$.items[0].id", Files: []string{jsonFile}, Nodes: true, Compact: true},
			wantCode:   exit.CodeSuccess,
			wantStdout: "{\"path\":\"$['items'][0]['id']\",\"value\":1}\n",
		},
		{
			name:       "stdin",
			cfg:        config.Config{Query: "$[-1]", Files: []string{config.Stdin}, Compact: true},
			stdin:      `["a","b"]`,
			wantCode:   exit.CodeSuccess,
			wantStdout: "\"b\"\n",
		},
		{
			name:       "stdin_forced_yaml",
			cfg:        config.Config{Query: "$.*", Files: []string{config.Stdin}, InputFormat: document.FormatYAML, Compact: true},
			stdin:      "b: 1\na: 2\n",
			wantCode:   exit.CodeSuccess,
			wantStdout: "1\n2\n",
		},
		{
			name:       "yaml_output",
			cfg:        config.Config{Query: "$.items[*].id", Files: []string{yamlFile}, OutputFormat: output.FormatYAML},
			wantCode:   exit.CodeSuccess,
			wantStdout: "- 3\n",
		},
		{
			name:       "no_match_without_exit_status",
			cfg:        config.Config{Query: "$.items[*]", Files: []string{emptyFile}},
			wantCode:   exit.CodeSuccess,
			wantStdout: "",
		},
		{
			name:       "no_match_with_exit_status",
			cfg:        config.Config{Query: "$.items[*]", Files: []string{emptyFile}, ExitStatus: true},
			wantCode:   exit.CodeNoMatch,
			wantStdout: "",
		},
		{
			name:       "validate_only",
			cfg:        config.Config{Query: "$..id", Files: []string{config.Stdin}, ValidateOnly: true},
			wantCode:   exit.CodeSuccess,
			wantStdout: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			r, stdout, stderr := newTestRunner(t, &cfg, tt.stdin)

			if code := r.Run(context.Background()); code != tt.wantCode {
				t.Errorf("Run() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			if diff := cmp.Diff(tt.wantStdout, stdout.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunReportsBadInput(t *testing.T) {
	dir := t.TempDir()
	badFile := writeFile(t, dir, "bad.json", `{"a":`)
	goodFile := writeFile(t, dir, "good.json", `{"a":1}`)

	cfg := &config.Config{Query: "$.a", Files: []string{badFile, goodFile}, Compact: true}
	r, stdout, stderr := newTestRunner(t, cfg, "")

	if code := r.Run(context.Background()); code != exit.CodeError {
		t.Errorf("Run() = %d, want %d", code, exit.CodeError)
	}
	if got := stdout.String(); got != "1\n" {
		t.Errorf("stdout = %q, want the good input's match", got)
	}
	if !strings.Contains(stderr.String(), badFile) {
		t.Errorf("stderr %q does not name the bad input", stderr.String())
	}
}

func TestRunDebug(t *testing.T) {
	cfg := &config.Config{Query: "$.a.b", Files: []string{config.Stdin}, Debug: true}
	r, _, stderr := newTestRunner(t, cfg, `{"a":{"b":true}}`)

	if code := r.Run(context.Background()); code != exit.CodeSuccess {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeSuccess)
	}

	want := "query: $['a']['b']\n<stdin>: 1 match(es)\n"
	if diff := cmp.Diff(want, stderr.String()); diff != "" {
		t.Errorf("debug output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := &config.Config{Query: "$", Files: []string{config.Stdin}}
	r, stdout, stderr := newTestRunner(t, cfg, `1`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if code := r.Run(ctx); code != exit.CodeError {
		t.Errorf("Run() = %d, want %d", code, exit.CodeError)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", stdout.String())
	}
	if !strings.Contains(stderr.String(), "Interrupted") {
		t.Errorf("stderr %q does not report the interruption", stderr.String())
	}
}

func TestNewInvalidQuery(t *testing.T) {
	r, result := New(&config.Config{Query: "$[?@.a = 1]", Files: []string{config.Stdin}})
	if r != nil {
		t.Fatal("New() returned a runner for an invalid query")
	}
	if result == nil || result.ExitCode != exit.CodeError {
		t.Fatalf("New() exit result = %+v, want error", result)
	}
	if !strings.Contains(result.Message, "lexical error") {
		t.Errorf("message %q does not carry the parse error", result.Message)
	}
}

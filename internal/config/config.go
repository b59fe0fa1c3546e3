package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jsonpath/internal/document"
	"github.com/jacoelho/jsonpath/internal/exit"
	"github.com/jacoelho/jsonpath/internal/output"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

var (
	ErrNoArguments = errors.New("no arguments provided")
	ErrNoQuery     = errors.New("no query specified")
	ErrEmptyQuery  = errors.New("query cannot be empty")
)

// Config represents the complete configuration for the jp tool.
type Config struct {
	Query string
	// Files are read in order; Stdin reads standard input.
	Files []string

	// Output
	Nodes        bool
	OutputFormat output.Format
	Compact      bool

	InputFormat  document.Format
	ValidateOnly bool
	ExitStatus   bool
	Debug        bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Query == "" {
		return ErrEmptyQuery
	}

	for _, file := range c.Files {
		if file == Stdin {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}

	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.UsageError(ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		nodes        = fs.Bool("nodes", false, "Print each match as a path/value pair")
		outputFormat = fs.String("format", "json", "Output format: json or yaml")
		inputFormat  = fs.String("input", "auto", "Input format: auto, json or yaml")
		compact      = fs.Bool("compact", false, "Print JSON output on a single line")
		validate     = fs.Bool("validate", false, "Only check that the query is valid")
		exitStatus   = fs.Bool("exit-status", false, "Exit with status 4 when nothing matched")
		debug        = fs.Bool("debug", false, "Print the parsed query and match counts to stderr")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.UsageError(fmt.Errorf("failed to parse arguments: %w", err), Usage())
	}

	positional := fs.Args()
	if len(positional) == 0 {
		return nil, exit.UsageError(ErrNoQuery, Usage())
	}

	outFormat, err := output.ParseFormat(*outputFormat)
	if err != nil {
		return nil, exit.UsageError(err, Usage())
	}

	inFormat, err := document.ParseFormat(*inputFormat)
	if err != nil {
		return nil, exit.UsageError(err, Usage())
	}

	files := positional[1:]
	if len(files) == 0 {
		files = []string{Stdin}
	}

	config := &Config{
		Query:        positional[0],
		Files:        files,
		Nodes:        *nodes,
		OutputFormat: outFormat,
		Compact:      *compact,
		InputFormat:  inFormat,
		ValidateOnly: *validate,
		ExitStatus:   *exitStatus,
		Debug:        *debug,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.UsageError(err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jp - RFC 9535 JSONPath query tool

Usage: jp [options] <query> [file1] [file2] ...

Reads standard input when no file is given, or when a file is "-".

Options:
  --nodes                 Print each match as a {"path", "value"} pair
  --format FORMAT         Output format: json or yaml (default: json)
  --input FORMAT          Input format: auto, json or yaml (default: auto)
  --compact               Print JSON output on a single line
  --validate              Only check that the query is valid
  --exit-status           Exit with status 4 when nothing matched
  --debug                 Print the parsed query and match counts to stderr
  -h, --help              Show this help message

Examples:
  jp '$.store.book[*].author' store.json        # Select all authors
  jp --nodes '$..price' store.json              # Show normalized paths
  jp --format yaml '$.items[?@.enabled]' a.yaml # Filter YAML input
  curl -s api/items | jp '$[?length(@.tags) > 1]'
  jp --validate '$[?match(@.name, "a.*")]'      # Check a query`
}

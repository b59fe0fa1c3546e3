package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jsonpath"
	"github.com/jacoelho/jsonpath/internal/config"
	"github.com/jacoelho/jsonpath/internal/document"
	"github.com/jacoelho/jsonpath/internal/exit"
	"github.com/jacoelho/jsonpath/internal/output"
)

// Runner evaluates one compiled query against every configured input.
type Runner struct {
	config    *config.Config
	query     *jsonpath.Query
	input     io.Reader
	output    io.Writer
	errOutput io.Writer
}

// New compiles the configured query. An invalid query yields an error exit
// result carrying the parse error.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	query, err := jsonpath.Parse(cfg.Query)
	if err != nil {
		return nil, exit.InvalidQuery(cfg.Query, err)
	}

	return &Runner{
		config:    cfg,
		query:     query,
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func (r *Runner) SetInput(rd io.Reader) {
	r.input = rd
}

func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

func (r *Runner) logf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errorWriter(), format, args...)
}

func (r *Runner) debugf(format string, args ...any) {
	if r.config.Debug {
		r.logf(format, args...)
	}
}

// Run processes the inputs in order and returns the process exit code.
// Inputs that fail to read or decode are reported and skipped; the run then
// exits with an error status.
func (r *Runner) Run(ctx context.Context) int {
	r.debugf("query: %s\n", r.query)

	if r.config.ValidateOnly {
		return exit.CodeSuccess
	}

	out := output.New(r.payloadWriter(), r.config.OutputFormat, r.config.Compact)

	matched := 0
	failed := false
	for i, name := range r.config.Files {
		select {
		case <-ctx.Done():
			r.logf("\nInterrupted after %d of %d inputs\n", i, len(r.config.Files))
			return exit.CodeError
		default:
		}

		count, err := r.runInput(name, out)
		if err != nil {
			r.logf("Error: %s: %v\n", displayName(name), err)
			failed = true
			continue
		}
		r.debugf("%s: %d match(es)\n", displayName(name), count)
		matched += count
	}

	return exit.Status(failed, matched, r.config.ExitStatus)
}

func (r *Runner) runInput(name string, out *output.Writer) (int, error) {
	doc, err := r.readDocument(name)
	if err != nil {
		return 0, err
	}

	if r.config.Nodes {
		results := r.query.SelectNodes(doc)
		if err := out.WriteResults(results); err != nil {
			return 0, err
		}
		return len(results), nil
	}

	values := r.query.Select(doc)
	if err := out.WriteValues(values); err != nil {
		return 0, err
	}
	return len(values), nil
}

func (r *Runner) readDocument(name string) (any, error) {
	format := r.config.InputFormat
	if format == document.FormatAuto {
		format = document.DetectFormat(name)
	}

	if name == config.Stdin {
		if r.input == nil {
			return nil, document.ErrEmpty
		}
		return document.Read(r.input, format)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return document.Read(f, format)
}

func displayName(name string) string {
	if name == config.Stdin {
		return "<stdin>"
	}
	return name
}

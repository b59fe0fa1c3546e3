package exit

import (
	"fmt"
	"io"
	"os"
)

// Process exit codes.
const (
	CodeSuccess = 0
	CodeError   = 1
	// CodeNoMatch is returned with -exit-status when no input produced a
	// match. It follows the jq convention for "no output".
	CodeNoMatch = 4
)

// Result is a message to print before terminating with ExitCode.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the message to Output.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success prints message to stdout and exits 0, as for -h.
func Success(message string) *Result {
	return &Result{Output: os.Stdout, ExitCode: CodeSuccess, Message: message}
}

// Error prints message to stderr and exits 1.
func Error(message string) *Result {
	return &Result{Output: os.Stderr, ExitCode: CodeError, Message: message}
}

// Errorf is Error with a formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// UsageError reports a bad command line followed by the usage text.
func UsageError(err error, usage string) *Result {
	return Errorf("Error: %v\n\n%s", err, usage)
}

// InvalidQuery reports a query that failed to parse. err carries the
// position of the failure.
func InvalidQuery(query string, err error) *Result {
	return Errorf("Error: invalid query %q: %v\n", query, err)
}

// Status maps the outcome of a run over all inputs to an exit code. Input
// failures take precedence over the no-match status.
func Status(failed bool, matches int, requireMatch bool) int {
	switch {
	case failed:
		return CodeError
	case requireMatch && matches == 0:
		return CodeNoMatch
	default:
		return CodeSuccess
	}
}

package cmd

import (
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"loom/internal/errors"
)

// reportError renders err with a source excerpt from the file it points at,
// falling back to fallback when the error carries no filename.
func reportError(w io.Writer, fallback string, err error) {
	filename := fallback
	var ee *errors.EvalError
	if goerrors.As(err, &ee) && ee.Position.Filename != "" {
		filename = ee.Position.Filename
	}

	var source string
	if raw, readErr := os.ReadFile(filename); readErr == nil {
		source = string(raw)
	}
	fmt.Fprint(w, errors.NewErrorReporter(filename, source).FormatEvalError(err))
}

// scriptFailure reports err and wraps it with the matching exit code.
func scriptFailure(w io.Writer, path string, err error) error {
	reportError(w, path, err)

	code := ExitScriptError
	if goerrors.Is(err, errors.ErrModuleNotFound) || errors.CodeOf(err) == errors.ErrorModuleRead {
		code = ExitNotFound
	}
	return &ExitError{Code: code, Err: err, Printed: true}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}

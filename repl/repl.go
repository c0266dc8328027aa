// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"

	"loom/internal/engine"
	"loom/internal/errors"
	"loom/internal/scope"
)

const PROMPT = ">> "

// Start reads one statement list per line from in and evaluates it with e.
// Bindings and imports persist between lines. It returns when in is
// exhausted.
func Start(in io.Reader, out io.Writer, e *engine.Engine) error {
	scanner := bufio.NewScanner(in)
	sc := scope.New()

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := e.EvalWithScope(sc, line)
		if err != nil {
			fmt.Fprint(out, errors.NewErrorReporter("<repl>", line).FormatEvalError(err))
			continue
		}
		if !result.IsUnit() {
			fmt.Fprintln(out, result)
		}
	}
}

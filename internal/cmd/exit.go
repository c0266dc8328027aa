package cmd

import "fmt"

// Exit codes returned by the loom binary.
const (
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitScriptError indicates a script failed to parse, compile or run.
	ExitScriptError = 2

	// ExitConfigError indicates the configuration could not be loaded.
	ExitConfigError = 3

	// ExitNotFound indicates a module or script was not found.
	ExitNotFound = 5
)

// ExitError carries the process exit code for an error. Printed is set when
// the command already reported the error to the user.
type ExitError struct {
	Code    int
	Err     error
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

package errors

// Error codes for the loom runtime
// These codes are used in error messages and documentation
// to provide consistent error identification across the toolchain.
//
// Error code ranges:
// E0001-E0099: Evaluation errors
// E0100-E0199: Parser errors
// E0300-E0399: Import/module errors
// E0600-E0699: Limits and flow control errors

const (
	// E0001: Qualified or unqualified variable lookup failed
	ErrorVariableNotFound = "E0001"

	// E0002: Qualified or unqualified function lookup failed
	ErrorFunctionNotFound = "E0002"

	// E0003: Operand or argument has the wrong type
	ErrorTypeMismatch = "E0003"

	// E0013: Function call argument errors
	ErrorInvalidArguments = "E0013"

	// E0014: Assignment to a constant or a non-variable
	ErrorInvalidAssignment = "E0014"

	// E0015: Unary/Binary operation errors
	ErrorInvalidOperation = "E0015"

	// E0100: Script does not parse
	ErrorParse = "E0100"

	// E0300: Resolver has no module for the path
	ErrorModuleNotFound = "E0300"

	// E0301: Module source could not be read
	ErrorModuleRead = "E0301"

	// E0302: Qualifier does not name a module
	ErrorNotAModule = "E0302"

	// E0303: import used with no resolver configured
	ErrorNoResolver = "E0303"

	// E0304: Nested imports exceed the configured depth
	ErrorImportTooDeep = "E0304"

	// E0305: No iterator registered for the value's type
	ErrorNoIterator = "E0305"

	// E0600: Call depth exceeded
	ErrorStackOverflow = "E0600"

	// E0601: Generic runtime error raised by native code
	ErrorRuntime = "E0601"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorVariableNotFound:
		return "Variable is not defined in scope or not exported by the module"
	case ErrorFunctionNotFound:
		return "No function matches the name, arity and argument types"
	case ErrorTypeMismatch:
		return "Value type does not match the expected type"
	case ErrorInvalidArguments:
		return "Function call has invalid arguments"
	case ErrorInvalidAssignment:
		return "Invalid assignment target"
	case ErrorInvalidOperation:
		return "Operation not supported for these types"
	case ErrorParse:
		return "Script does not parse"
	case ErrorModuleNotFound:
		return "Module resolver has no module for this path"
	case ErrorModuleRead:
		return "Module source could not be read"
	case ErrorNotAModule:
		return "Qualifier does not refer to an imported module"
	case ErrorNoResolver:
		return "Import used but no module resolver is configured"
	case ErrorImportTooDeep:
		return "Nested imports exceed the configured depth"
	case ErrorNoIterator:
		return "Value cannot be iterated"
	case ErrorStackOverflow:
		return "Function calls nested too deeply"
	case ErrorRuntime:
		return "Runtime error"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Evaluation"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0300" && code < "E0400":
		return "Import/Module"
	case code >= "E0600" && code < "E0700":
		return "Limits"
	default:
		return "Unknown"
	}
}

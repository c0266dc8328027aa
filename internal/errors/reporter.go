package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"loom/token"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is the rendered form of an error: position, message, suggestions and notes
type CompilerError struct {
	Level       ErrorLevel
	Code        string         // Error code like E0001
	Message     string         // Primary error message
	Position    token.Position // Location in source
	Length      int            // Length of the problematic region
	Suggestions []Suggestion   // Suggested fixes
	Notes       []string       // Additional context notes
	HelpText    string         // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string         // Description of the suggestion
	Replacement string         // Suggested replacement text (optional)
	Position    token.Position // Position to apply the fix (optional)
	Length      int            // Length of text to replace (optional)
}

// ErrorReporter handles consistent error formatting and suggestions
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// FormatError formats a diagnostic with a source excerpt and caret marker.
// The excerpt is omitted when the position is unknown or points into
// another file than the reporter's.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var b strings.Builder

	er.writeHeader(&b, err)

	width := er.getLineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)
	dim := color.New(color.Faint).SprintFunc()

	filename := er.filename
	if err.Position.Filename != "" {
		filename = err.Position.Filename
	}
	if err.Position.IsNone() {
		fmt.Fprintf(&b, "%s %s %s\n", indent, dim("-->"), filename)
	} else {
		fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), filename, err.Position.Line, err.Position.Column)
		if filename == er.filename {
			er.writeExcerpt(&b, err, width)
		}
	}

	er.writeTrailer(&b, err, indent)
	b.WriteString("\n")
	return b.String()
}

// writeHeader writes `error[E0001]: message`.
func (er *ErrorReporter) writeHeader(b *strings.Builder, err CompilerError) {
	level := er.getLevelColor(err.Level)(string(err.Level))
	if err.Code != "" {
		fmt.Fprintf(b, "%s[%s]: %s\n", level, err.Code, err.Message)
		return
	}
	fmt.Fprintf(b, "%s: %s\n", level, err.Message)
}

// writeExcerpt writes the offending line between its neighbours, with a
// caret marker under the reported span.
func (er *ErrorReporter) writeExcerpt(b *strings.Builder, err CompilerError, width int) {
	line := err.Position.Line
	if line > len(er.lines) {
		return
	}
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	gutter := func(n int, style func(...any) string) string {
		return style(fmt.Sprintf("%*d", width, n)) + " " + dim("│")
	}
	indent := strings.Repeat(" ", width)

	fmt.Fprintf(b, "%s %s\n", indent, dim("│"))
	if line > 1 {
		fmt.Fprintf(b, "%s %s\n", gutter(line-1, dim), er.lines[line-2])
	}
	fmt.Fprintf(b, "%s %s\n", gutter(line, bold), er.lines[line-1])
	fmt.Fprintf(b, "%s %s %s\n", indent, dim("│"), er.createMarker(err.Position.Column, err.Length, err.Level))
	if line < len(er.lines) {
		fmt.Fprintf(b, "%s %s\n", gutter(line+1, dim), er.lines[line])
	}
}

// writeTrailer writes suggestions, notes, help text and the code's
// category.
func (er *ErrorReporter) writeTrailer(b *strings.Builder, err CompilerError, indent string) {
	dim := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, suggestion := range err.Suggestions {
		fmt.Fprintf(b, "%s %s %s %s\n", indent, dim("="), cyan("help:"), suggestion.Message)
		if suggestion.Replacement != "" {
			fmt.Fprintf(b, "%s %s %s\n", indent, dim("│"), cyan(suggestion.Replacement))
		}
	}
	for _, note := range err.Notes {
		fmt.Fprintf(b, "%s %s %s %s\n", indent, dim("="), blue("note:"), note)
	}
	if err.HelpText != "" {
		fmt.Fprintf(b, "%s %s %s %s\n", indent, dim("="), green("help:"), err.HelpText)
	}
	if err.Code != "" {
		fmt.Fprintf(b, "%s %s %s\n", indent, dim("="),
			dim(fmt.Sprintf("%s error %s: %s", GetErrorCategory(err.Code), err.Code, GetErrorDescription(err.Code))))
	}
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...any) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker underlines length columns starting at column.
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	spaces := strings.Repeat(" ", max(0, column-1))
	return spaces + er.getLevelColor(level)(strings.Repeat("^", max(1, length)))
}

func (er *ErrorReporter) getLineNumberWidth(line int) int {
	return max(3, len(strconv.Itoa(line)))
}

// FormatEvalError renders any error returned by the runtime. Errors that are
// not EvalErrors are shown as a bare message without a source excerpt.
func (er *ErrorReporter) FormatEvalError(err error) string {
	var ee *EvalError
	if !errors.As(err, &ee) {
		return fmt.Sprintf("%s: %s\n", er.getLevelColor(Error)(string(Error)), err)
	}
	return er.FormatError(ee.Diagnostic())
}

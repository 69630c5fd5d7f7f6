package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Input rejected or quote produced warnings under --strict
	ExitCommandError = 2 // Command error (missing files, unreadable documents)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric  = "E001"
	ErrCodeInput    = "E002"
	ErrCodeRules    = "E003"
	ErrCodeNotFound = "E005"
	ErrCodeWarnings = "E010"
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Errors that are not an
// ExitError map to ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; defaults to Writer
	Verbose   bool
}

// Response is the JSON envelope for every command.
type Response struct {
	Status string         `json:"status"` // "ok" or "error"
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error part of a JSON response.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes v as indented JSON.
func (f *OutputFormatter) JSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success outputs data in the configured format. text renders the text form.
func (f *OutputFormatter) Success(data any, text func(io.Writer) error) error {
	if f.Format == "json" || text == nil {
		return f.JSON(Response{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Fail reports an error in the configured format and returns the matching
// ExitError for the command to return.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	if f.Format == "json" {
		re := &ResponseError{Code: code, Message: message}
		if err != nil {
			re.Details = err.Error()
		}
		_ = f.JSON(Response{Status: "error", Error: re})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
		if err != nil {
			fmt.Fprintf(f.Writer, "  %v\n", err)
		}
	}
	return WrapExitError(exitCode, code+": "+message, err)
}

// VerboseLog outputs a message only if verbose mode is enabled. It writes to
// ErrWriter so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

package errors

import (
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Stage names the pipeline stage that failed. Empty for configuration errors.
	Stage string `json:"stage,omitempty"`
	// ExitCode is the recommended process exit code for this error.
	ExitCode int `json:"exit_code"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Stage != "" {
		b.WriteString(" [")
		b.WriteString(e.Stage)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, " (cause: %v)", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithStage sets the failing stage and returns the receiver.
func (e *AppError) WithStage(stage string) *AppError {
	e.Stage = stage
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with the default exit code for code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		ExitCode: ExitCodeFor(code),
	}
}

// --- Configuration errors ---

// MissingInput creates an error for a required read file that is absent,
// does not exist or cannot be read. path may be empty when the value was
// never provided.
func MissingInput(field, path string) *AppError {
	details := map[string]any{"field": field}
	msg := fmt.Sprintf("%s is required", field)
	if path != "" {
		details["path"] = path
		msg = fmt.Sprintf("%s does not exist or is not readable: %s", field, path)
	}
	return &AppError{
		Code: ErrCodeMissingInput, Message: msg,
		ExitCode: ExitUsage, Details: details,
	}
}

// Validation creates an INVALID_PARAMETER error with a preformatted message.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidParameter, Message: message,
		ExitCode: ExitUsage,
	}
}

// --- Stage errors ---

// LaunchFailure creates an error for an executable that could not be started.
func LaunchFailure(stage, executable string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeLaunchFailure, Message: fmt.Sprintf("cannot launch %s", executable),
		Stage: stage, ExitCode: ExitLaunchFailure,
		Details: map[string]any{"executable": executable}, Cause: cause,
	}
}

// ToolFailure creates an error for a tool that exited with a non-zero status.
// The exit code mirrors the tool's status when it fits in a process exit code.
func ToolFailure(stage string, exitCode int, stderrTail string) *AppError {
	code := ExitInternal
	if exitCode > 0 && exitCode < 256 {
		code = exitCode
	}
	msg := fmt.Sprintf("exited with status %d", exitCode)
	if tail := strings.TrimSpace(stderrTail); tail != "" {
		msg += ": " + tail
	}
	return &AppError{
		Code: ErrCodeToolFailure, Message: msg,
		Stage: stage, ExitCode: code,
		Details: map[string]any{"tool_exit_code": exitCode, "stderr_tail": stderrTail},
	}
}

// MissingStageOutput creates an error for an artifact a stage should have produced.
func MissingStageOutput(stage, path string) *AppError {
	return &AppError{
		Code: ErrCodeMissingStageOutput, Message: fmt.Sprintf("expected artifact is missing: %s", path),
		Stage: stage, ExitCode: ExitMissingStageOutput,
		Details: map[string]any{"path": path},
	}
}

// Canceled creates an error for a stage interrupted by cancellation or timeout.
func Canceled(stage string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: "run canceled",
		Stage: stage, ExitCode: ExitCanceled, Cause: cause,
	}
}

// Internal creates an error for an orchestrator-level failure.
func Internal(message string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: message,
		ExitCode: ExitInternal, Cause: cause,
	}
}

package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors, raised before any stage runs.
const (
	// ErrCodeMissingInput indicates a required read file is absent or unreadable.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"
	// ErrCodeInvalidParameter indicates a provided value failed validation.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"
)

// Stage errors, raised by the pipeline driver.
const (
	// ErrCodeLaunchFailure indicates the engine executable could not be started.
	ErrCodeLaunchFailure ErrorCode = "LAUNCH_FAILURE"
	// ErrCodeToolFailure indicates the engine ran and exited non-zero.
	ErrCodeToolFailure ErrorCode = "TOOL_FAILURE"
	// ErrCodeMissingStageOutput indicates a stage artifact is absent despite a zero exit.
	ErrCodeMissingStageOutput ErrorCode = "MISSING_STAGE_OUTPUT"
	// ErrCodeCanceled indicates the run was interrupted or a stage timed out.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an orchestrator-level failure (e.g. moving the output).
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit codes used by the CLI.
const (
	ExitOK                 = 0
	ExitInternal           = 1
	ExitUsage              = 2
	ExitMissingStageOutput = 70
	ExitLaunchFailure      = 127
	ExitCanceled           = 130
)

var exitCodes = map[ErrorCode]int{
	ErrCodeMissingInput:       ExitUsage,
	ErrCodeInvalidParameter:   ExitUsage,
	ErrCodeLaunchFailure:      ExitLaunchFailure,
	ErrCodeToolFailure:        ExitInternal,
	ErrCodeMissingStageOutput: ExitMissingStageOutput,
	ErrCodeCanceled:           ExitCanceled,
	ErrCodeInternal:           ExitInternal,
}

// ExitCodeFor returns the default process exit code for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitInternal
}

// IsConfigurationCode reports whether the code is raised before any stage runs.
func IsConfigurationCode(code ErrorCode) bool {
	return code == ErrCodeMissingInput || code == ErrCodeInvalidParameter
}

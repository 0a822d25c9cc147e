package process

import "time"

// OutcomeKind classifies how a subprocess run ended.
type OutcomeKind int

const (
	// OutcomeSuccess means the process ran and exited zero.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeToolFailure means the process ran and exited non-zero.
	OutcomeToolFailure
	// OutcomeLaunchFailure means the executable could not be started.
	OutcomeLaunchFailure
	// OutcomeCanceled means the run was interrupted by cancellation or timeout.
	OutcomeCanceled
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeToolFailure:
		return "tool_failure"
	case OutcomeLaunchFailure:
		return "launch_failure"
	case OutcomeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// truncatedMarker prefixes a StderrTail that lost earlier output.
const truncatedMarker = "(output truncated) ... "

// Outcome is the classified result of one Runner.Run call.
type Outcome struct {
	Kind OutcomeKind
	// ExitCode is the process exit status; -1 when it never started or was
	// killed by a signal.
	ExitCode int
	// StderrTail is the last part of standard error, for diagnostics. It
	// starts with "(output truncated)" when earlier output was dropped.
	StderrTail string
	// Err carries the launch error or cancellation cause.
	Err      error
	Duration time.Duration
}

// Success reports whether the process exited zero.
func (o Outcome) Success() bool { return o.Kind == OutcomeSuccess }

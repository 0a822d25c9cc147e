package pipeline

import (
	"time"

	"github.com/kbukum/sgacorrect/stage"
)

// State is a position in the driver's state machine.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateFailed     State = "failed"
	StateCompleted  State = "completed"
)

// Terminal reports whether no further transition is possible from s.
func (s State) Terminal() bool {
	return s == StateFailed || s == StateCompleted
}

// Result is the terminal outcome of Execute.
type Result struct {
	Succeeded bool
	// FinalOutputPath is set iff Succeeded.
	FinalOutputPath string
	// FailedStage is set iff not Succeeded.
	FailedStage stage.Name
	Message     string
	// ExitCode is the process exit code the run should end with.
	ExitCode int
	// Err is the classified failure, an *errors.AppError, or nil.
	Err      error
	State    State
	Reports  []StageReport
	Duration time.Duration
}

// StageReport summarizes one executed stage.
type StageReport struct {
	Name     stage.Name    `json:"name"`
	Outcome  string        `json:"outcome"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Summary returns the run as structured log fields.
func (r Result) Summary() map[string]interface{} {
	stages := make([]map[string]interface{}, 0, len(r.Reports))
	for _, rep := range r.Reports {
		stages = append(stages, map[string]interface{}{
			"stage":       string(rep.Name),
			"outcome":     rep.Outcome,
			"exit_code":   rep.ExitCode,
			"duration_ms": rep.Duration.Milliseconds(),
		})
	}
	fields := map[string]interface{}{
		"state":       string(r.State),
		"exit_code":   r.ExitCode,
		"duration_ms": r.Duration.Milliseconds(),
		"stages":      stages,
	}
	if r.Succeeded {
		fields["output"] = r.FinalOutputPath
	} else {
		fields["failed_stage"] = string(r.FailedStage)
	}
	return fields
}

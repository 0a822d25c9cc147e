package process

import "time"

// Result holds the output and status of a completed subprocess.
type Result struct {
	// Stdout is the captured tail of standard output.
	Stdout []byte
	// Stderr is the captured tail of standard error.
	Stderr []byte
	// StderrTruncated reports whether Stderr lost earlier output.
	StderrTruncated bool
	// ExitCode is the process exit code. -1 if the process was killed or
	// never started.
	ExitCode int
	// Started reports whether the process was launched at all.
	Started bool
	// Duration is how long the process ran.
	Duration time.Duration
}

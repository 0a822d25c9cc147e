package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin provides input to the process. May be nil.
	Stdin io.Reader
	// Stdout and Stderr, when set, receive the streams in addition to the
	// captured tails.
	Stdout io.Writer
	Stderr io.Writer
	// TailBytes bounds how much of each stream is kept in the Result.
	// Defaults to DefaultTailBytes if zero.
	TailBytes int
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
}

package supervisor

import "fmt"

// SpawnError is returned when the child process could not be created.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn process %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// IOError is returned when capturing child output, or waiting for the
// child, failed.
type IOError struct {
	Stream string // "stdout", "stderr" or "process"
	Err    error
}

func (e *IOError) Error() string {
	if e.Stream == "process" {
		return fmt.Sprintf("failed waiting for process: %v", e.Err)
	}
	return fmt.Sprintf("error reading child output: %v", e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

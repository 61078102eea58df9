// Package exitcode defines the exit status hcp itself terminates with.
package exitcode

import "fmt"

// Fixed is one of hcp's own failure codes.
type Fixed int

const (
	SpawnFailure Fixed = 961 // child process could not be created
	IOFailure    Fixed = 962 // reading child output failed
	HTTPFailure  Fixed = 963 // a healthcheck request failed
	NoExitCode   Fixed = 964 // child ended without an exit code
)

// String names the failure kind.
func (f Fixed) String() string {
	switch f {
	case SpawnFailure:
		return "spawn failure"
	case IOFailure:
		return "I/O failure"
	case HTTPFailure:
		return "healthcheck request failure"
	case NoExitCode:
		return "no exit code"
	default:
		return fmt.Sprintf("fixed(%d)", int(f))
	}
}

// Code returns the numeric exit status.
func (f Fixed) Code() int { return int(f) }

func (Fixed) outcome() {}

// ChildCode is an exit status forwarded from the child, or 0 for success.
type ChildCode int

// Success is the outcome of a successful run.
const Success ChildCode = 0

// Code returns the numeric exit status.
func (c ChildCode) Code() int { return int(c) }

// String returns the forwarded code.
func (c ChildCode) String() string { return fmt.Sprintf("exit %d", int(c)) }

func (ChildCode) outcome() {}

// Outcome is either a ChildCode or a Fixed failure. The set is closed.
type Outcome interface {
	Code() int
	String() string
	outcome()
}
